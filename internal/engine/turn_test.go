package engine

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/tickduel/internal/game"
)

// scriptedInput fires start and stop signals immediately. Individual calls
// can be overridden to fail.
type scriptedInput struct {
	startErr []error
	stopErr  []error
	starts   int
	stops    int
}

func (s *scriptedInput) AwaitStart(ctx context.Context, player string, index, target int) error {
	var err error
	if s.starts < len(s.startErr) {
		err = s.startErr[s.starts]
	}
	s.starts++
	return err
}

func (s *scriptedInput) AwaitStop(ctx context.Context) error {
	var err error
	if s.stops < len(s.stopErr) {
		err = s.stopErr[s.stops]
	}
	s.stops++
	return err
}

// recordingObserver captures the order of events for assertions.
type recordingObserver struct {
	NopObserver
	events   []string
	attempts []game.Attempt
}

func (r *recordingObserver) TurnStarted(round int, player string) {
	r.events = append(r.events, "turn_started")
}

func (r *recordingObserver) AttemptStarted(round int, player string, index, target int, ticks <-chan Snapshot) {
	r.events = append(r.events, "attempt_started")
}

func (r *recordingObserver) AttemptResolved(round int, player string, attempt game.Attempt) {
	r.events = append(r.events, "attempt_resolved")
	r.attempts = append(r.attempts, attempt)
}

func (r *recordingObserver) TurnResolved(round int, result game.TurnResult) {
	r.events = append(r.events, "turn_resolved")
}

// slowPlayer returns a player whose counter will not tick within the test:
// every immediate stop freezes at zero, making scores deterministic.
func slowPlayer(strength int) *game.Player {
	return &game.Player{Name: "Tester", Vitality: 50, Speed: 3600000, Strength: strength}
}

func TestRunTurnScoresEveryObjectiveInOrder(t *testing.T) {
	in := &scriptedInput{}
	obs := &recordingObserver{}
	runner := &CounterTurnRunner{Input: in, Observer: obs}

	// Frozen value is always 0: deltas are 0 and 50, bases 100 and 20.
	result, err := runner.RunTurn(context.Background(), 1, slowPlayer(10), game.TargetList{0, 50})
	require.NoError(t, err)

	require.Len(t, result.Attempts, 2)
	assert.Equal(t, 0, result.Attempts[0].Target)
	assert.Equal(t, 50, result.Attempts[1].Target)
	assert.Zero(t, result.Attempts[0].Raw.Cmp(big.NewRat(110, 1)))
	assert.Zero(t, result.Attempts[1].Raw.Cmp(big.NewRat(30, 1)))
	assert.Equal(t, 70, result.Score) // (110 + 30) / 2

	assert.Equal(t, []string{
		"turn_started",
		"attempt_started", "attempt_resolved",
		"attempt_started", "attempt_resolved",
		"turn_resolved",
	}, obs.events)
	assert.Equal(t, 2, in.starts)
	assert.Equal(t, 2, in.stops)
}

func TestRunTurnAbsorbsLostStopSignal(t *testing.T) {
	in := &scriptedInput{stopErr: []error{ErrSignalLost}}
	obs := &recordingObserver{}
	runner := &CounterTurnRunner{Input: in, Observer: obs}

	result, err := runner.RunTurn(context.Background(), 1, slowPlayer(0), game.TargetList{7})
	require.NoError(t, err)

	require.Len(t, result.Attempts, 1)
	assert.True(t, result.Attempts[0].Forced)
	assert.Equal(t, 0, result.Attempts[0].Value)
	// delta 7 -> base 60, no misses, no strength
	assert.Equal(t, 60, result.Score)
}

func TestRunTurnAbsorbsLostStartSignal(t *testing.T) {
	in := &scriptedInput{startErr: []error{ErrSignalLost}}
	runner := &CounterTurnRunner{Input: in}

	result, err := runner.RunTurn(context.Background(), 1, slowPlayer(0), game.TargetList{0})
	require.NoError(t, err)

	require.Len(t, result.Attempts, 1)
	assert.True(t, result.Attempts[0].Forced)
	assert.Equal(t, 100, result.Score)
	// The stop source is never consulted for a dead start.
	assert.Equal(t, 0, in.stops)
}

func TestRunTurnPropagatesInputFailures(t *testing.T) {
	boom := errors.New("boom")
	in := &scriptedInput{stopErr: []error{boom}}
	runner := &CounterTurnRunner{Input: in}

	_, err := runner.RunTurn(context.Background(), 1, slowPlayer(0), game.TargetList{1})
	assert.True(t, errors.Is(err, boom))
}

func TestRunTurnAbortsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &CounterTurnRunner{Input: &scriptedInput{}}
	_, err := runner.RunTurn(ctx, 1, slowPlayer(0), game.TargetList{1, 2})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunTurnTerminatesEachCounterBeforeTheNext(t *testing.T) {
	var streams []<-chan Snapshot
	obs := &streamCollector{streams: &streams}
	runner := &CounterTurnRunner{Input: &scriptedInput{}, Observer: obs}

	_, err := runner.RunTurn(context.Background(), 1, slowPlayer(0), game.TargetList{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, streams, 3)

	// Every attempt's tick stream must be closed by the time the turn
	// returns: no counter goroutine survives its attempt.
	for i, s := range streams {
		select {
		case _, ok := <-s:
			assert.False(t, ok, "stream %d still open", i)
		case <-time.After(time.Second):
			t.Fatalf("stream %d not closed", i)
		}
	}
}

type streamCollector struct {
	NopObserver
	streams *[]<-chan Snapshot
}

func (s *streamCollector) AttemptStarted(round int, player string, index, target int, ticks <-chan Snapshot) {
	*s.streams = append(*s.streams, ticks)
}
