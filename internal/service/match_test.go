package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/tickduel/internal/engine"
	"github.com/ericogr/tickduel/internal/game"
)

// fixedTargets always hands out the same objective list.
type fixedTargets struct {
	list game.TargetList
	err  error
}

func (f *fixedTargets) Draw(count int) (game.TargetList, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

// scriptedRunner returns queued scores, one per RunTurn call.
type scriptedRunner struct {
	scores []int
	calls  int
	// strengths records the player's strength at each call so tests can
	// observe when penalties landed.
	strengths []int
}

func (s *scriptedRunner) RunTurn(ctx context.Context, round int, p *game.Player, targets game.TargetList) (game.TurnResult, error) {
	score := 0
	if s.calls < len(s.scores) {
		score = s.scores[s.calls]
	}
	s.calls++
	s.strengths = append(s.strengths, p.Strength)
	return game.TurnResult{Player: p.Name, Score: score}, nil
}

type fixedPicker struct {
	choice game.PenaltyChoice
}

func (f *fixedPicker) PickPenalty(ctx context.Context, winner, loser string) (game.PenaltyChoice, error) {
	return f.choice, nil
}

// endObserver captures the terminal event.
type endObserver struct {
	engine.NopObserver
	started string
	result  game.Result
	rounds  []int
}

func (e *endObserver) MatchStarted(id string, first, second *game.Player) { e.started = id }
func (e *endObserver) MatchEnded(result game.Result, first, second *game.Player) {
	e.result = result
}
func (e *endObserver) RoundStarted(round int, targets game.TargetList) {
	e.rounds = append(e.rounds, round)
}

func newMatchPlayers(vitality int) (*game.Player, *game.Player) {
	a := &game.Player{Name: "Ana", Vitality: vitality, Speed: 50, Strength: 50}
	b := &game.Player{Name: "Bruno", Vitality: vitality, Speed: 50, Strength: 50}
	return a, b
}

func deps(runner engine.TurnRunner, obs Observer) Deps {
	return Deps{
		Targets:  &fixedTargets{list: game.TargetList{10, 90}},
		Runner:   runner,
		Picker:   &fixedPicker{choice: game.PenaltyStrength},
		Observer: obs,
	}
}

func TestPlayRunsUntilElimination(t *testing.T) {
	a, b := newMatchPlayers(50)
	// Ana wins every round by 40: Bruno's vitality 50 -> 10 -> 0.
	runner := &scriptedRunner{scores: []int{110, 70, 110, 70}}
	obs := &endObserver{}

	m, err := NewMatch(a, b, 2, deps(runner, obs))
	require.NoError(t, err)

	result, err := m.Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Ana", result.Winner)
	assert.False(t, result.Draw)
	assert.Equal(t, 2, result.Rounds)
	assert.Equal(t, 0, b.Vitality)
	assert.Equal(t, 50, a.Vitality)
	// Strength penalty accumulated across both lost rounds.
	assert.Equal(t, 40, b.Strength)

	assert.Equal(t, m.ID(), result.MatchID)
	assert.NotEmpty(t, m.ID())
	assert.Equal(t, m.ID(), obs.started)
	assert.Equal(t, result, obs.result)
	assert.Equal(t, []int{1, 2}, obs.rounds)
}

func TestPlayPenaltiesLandBetweenRounds(t *testing.T) {
	a, b := newMatchPlayers(50)
	runner := &scriptedRunner{scores: []int{110, 70, 110, 70}}

	m, err := NewMatch(a, b, 2, deps(runner, nil))
	require.NoError(t, err)
	_, err = m.Play(context.Background())
	require.NoError(t, err)

	// Round 1 turns see pristine strength; round 2 turns see Bruno's
	// poisoned one.
	require.Len(t, runner.strengths, 4)
	assert.Equal(t, []int{50, 50, 50, 45}, runner.strengths)
}

func TestPlayDrawRoundKeepsMatchGoing(t *testing.T) {
	a, b := newMatchPlayers(40)
	runner := &scriptedRunner{scores: []int{80, 80, 120, 80}}

	m, err := NewMatch(a, b, 2, deps(runner, nil))
	require.NoError(t, err)
	result, err := m.Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Rounds)
	assert.Equal(t, "Ana", result.Winner)
	assert.Equal(t, 0, b.Vitality)
	// The drawn round cost nobody anything.
	assert.Equal(t, 45, b.Strength)
}

func TestPlayBothAtZeroIsAnImmediateDraw(t *testing.T) {
	a, b := newMatchPlayers(0)
	runner := &scriptedRunner{}
	obs := &endObserver{}

	m, err := NewMatch(a, b, 2, deps(runner, obs))
	require.NoError(t, err)
	result, err := m.Play(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Draw)
	assert.Empty(t, result.Winner)
	assert.Equal(t, 0, result.Rounds)
	assert.Equal(t, 0, runner.calls)
	assert.Equal(t, result, obs.result)
}

func TestPlayOneAtZeroAwardsTheOther(t *testing.T) {
	a, b := newMatchPlayers(50)
	b.Vitality = 0
	runner := &scriptedRunner{}

	m, err := NewMatch(a, b, 2, deps(runner, nil))
	require.NoError(t, err)
	result, err := m.Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Ana", result.Winner)
	assert.Equal(t, 0, result.Rounds)
	assert.Equal(t, 0, runner.calls)
}

func TestPlayIsSingleUse(t *testing.T) {
	a, b := newMatchPlayers(50)
	runner := &scriptedRunner{scores: []int{150, 70}}

	m, err := NewMatch(a, b, 2, deps(runner, nil))
	require.NoError(t, err)
	_, err = m.Play(context.Background())
	require.NoError(t, err)

	_, err = m.Play(context.Background())
	assert.True(t, errors.Is(err, ErrMatchAlreadyPlayed))
}

func TestPlayPropagatesTargetSourceFailure(t *testing.T) {
	a, b := newMatchPlayers(50)
	d := deps(&scriptedRunner{}, nil)
	d.Targets = &fixedTargets{err: game.ErrEmptyTargetList}

	m, err := NewMatch(a, b, 2, d)
	require.NoError(t, err)
	_, err = m.Play(context.Background())
	assert.True(t, errors.Is(err, game.ErrEmptyTargetList))
}

func TestNewMatchValidatesArguments(t *testing.T) {
	a, b := newMatchPlayers(50)

	_, err := NewMatch(nil, b, 2, deps(&scriptedRunner{}, nil))
	assert.Error(t, err)

	_, err = NewMatch(a, b, 0, deps(&scriptedRunner{}, nil))
	assert.True(t, errors.Is(err, game.ErrEmptyTargetList))

	_, err = NewMatch(a, b, 2, Deps{})
	assert.Error(t, err)
}
