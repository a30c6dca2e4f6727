package engine

import (
	"context"
	"errors"
	"math/big"

	"github.com/ericogr/tickduel/internal/game"
)

// ErrSignalLost indicates a signal source that went away before delivering
// its signal. The turn runner absorbs it by forcing the freeze at the last
// observed value instead of failing the turn.
var ErrSignalLost = errors.New("stop signal lost")

// Input supplies the player-facing signals a turn blocks on. Implementations
// decide what a signal is: a keypress on the real terminal, a scripted event
// in tests.
type Input interface {
	// AwaitStart blocks until the player launches the attempt for the
	// given objective. index is zero-based.
	AwaitStart(ctx context.Context, player string, index, target int) error
	// AwaitStop blocks until the player fires the one-shot stop signal.
	// Returning ErrSignalLost freezes the attempt at the last observed
	// value instead of aborting it.
	AwaitStop(ctx context.Context) error
}

// PenaltyPicker asks a round winner which stat to poison on the loser.
type PenaltyPicker interface {
	PickPenalty(ctx context.Context, winner, loser string) (game.PenaltyChoice, error)
}

// Observer receives play-by-play events as turns and rounds progress. Calls
// arrive from the goroutine driving the round; the ticks stream handed to
// AttemptStarted is the only part that may be consumed concurrently.
type Observer interface {
	RoundStarted(round int, targets game.TargetList)
	TurnStarted(round int, player string)
	AttemptStarted(round int, player string, index, target int, ticks <-chan Snapshot)
	AttemptResolved(round int, player string, attempt game.Attempt)
	TurnResolved(round int, result game.TurnResult)
	RoundResolved(outcome game.RoundOutcome)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) RoundStarted(int, game.TargetList)                     {}
func (NopObserver) TurnStarted(int, string)                               {}
func (NopObserver) AttemptStarted(int, string, int, int, <-chan Snapshot) {}
func (NopObserver) AttemptResolved(int, string, game.Attempt)             {}
func (NopObserver) TurnResolved(int, game.TurnResult)                     {}
func (NopObserver) RoundResolved(game.RoundOutcome)                       {}

// TurnRunner plays one player's full pass over a round's objectives.
type TurnRunner interface {
	RunTurn(ctx context.Context, round int, p *game.Player, targets game.TargetList) (game.TurnResult, error)
}

// CounterTurnRunner plays turns against real ticking counters, blocking on
// the injected Input for the start and stop signals. Attempts are strictly
// sequential; each counter is fully terminated before the next one starts.
type CounterTurnRunner struct {
	Input    Input
	Observer Observer
}

// RunTurn runs one attempt per objective, in order, at the player's current
// speed and strength. A lost signal forces the affected attempt; a context
// error aborts the whole turn.
func (r *CounterTurnRunner) RunTurn(ctx context.Context, round int, p *game.Player, targets game.TargetList) (game.TurnResult, error) {
	obs := r.Observer
	if obs == nil {
		obs = NopObserver{}
	}

	obs.TurnStarted(round, p.Name)
	result := game.TurnResult{
		Player:   p.Name,
		Attempts: make([]game.Attempt, 0, len(targets)),
	}
	raws := make([]*big.Rat, 0, len(targets))
	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return game.TurnResult{}, err
		}
		attempt, err := r.runAttempt(ctx, obs, round, i, target, p)
		if err != nil {
			return game.TurnResult{}, err
		}
		result.Attempts = append(result.Attempts, attempt)
		raws = append(raws, attempt.Raw)
		obs.AttemptResolved(round, p.Name, attempt)
	}
	result.Score = TurnScore(raws)
	obs.TurnResolved(round, result)
	return result, nil
}

func (r *CounterTurnRunner) runAttempt(ctx context.Context, obs Observer, round, index, target int, p *game.Player) (game.Attempt, error) {
	forced := false
	if err := r.Input.AwaitStart(ctx, p.Name, index, target); err != nil {
		if !errors.Is(err, ErrSignalLost) {
			return game.Attempt{}, err
		}
		// The start source died; play the attempt as an immediate
		// forced stop so the turn can still be scored.
		forced = true
	}

	c := StartCounter(p.Interval())
	defer c.Stop()
	obs.AttemptStarted(round, p.Name, index, target, c.Ticks())

	if !forced {
		if err := r.Input.AwaitStop(ctx); err != nil {
			if !errors.Is(err, ErrSignalLost) {
				return game.Attempt{}, err
			}
			forced = true
		}
	}
	frozen := c.Stop()

	delta := Delta(frozen.Value, target)
	return game.Attempt{
		Target: target,
		Value:  frozen.Value,
		Miss:   frozen.Miss,
		Forced: forced,
		Delta:  delta,
		Raw:    RawScore(delta, frozen.Miss, p.Strength),
	}, nil
}
