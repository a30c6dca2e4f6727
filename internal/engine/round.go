package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericogr/tickduel/internal/constants"
	"github.com/ericogr/tickduel/internal/game"
)

// ErrRoundAlreadyResolved guards the single-use contract of a Round.
var ErrRoundAlreadyResolved = errors.New("round already resolved")

// roundState tracks the resolver's progress through its fixed sequence.
// States only ever advance; a Resolve call that does not begin from the
// initial state is rejected.
type roundState string

const (
	stateAwaitingFirstTurn  roundState = "awaiting_player_one_turn"
	stateAwaitingSecondTurn roundState = "awaiting_player_two_turn"
	stateComparing          roundState = "comparing"
	stateApplyingPenalty    roundState = "applying_penalty"
	stateComplete           roundState = "round_complete"
)

// Round resolves one full round: both turns over the same objectives, the
// score comparison, the winner's penalty choice and the vitality loss. A
// Round instance is single-use.
type Round struct {
	number  int
	first   *game.Player
	second  *game.Player
	targets game.TargetList

	runner   TurnRunner
	picker   PenaltyPicker
	observer Observer

	state roundState
}

// NewRound validates the inputs and prepares a resolver in its initial
// state. Both players play against the same target list.
func NewRound(number int, first, second *game.Player, targets game.TargetList, runner TurnRunner, picker PenaltyPicker, observer Observer) (*Round, error) {
	if err := targets.Validate(); err != nil {
		return nil, err
	}
	if first == nil || second == nil {
		return nil, errors.New("both players are required")
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Round{
		number:   number,
		first:    first,
		second:   second,
		targets:  targets,
		runner:   runner,
		picker:   picker,
		observer: observer,
		state:    stateAwaitingFirstTurn,
	}, nil
}

// Resolve plays the round to completion and applies its consequences. No
// player is mutated before both turns finish, so an error mid-round aborts
// with zero partial effects. On a non-draw the stat penalty lands before the
// vitality loss.
func (r *Round) Resolve(ctx context.Context) (game.RoundOutcome, error) {
	if r.state != stateAwaitingFirstTurn {
		return game.RoundOutcome{}, ErrRoundAlreadyResolved
	}
	r.observer.RoundStarted(r.number, r.targets)

	firstResult, err := r.runner.RunTurn(ctx, r.number, r.first, r.targets)
	if err != nil {
		r.state = stateComplete
		return game.RoundOutcome{}, fmt.Errorf("turn of %s: %w", r.first.Name, err)
	}
	r.state = stateAwaitingSecondTurn

	secondResult, err := r.runner.RunTurn(ctx, r.number, r.second, r.targets)
	if err != nil {
		r.state = stateComplete
		return game.RoundOutcome{}, fmt.Errorf("turn of %s: %w", r.second.Name, err)
	}
	r.state = stateComparing

	outcome := game.RoundOutcome{
		Round:  r.number,
		First:  firstResult,
		Second: secondResult,
	}
	if firstResult.Score == secondResult.Score {
		// Equal scores: nobody loses vitality and no penalty applies.
		outcome.Draw = true
		r.state = stateComplete
		r.observer.RoundResolved(outcome)
		return outcome, nil
	}

	winner, loser := r.first, r.second
	if secondResult.Score > firstResult.Score {
		winner, loser = r.second, r.first
	}
	outcome.Winner = winner.Name
	outcome.Loser = loser.Name
	outcome.Difference = firstResult.Score - secondResult.Score
	if outcome.Difference < 0 {
		outcome.Difference = -outcome.Difference
	}

	r.state = stateApplyingPenalty
	choice, err := r.picker.PickPenalty(ctx, winner.Name, loser.Name)
	if err != nil {
		r.state = stateComplete
		return game.RoundOutcome{}, fmt.Errorf("penalty choice of %s: %w", winner.Name, err)
	}
	loser.ApplyPenalty(choice, constants.PenaltyAmount)
	outcome.Penalty = choice

	loser.LoseVitality(outcome.Difference)
	r.state = stateComplete
	r.observer.RoundResolved(outcome)
	return outcome, nil
}
