package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ericogr/tickduel/internal/constants"
	"github.com/ericogr/tickduel/internal/engine"
	"github.com/ericogr/tickduel/internal/game"
)

// ErrMatchAlreadyPlayed guards the single-use contract of a Match.
var ErrMatchAlreadyPlayed = errors.New("match already played")

// TargetSource provides the shared objectives for each round.
type TargetSource interface {
	Draw(count int) (game.TargetList, error)
}

// Observer widens engine.Observer with match-level events.
type Observer interface {
	engine.Observer
	MatchStarted(id string, first, second *game.Player)
	MatchEnded(result game.Result, first, second *game.Player)
}

// Deps bundles the collaborators a match drives.
type Deps struct {
	Targets  TargetSource
	Runner   engine.TurnRunner
	Picker   engine.PenaltyPicker
	Observer Observer
	Log      *zap.Logger
}

// Match owns both players for the duration of one duel and runs rounds until
// a vitality reaches zero. Stats are mutated only between turns, never while
// a counter is ticking.
type Match struct {
	id         string
	first      *game.Player
	second     *game.Player
	objectives int

	targets  TargetSource
	runner   engine.TurnRunner
	picker   engine.PenaltyPicker
	observer Observer
	log      *zap.Logger

	played bool
}

// NewMatch prepares a duel between two validated players.
func NewMatch(first, second *game.Player, objectives int, deps Deps) (*Match, error) {
	if first == nil || second == nil {
		return nil, errors.New("both players are required")
	}
	if objectives <= 0 {
		return nil, game.ErrEmptyTargetList
	}
	if deps.Targets == nil || deps.Runner == nil || deps.Picker == nil {
		return nil, errors.New("targets, runner and picker are required")
	}
	obs := deps.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Match{
		id:         uuid.NewString(),
		first:      first,
		second:     second,
		objectives: objectives,
		targets:    deps.Targets,
		runner:     deps.Runner,
		picker:     deps.Picker,
		observer:   obs,
		log:        log,
	}, nil
}

// ID returns the match identifier used in events and logs.
func (m *Match) ID() string {
	return m.id
}

// Play runs rounds until one player is eliminated and returns the final
// result. Starting with both players already at zero vitality ends in an
// immediate draw; starting with one at zero awards the other the win without
// playing a round. A match is single-use.
func (m *Match) Play(ctx context.Context) (game.Result, error) {
	if m.played {
		return game.Result{}, ErrMatchAlreadyPlayed
	}
	m.played = true

	m.observer.MatchStarted(m.id, m.first, m.second)
	m.log.Info("match started",
		zap.String(constants.LogFieldMatchID, m.id),
		zap.String("player_one", m.first.Name),
		zap.String("player_two", m.second.Name),
		zap.Int(constants.LogFieldVitality, m.first.Vitality),
	)

	round := 0
	for !m.first.Eliminated() && !m.second.Eliminated() {
		round++
		targets, err := m.targets.Draw(m.objectives)
		if err != nil {
			return game.Result{}, fmt.Errorf("draw objectives for round %d: %w", round, err)
		}
		r, err := engine.NewRound(round, m.first, m.second, targets, m.runner, m.picker, m.observer)
		if err != nil {
			return game.Result{}, fmt.Errorf("set up round %d: %w", round, err)
		}
		outcome, err := r.Resolve(ctx)
		if err != nil {
			return game.Result{}, fmt.Errorf("resolve round %d: %w", round, err)
		}
		m.logOutcome(outcome)
	}

	result := game.Result{MatchID: m.id, Rounds: round}
	switch {
	case m.first.Eliminated() && m.second.Eliminated():
		result.Draw = true
	case m.second.Eliminated():
		result.Winner = m.first.Name
	default:
		result.Winner = m.second.Name
	}

	m.observer.MatchEnded(result, m.first, m.second)
	m.log.Info("match ended",
		zap.String(constants.LogFieldMatchID, m.id),
		zap.Int(constants.LogFieldRound, result.Rounds),
		zap.String(constants.LogFieldWinner, result.Winner),
		zap.Bool("draw", result.Draw),
	)
	return result, nil
}

func (m *Match) logOutcome(outcome game.RoundOutcome) {
	if outcome.Draw {
		m.log.Info("round drawn",
			zap.String(constants.LogFieldMatchID, m.id),
			zap.Int(constants.LogFieldRound, outcome.Round),
			zap.Int(constants.LogFieldScore, outcome.First.Score),
		)
		return
	}
	m.log.Info("round resolved",
		zap.String(constants.LogFieldMatchID, m.id),
		zap.Int(constants.LogFieldRound, outcome.Round),
		zap.String(constants.LogFieldWinner, outcome.Winner),
		zap.String(constants.LogFieldLoser, outcome.Loser),
		zap.Int(constants.LogFieldDifference, outcome.Difference),
		zap.String(constants.LogFieldPenalty, string(outcome.Penalty)),
	)
}

// nopObserver ignores match events. Round and turn events are already
// covered by engine.NopObserver.
type nopObserver struct {
	engine.NopObserver
}

func (nopObserver) MatchStarted(string, *game.Player, *game.Player)    {}
func (nopObserver) MatchEnded(game.Result, *game.Player, *game.Player) {}
