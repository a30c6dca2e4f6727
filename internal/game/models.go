package game

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ericogr/tickduel/internal/constants"
)

// ErrInvalidStat indicates an initial stat outside its legal range.
var ErrInvalidStat = errors.New("invalid stat")

// ErrEmptyTargetList indicates a round was requested with no objectives.
var ErrEmptyTargetList = errors.New("target list is empty")

// ErrTargetOutOfRange indicates an objective outside the counter range.
var ErrTargetOutOfRange = errors.New("target outside counter range")

// Player holds one participant's mutable duel state. Stats change only
// between turns, never while a counter is ticking.
type Player struct {
	Name     string
	Vitality int
	// Speed is the counter tick period in milliseconds. Lower is faster.
	Speed    int
	Strength int
}

// NewPlayer validates the initial stats. Invalid starting values are a setup
// mistake and are rejected outright, never clamped.
func NewPlayer(name string, vitality, speed, strength int) (*Player, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("%w: speed must be positive, got %d", ErrInvalidStat, speed)
	}
	if vitality < 0 {
		return nil, fmt.Errorf("%w: vitality must not be negative, got %d", ErrInvalidStat, vitality)
	}
	if strength < 0 {
		return nil, fmt.Errorf("%w: strength must not be negative, got %d", ErrInvalidStat, strength)
	}
	return &Player{Name: name, Vitality: vitality, Speed: speed, Strength: strength}, nil
}

// Interval converts the speed stat to the counter tick period.
func (p *Player) Interval() time.Duration {
	return time.Duration(p.Speed) * time.Millisecond
}

// Eliminated reports whether the player is out of the duel.
func (p *Player) Eliminated() bool {
	return p.Vitality <= 0
}

// LoseVitality subtracts amount from vitality, clamped at zero.
func (p *Player) LoseVitality(amount int) {
	p.Vitality -= amount
	if p.Vitality < 0 {
		p.Vitality = 0
	}
}

// ApplyPenalty decreases the chosen stat. Speed never drops below
// constants.MinSpeed and strength never below constants.MinStrength.
func (p *Player) ApplyPenalty(choice PenaltyChoice, amount int) {
	switch choice {
	case PenaltySpeed:
		p.Speed -= amount
		if p.Speed < constants.MinSpeed {
			p.Speed = constants.MinSpeed
		}
	case PenaltyStrength:
		p.Strength -= amount
		if p.Strength < constants.MinStrength {
			p.Strength = constants.MinStrength
		}
	}
}

// PenaltyChoice names the stat a round winner poisons on the loser.
type PenaltyChoice string

const (
	PenaltySpeed    PenaltyChoice = "speed"
	PenaltyStrength PenaltyChoice = "strength"
)

// TargetList is the ordered set of objectives both players chase in a round.
type TargetList []int

// Validate rejects empty lists and objectives outside the counter range.
func (t TargetList) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTargetList
	}
	for i, v := range t {
		if v < 0 || v > constants.CounterMax {
			return fmt.Errorf("%w: objective %d has value %d", ErrTargetOutOfRange, i, v)
		}
	}
	return nil
}

// Attempt records one counter freeze against a single objective.
type Attempt struct {
	Target int
	Value  int
	Miss   int
	// Forced marks a freeze taken at the last observed value because the
	// stop-signal source went away mid-attempt.
	Forced bool
	Delta  int
	// Raw is the exact rational score: (base + strength) / (miss + 1).
	Raw *big.Rat
}

// TurnResult aggregates one player's attempts over a round's objectives.
type TurnResult struct {
	Player   string
	Attempts []Attempt
	// Score is the ceiling of the mean of the attempts' raw scores.
	Score int
}

// RoundOutcome describes a fully resolved round.
type RoundOutcome struct {
	Round  int
	First  TurnResult
	Second TurnResult
	Draw   bool
	Winner string
	Loser  string
	// Difference is the score gap applied to the loser's vitality.
	Difference int
	// Penalty is the stat the winner poisoned. Empty on a draw.
	Penalty PenaltyChoice
}

// Result is the terminal outcome of a match.
type Result struct {
	MatchID string
	Rounds  int
	// Winner is empty when Draw is set.
	Winner string
	Draw   bool
}
