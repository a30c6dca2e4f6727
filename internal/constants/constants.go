package constants

// Centralized gameplay tunables shared across packages.
const (
	// CounterMax is the highest value a counter reaches before wrapping
	// back to zero. The playable range is [0, CounterMax].
	CounterMax = 100

	// PenaltyAmount is subtracted from the loser's chosen stat after every
	// non-draw round.
	PenaltyAmount = 5

	// MinSpeed is the floor for the speed stat in milliseconds per tick.
	// Penalties never push speed below this value.
	MinSpeed = 1

	// MinStrength is the floor for the strength stat.
	MinStrength = 0
)

// Base scores per precision bucket and the bucket upper bounds (inclusive,
// measured as the distance between the frozen value and the objective).
const (
	ScoreExact  = 100
	ScoreClose  = 80
	ScoreNear   = 60
	ScoreMid    = 40
	ScoreFar    = 20
	ScoreMissed = 0

	BucketCloseMax = 5
	BucketNearMax  = 10
	BucketMidMax   = 20
	BucketFarMax   = 50
)

// Logging field names
const (
	LogFieldMatchID    = "match_id"
	LogFieldRound      = "round"
	LogFieldPlayer     = "player"
	LogFieldTarget     = "target"
	LogFieldValue      = "value"
	LogFieldMiss       = "miss"
	LogFieldScore      = "score"
	LogFieldWinner     = "winner"
	LogFieldLoser      = "loser"
	LogFieldPenalty    = "penalty"
	LogFieldDifference = "difference"
	LogFieldVitality   = "vitality"
	LogFieldSeed       = "seed"
)
