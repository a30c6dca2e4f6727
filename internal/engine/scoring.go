package engine

import (
	"math/big"

	"github.com/ericogr/tickduel/internal/constants"
)

// Delta is the absolute distance between a frozen counter value and the
// objective.
func Delta(value, target int) int {
	d := value - target
	if d < 0 {
		d = -d
	}
	return d
}

// BaseScore maps a delta to its precision bucket.
func BaseScore(delta int) int {
	switch {
	case delta == 0:
		return constants.ScoreExact
	case delta <= constants.BucketCloseMax:
		return constants.ScoreClose
	case delta <= constants.BucketNearMax:
		return constants.ScoreNear
	case delta <= constants.BucketMidMax:
		return constants.ScoreMid
	case delta <= constants.BucketFarMax:
		return constants.ScoreFar
	default:
		return constants.ScoreMissed
	}
}

// RawScore computes the exact rational score for one attempt:
// (base + strength) / (miss + 1). No intermediate truncation happens; two
// attempts whose real values differ always produce different raw scores.
func RawScore(delta, miss, strength int) *big.Rat {
	return big.NewRat(int64(BaseScore(delta)+strength), int64(miss+1))
}

// TurnScore collapses a turn's raw scores into its final integer score: the
// ceiling of their mean. Returns 0 for an empty slice.
func TurnScore(raws []*big.Rat) int {
	if len(raws) == 0 {
		return 0
	}
	sum := new(big.Rat)
	for _, r := range raws {
		sum.Add(sum, r)
	}
	mean := sum.Quo(sum, big.NewRat(int64(len(raws)), 1))
	return int(ceilRat(mean))
}

// ceilRat returns the smallest integer greater than or equal to r.
func ceilRat(r *big.Rat) int64 {
	q, rem := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if rem.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Int64()
}
