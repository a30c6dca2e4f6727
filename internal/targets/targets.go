// Package targets draws the objective lists players chase each round.
//
// Generation is deterministic with respect to the seed, so a sequence can be
// reproduced by fixing it. NewSeed provides a high-entropy default.
package targets

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/ericogr/tickduel/internal/constants"
	"github.com/ericogr/tickduel/internal/game"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Generator produces objective lists from a seeded source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator over the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Draw produces count objectives, each in [0, CounterMax].
func (g *Generator) Draw(count int) (game.TargetList, error) {
	if count <= 0 {
		return nil, game.ErrEmptyTargetList
	}
	list := make(game.TargetList, count)
	for i := range list {
		list[i] = g.rng.Intn(constants.CounterMax + 1)
	}
	return list, nil
}
