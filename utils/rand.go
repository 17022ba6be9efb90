package utils

import (
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

// Rand is the randomness used for tie-breaks and playouts.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a deterministic source. It is not safe for concurrent use.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewSource(seed))
}

type fastRand struct{}

func (fastRand) Intn(n int) int                     { return frand.Intn(n) }
func (fastRand) Shuffle(n int, swap func(i, j int)) { frand.Shuffle(n, swap) }

// DefaultRand returns an unseeded source that is safe for concurrent use.
func DefaultRand() Rand {
	return fastRand{}
}
