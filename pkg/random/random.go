// Package random provides the random number source used by the RND
// instruction.
package random

import (
	"math/rand"
	"time"
)

// Random is a random number generator. Instances created with the same seed
// produce the same sequence, which keeps test runs reproducible.
type Random struct {
	rnd *rand.Rand
}

// NewRandom is the preferred method of initialisation for the Random type. It
// is seeded from the current time.
func NewRandom() *Random {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded creates a generator with a fixed seed.
func NewSeeded(seed int64) *Random {
	return &Random{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

func (r *Random) Intn(n int) int {
	return r.rnd.Intn(n)
}
