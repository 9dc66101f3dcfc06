package engine

import (
	"math/rand"
	"sync"
)

// Dice is the source of randomness for break outcomes. It is injectable so
// tests can script the exact sequence of draws.
type Dice interface {
	// Roll returns a uniform integer in [1, n].
	Roll(n int) int
}

// seededDice wraps math/rand behind a mutex; rand.Rand is not safe for
// concurrent use and breaks may roll from many goroutines.
type seededDice struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededDice creates a Dice backed by a seeded generator.
func NewSeededDice(seed int64) Dice {
	return &seededDice{rng: rand.New(rand.NewSource(seed))}
}

func (d *seededDice) Roll(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Intn(n) + 1
}
