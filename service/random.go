package service

import (
	"math/rand/v2"

	"luckydraw/models"
)

type globalRandom struct{}

// NewRandomSource returns a RandomSource backed by the runtime's shared generator
func NewRandomSource() RandomSource {
	return globalRandom{}
}

func (globalRandom) IntN(n int) int {
	return rand.IntN(n)
}

// SeededRandom is a deterministic RandomSource for simulations and tests
type SeededRandom struct {
	r *rand.Rand
}

// NewSeededRandom creates a RandomSource with a fixed PCG seed
func NewSeededRandom(seed1, seed2 uint64) *SeededRandom {
	return &SeededRandom{r: rand.New(rand.NewPCG(seed1, seed2))}
}

func (s *SeededRandom) IntN(n int) int {
	return s.r.IntN(n)
}

// PickTicket selects one entry of the pool with equal probability per ticket.
// The pool must not be empty.
func PickTicket(pool []*models.TicketEntry, rng RandomSource) *models.TicketEntry {
	return pool[rng.IntN(len(pool))]
}
