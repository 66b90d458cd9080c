package question

import (
	"math/rand/v2"
	"sync"
)

// Shuffler is a seedable Fisher-Yates source shared by the providers.
type Shuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewShuffler returns a shuffler seeded from the runtime's random source.
func NewShuffler() *Shuffler {
	return &Shuffler{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededShuffler returns a deterministic shuffler.
func NewSeededShuffler(seed uint64) *Shuffler {
	return &Shuffler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a value in [0, n).
func (s *Shuffler) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Shuffle returns a shuffled copy of items; the input is left untouched.
func Shuffle[T any](s *Shuffler, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(out) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
