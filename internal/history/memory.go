package history

import (
	"context"
	"sync"
)

// MemoryStore keeps history in process memory. Used in tests and when no backend is configured.
type MemoryStore struct {
	mu  sync.RWMutex
	set Set
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ids ...string) *MemoryStore {
	s := &MemoryStore{set: make(Set, len(ids))}
	for _, id := range ids {
		s.set[id] = struct{}{}
	}
	return s
}

func (s *MemoryStore) Played(_ context.Context) Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Set, len(s.set))
	for id := range s.set {
		out[id] = struct{}{}
	}
	return out
}

func (s *MemoryStore) IsPlayed(_ context.Context, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.Has(id)
}

func (s *MemoryStore) MarkPlayed(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set[id] = struct{}{}
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = make(Set)
	return nil
}

// Len is handy for tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.set)
}
