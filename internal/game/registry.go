package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Registry keeps the live sessions of this process, keyed by UUID.
type Registry struct {
	logger   zerolog.Logger
	opts     Options
	onChange func(Snapshot)

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates a registry. onChange, if set, receives every session's snapshots.
func NewRegistry(opts Options, onChange func(Snapshot), logger zerolog.Logger) *Registry {
	return &Registry{
		logger:   logger.With().Str("component", "sessions").Logger(),
		opts:     opts,
		onChange: onChange,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session in SETUP.
func (r *Registry) Create(_ context.Context) *Session {
	id := uuid.NewString()
	opts := r.opts
	opts.OnChange = r.onChange
	s := NewSession(id, opts)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Info().Str("session_id", id).Msg("session created")
	return s
}

// Get returns a session by id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session and stops its timers.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Restart()
	}
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Prune removes sessions idle for longer than maxIdle and returns how many went.
func (r *Registry) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	var stale []string
	r.mu.RLock()
	for id, s := range r.sessions {
		if s.UpdatedAt().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range stale {
		r.Remove(id)
	}
	if len(stale) > 0 {
		r.logger.Info().Int("pruned", len(stale)).Msg("idle sessions removed")
	}
	return len(stale)
}
