// Package history keeps the replay-history: the persistent set of question, track and
// item identifiers that were already used, so later games prefer fresh material.
//
// Replay avoidance is best effort. Backends never fail a read: an unreadable or corrupt
// value is logged and treated as an empty history.
package history

import (
	"context"
	"encoding/json"
	"sort"
)

// DefaultKey is the well-known storage key the history set is persisted under.
const DefaultKey = "played_tracks"

// Store is the replay-history contract shared by all backends.
type Store interface {
	// Played returns a snapshot of every recorded identifier.
	Played(ctx context.Context) Set
	// IsPlayed reports whether id was recorded.
	IsPlayed(ctx context.Context, id string) bool
	// MarkPlayed records id. Recording an existing id is a no-op.
	MarkPlayed(ctx context.Context, id string) error
	// Reset clears the whole history.
	Reset(ctx context.Context) error
}

// Set is an immutable-by-convention snapshot of played identifiers.
type Set map[string]struct{}

// Has reports membership; a nil Set is empty.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members sorted, which keeps the persisted JSON stable.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func decodeSet(data []byte) (Set, error) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	set := make(Set, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func encodeSet(s Set) ([]byte, error) {
	return json.Marshal(s.IDs())
}
