package question

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/gokatarajesh/trivia-night/internal/history"
)

// Provider turns one upstream source into normalised, unslotted candidates.
//
// Candidates carry a Bucket matching the provider's SlotPlan and a HistoryKey. Within a
// bucket, unplayed candidates come first so the slot filler prefers fresh material and
// only backfills with replays when it must.
type Provider interface {
	FetchCandidates(ctx context.Context, cat Category) ([]Question, error)
	SlotPlan(cat Category) SlotPlan
}

// Enricher optionally decorates the five selected questions, e.g. with extra media.
// It must not drop or reorder questions.
type Enricher interface {
	Enrich(ctx context.Context, cat Category, selected []Question) []Question
}

// freshFirst stably moves unplayed candidates ahead of replays.
func freshFirst(candidates []Question, played history.Set) []Question {
	out := make([]Question, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return !played.Has(out[i].HistoryKey) && played.Has(out[j].HistoryKey)
	})
	return out
}

// countFresh counts candidates whose history key is unplayed.
func countFresh(candidates []Question, played history.Set) int {
	n := 0
	for i := range candidates {
		if !played.Has(candidates[i].HistoryKey) {
			n++
		}
	}
	return n
}

// preferFresh keeps only unplayed candidates when at least min of them exist, otherwise
// it falls back to the whole pool with fresh items first.
func preferFresh(candidates []Question, played history.Set, min int) []Question {
	if countFresh(candidates, played) < min {
		return freshFirst(candidates, played)
	}
	out := make([]Question, 0, len(candidates))
	for _, c := range candidates {
		if !played.Has(c.HistoryKey) {
			out = append(out, c)
		}
	}
	return out
}

// groupByBucket splits candidates by Bucket, preserving order.
func groupByBucket(candidates []Question) map[string][]Question {
	buckets := make(map[string][]Question)
	for _, c := range candidates {
		buckets[c.Bucket] = append(buckets[c.Bucket], c)
	}
	return buckets
}

// shortHash is a stable, short identifier for free text.
func shortHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:12]
}
