package question

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-night/internal/history"
	"github.com/gokatarajesh/trivia-night/internal/question/datasets"
)

type fakeBadges struct {
	mu      sync.Mutex
	missing map[string]bool
	calls   int
}

func (f *fakeBadges) TeamBadge(_ context.Context, club string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.missing[club] {
		return "", errors.New("not found")
	}
	return "https://badges.example/" + club + ".png", nil
}

func careerPaths(perTier int) []datasets.CareerPath {
	var out []datasets.CareerPath
	for tier := 1; tier <= 5; tier++ {
		for i := 0; i < perTier; i++ {
			out = append(out, datasets.CareerPath{
				Player: fmt.Sprintf("Player %d-%d", tier, i),
				Clubs:  []string{fmt.Sprintf("Club %d", tier), "Shared FC"},
				Tier:   tier,
			})
		}
	}
	return out
}

var careerPath = Category{ID: "football_career", Name: "Career Path", Kind: KindFootballCareer}

func TestFootballProviderTiers(t *testing.T) {
	p := NewFootballProvider(careerPaths(2), nil, history.NewMemoryStore("football-Player 1-0"), testShuffler(), testLogger)

	got, err := p.FetchCandidates(context.Background(), careerPath)
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, "football-Player 1-0", got[len(got)-1].HistoryKey, "played paths sort last")

	col, ok := FillSlots(groupByBucket(got), p.SlotPlan(careerPath))
	require.True(t, ok)
	for i, q := range col {
		assert.Equal(t, tierBucket(i+1), q.Bucket)
		assert.Equal(t, TypeHonorSystem, q.Type)
		assert.Equal(t, MediaTextSequence, q.MediaType)
		assert.NotEmpty(t, q.ClubList)
		require.NotNil(t, q.AnswerReveal)
	}
	assert.Equal(t, "football-Player 1-1", col[0].HistoryKey, "unplayed path wins its tier")
}

func TestFootballProviderFallsBackAcrossTiers(t *testing.T) {
	paths := []datasets.CareerPath{
		{Player: "A", Clubs: []string{"X"}, Tier: 1},
		{Player: "B", Clubs: []string{"X"}, Tier: 1},
		{Player: "C", Clubs: []string{"X"}, Tier: 3},
		{Player: "D", Clubs: []string{"X"}, Tier: 3},
		{Player: "E", Clubs: []string{"X"}, Tier: 5},
	}
	p := NewFootballProvider(paths, nil, history.NewMemoryStore(), testShuffler(), testLogger)
	got, err := p.FetchCandidates(context.Background(), careerPath)
	require.NoError(t, err)

	col, ok := FillSlots(groupByBucket(got), p.SlotPlan(careerPath))
	require.True(t, ok)
	assert.Len(t, col, SlotCount)
}

func TestFootballEnrichResolvesBadges(t *testing.T) {
	badges := &fakeBadges{}
	p := NewFootballProvider(careerPaths(1), badges, history.NewMemoryStore(), testShuffler(), testLogger)
	got, err := p.FetchCandidates(context.Background(), careerPath)
	require.NoError(t, err)

	enriched := p.Enrich(context.Background(), careerPath, got)
	require.Len(t, enriched, 5)
	for _, q := range enriched {
		assert.Equal(t, MediaImageSequence, q.MediaType)
		require.Len(t, q.ImageURLs, len(q.ClubList))
		for i, club := range q.ClubList {
			assert.Equal(t, "https://badges.example/"+club+".png", q.ImageURLs[i])
		}
	}
	assert.Equal(t, 6, badges.calls, "shared clubs are looked up once")
}

func TestFootballEnrichKeepsTextWhenAClubIsMissing(t *testing.T) {
	badges := &fakeBadges{missing: map[string]bool{"Club 3": true}}
	p := NewFootballProvider(careerPaths(1), badges, history.NewMemoryStore(), testShuffler(), testLogger)
	got, err := p.FetchCandidates(context.Background(), careerPath)
	require.NoError(t, err)

	for _, q := range p.Enrich(context.Background(), careerPath, got) {
		if q.Bucket == tierBucket(3) {
			assert.Equal(t, MediaTextSequence, q.MediaType)
			assert.Empty(t, q.ImageURLs)
			continue
		}
		assert.Equal(t, MediaImageSequence, q.MediaType)
	}
}
