package datasets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDatasets(t *testing.T) {
	b, err := Load()
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, c := range b.Categories {
		assert.False(t, ids[c.ID], "duplicate category id %s", c.ID)
		ids[c.ID] = true
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Emoji)
	}
	for _, id := range []string{"music_80s", "music_movies", "geo_flags", "geo_capitals", "mov_posters", "football_career"} {
		assert.True(t, ids[id], "missing %s", id)
	}

	assert.NotEmpty(t, b.Music["music_80s"])
	assert.GreaterOrEqual(t, len(b.MovieThemes), 5)

	tiers := map[int]int{}
	for _, p := range b.Football {
		tiers[p.Tier]++
	}
	for tier := 1; tier <= 5; tier++ {
		assert.NotZero(t, tiers[tier], "tier %d empty", tier)
	}
}

func TestMusicEntryUnmarshal(t *testing.T) {
	var entries []MusicEntry
	raw := `["Queen", {"query": "Toto Africa"}, {"id": 42, "title": "Song"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))

	assert.Equal(t, MusicEntry{Artist: "Queen"}, entries[0])
	assert.Equal(t, MusicEntry{Query: "Toto Africa"}, entries[1])
	assert.Equal(t, MusicEntry{ID: 42, Title: "Song"}, entries[2])

	assert.Error(t, json.Unmarshal([]byte(`[{"title": "x"}]`), &entries))
	assert.Error(t, json.Unmarshal([]byte(`[""]`), &entries))
}
