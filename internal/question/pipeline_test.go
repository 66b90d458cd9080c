package question

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-night/internal/history"
)

type recordingAssembler struct {
	columns map[string]*Column
	order   []string
	at      []time.Time
}

func (r *recordingAssembler) AssembleColumn(_ context.Context, cat Category) *Column {
	r.order = append(r.order, cat.ID)
	r.at = append(r.at, time.Now())
	col, ok := r.columns[cat.ID]
	if !ok {
		return nil
	}
	cp := *col
	cp.Questions = append([]Question(nil), col.Questions...)
	return &cp
}

func fourCategories() []Category {
	return []Category{
		{ID: "otdb_general", Name: "General", Kind: KindGeneric},
		{ID: "music_80s", Name: "80s Hits", Kind: KindMusic},
		{ID: "geo_flags", Name: "Flags", Kind: KindGeography},
		{ID: "football_career", Name: "Career Path", Kind: KindFootballCareer},
	}
}

func TestFetchGameDataEndToEnd(t *testing.T) {
	store := history.NewMemoryStore()
	stub := func(prefix string) Provider {
		return &stubProvider{candidates: mcCandidates(testShuffler(), prefix, "flat", SlotCount)}
	}
	assembler := NewAssembler(store, map[CategoryKind]Provider{
		KindGeneric:        stub("otdb-x"),
		KindMusic:          stub("music"),
		KindGeography:      stub("geo"),
		KindFootballCareer: stub("football"),
	}, testLogger)
	p := NewPipeline(assembler, store, 0, testLogger)

	columns := p.FetchGameData(context.Background(), fourCategories())
	require.Len(t, columns, 4)

	titles := map[string]bool{}
	ids := map[string]bool{}
	for i, col := range columns {
		assert.Equal(t, fourCategories()[i].Name, col.Title)
		assert.False(t, titles[col.Title])
		titles[col.Title] = true

		require.Len(t, col.Questions, SlotCount)
		values := map[int]bool{}
		for _, q := range col.Questions {
			values[q.PointValue] = true
			assert.False(t, q.IsAnswered)
			assert.False(t, ids[q.ID], "question ids are unique per game")
			ids[q.ID] = true
		}
		assert.Equal(t, map[int]bool{200: true, 400: true, 600: true, 800: true, 1000: true}, values)
	}
	assert.Equal(t, 20, store.Len())
}

func TestFetchGameDataKeepsSelectionOrderAndSkipsFailures(t *testing.T) {
	col := func(title string) *Column {
		return &Column{Title: title, Questions: mcCandidates(testShuffler(), title, "flat", SlotCount)}
	}
	rec := &recordingAssembler{columns: map[string]*Column{
		"otdb_general":    col("General"),
		"geo_flags":       col("Flags"),
		"football_career": col("Career Path"),
	}}
	p := NewPipeline(rec, history.NewMemoryStore(), 20*time.Millisecond, testLogger)

	columns := p.FetchGameData(context.Background(), fourCategories())
	require.Len(t, columns, 3)
	assert.Equal(t, []string{"General", "Flags", "Career Path"}, []string{columns[0].Title, columns[1].Title, columns[2].Title})
	assert.Equal(t, []string{"otdb_general", "music_80s", "geo_flags", "football_career"}, rec.order, "one category at a time, in order")

	for i := 1; i < len(rec.at); i++ {
		assert.GreaterOrEqual(t, rec.at[i].Sub(rec.at[i-1]), 20*time.Millisecond, "paced even after a failed category")
	}
}

func TestFetchGameDataAllFail(t *testing.T) {
	p := NewPipeline(&recordingAssembler{}, history.NewMemoryStore(), 0, testLogger)
	assert.Empty(t, p.FetchGameData(context.Background(), fourCategories()))
}

func TestFetchGameDataMakesIDsUnique(t *testing.T) {
	shared := mcCandidates(testShuffler(), "same", "flat", SlotCount)
	for i := range shared {
		shared[i].ID = shared[i].HistoryKey
	}
	rec := &recordingAssembler{columns: map[string]*Column{
		"otdb_general": {Title: "General", Questions: shared},
		"music_80s":    {Title: "80s Hits", Questions: shared},
	}}
	columns := NewPipeline(rec, history.NewMemoryStore(), 0, testLogger).FetchGameData(context.Background(), fourCategories()[:2])
	require.Len(t, columns, 2)

	assert.Equal(t, "same-0", columns[0].Questions[0].ID)
	assert.NotEqual(t, columns[0].Questions[0].ID, columns[1].Questions[0].ID)
	assert.Contains(t, columns[1].Questions[0].ID, "same-0-")
}

func TestResetPlayedTracks(t *testing.T) {
	store := history.NewMemoryStore("music-1", "geo-Peru")
	p := NewPipeline(&recordingAssembler{}, store, 0, testLogger)

	require.NoError(t, p.ResetPlayedTracks(context.Background()))
	assert.False(t, store.IsPlayed(context.Background(), "music-1"))
}
