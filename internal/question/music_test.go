package question

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-night/internal/history"
	"github.com/gokatarajesh/trivia-night/internal/question/datasets"
	"github.com/gokatarajesh/trivia-night/internal/question/external"
)

type fakeITunes struct {
	search map[string][]external.ITunesTrack
	lookup map[int64][]external.ITunesTrack
	fail   map[string]bool
	calls  []string
}

func (f *fakeITunes) Search(_ context.Context, term, attribute string, _ int) ([]external.ITunesTrack, error) {
	f.calls = append(f.calls, attribute+":"+term)
	if f.fail[term] {
		return nil, errors.New("itunes down")
	}
	return f.search[term], nil
}

func (f *fakeITunes) Lookup(_ context.Context, id int64) ([]external.ITunesTrack, error) {
	f.calls = append(f.calls, fmt.Sprintf("id:%d", id))
	return f.lookup[id], nil
}

func track(id int64, artist, name, date string) external.ITunesTrack {
	return external.ITunesTrack{
		Kind:        "song",
		TrackID:     id,
		ArtistName:  artist,
		TrackName:   name,
		PreviewURL:  fmt.Sprintf("https://audio.example/%d.m4a", id),
		ReleaseDate: date,
	}
}

func artistCatalog(n int) (map[string][]external.ITunesTrack, []datasets.MusicEntry) {
	search := map[string][]external.ITunesTrack{}
	var entries []datasets.MusicEntry
	for i := 1; i <= n; i++ {
		artist := fmt.Sprintf("Artist %d", i)
		search[artist] = []external.ITunesTrack{track(int64(i*100), artist, "Hit", "1985-06-01T07:00:00Z")}
		entries = append(entries, datasets.MusicEntry{Artist: artist})
	}
	return search, entries
}

var eighties = Category{ID: "music_80s", Name: "80s Hits", Kind: KindMusic, Decade: 1980}

func TestMusicProviderPicksOneTrackPerEntry(t *testing.T) {
	search, entries := artistCatalog(6)
	itunes := &fakeITunes{search: search}
	p := NewMusicProvider(itunes, history.NewMemoryStore(), testShuffler(), map[string][]datasets.MusicEntry{"music_80s": entries}, nil, testLogger)

	got, err := p.FetchCandidates(context.Background(), eighties)
	require.NoError(t, err)
	require.Len(t, got, SlotCount)
	assert.Len(t, itunes.calls, SlotCount, "stops once five tracks are found")

	seen := map[string]bool{}
	for _, q := range got {
		assert.Equal(t, TypeMusic, q.Type)
		assert.Equal(t, MediaAudio, q.MediaType)
		assert.Equal(t, musicBucket, q.Bucket)
		assert.Equal(t, q.HistoryKey, q.ID)
		assert.True(t, strings.HasPrefix(q.HistoryKey, "music-"))
		assert.NotEmpty(t, q.AudioURL)
		require.NotNil(t, q.AnswerReveal)
		assert.Equal(t, "1985", q.AnswerReveal.Year)
		assert.False(t, q.StrictScoring)
		assert.False(t, seen[q.HistoryKey])
		seen[q.HistoryKey] = true
	}
	for _, c := range itunes.calls {
		assert.True(t, strings.HasPrefix(c, "artistTerm:"))
	}
}

func TestFilterTracks(t *testing.T) {
	tracks := []external.ITunesTrack{
		track(1, "Queen", "Radio Ga Ga", "1984-01-23T08:00:00Z"),
		track(2, "The Queen Tribute Band", "Radio Ga Ga", "1986-01-01T08:00:00Z"),
		track(3, "Queen", "Bohemian Rhapsody (Karaoke Version)", "1985-01-01T08:00:00Z"),
		track(4, "Queen", "Made in Heaven", "1995-11-06T08:00:00Z"),
		track(5, "Freddie Mercury", "Barcelona", "1987-01-01T08:00:00Z"),
		{Kind: "song", TrackID: 6, ArtistName: "Queen", TrackName: "No Preview", ReleaseDate: "1982-01-01T08:00:00Z"},
		{Kind: "music-video", TrackID: 7, ArtistName: "Queen", TrackName: "Video", PreviewURL: "https://x/7", ReleaseDate: "1984-01-01T08:00:00Z"},
	}
	tracks[2].CollectionName = "Covers of the 80s"

	got := filterTracks(tracks, datasets.MusicEntry{Artist: "queen"}, 1980)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].TrackID)

	// Exact queries skip the artist checks but keep the decade window.
	got = filterTracks(tracks, datasets.MusicEntry{Query: "Barcelona"}, 1980)
	var ids []int64
	for _, tr := range got {
		ids = append(ids, tr.TrackID)
	}
	assert.Equal(t, []int64{1, 2, 3, 5}, ids)
}

func TestIsKnockoffMatchesWholeWords(t *testing.T) {
	assert.False(t, isKnockoff(external.ITunesTrack{ArtistName: "Daft Punk", CollectionName: "Discovery"}))
	assert.True(t, isKnockoff(external.ITunesTrack{ArtistName: "Various", TrackName: "Take On Me (Cover)"}))
}

func TestMusicProviderBackfillsWithPlayedTracks(t *testing.T) {
	search, entries := artistCatalog(5)
	// Tracks of artists 1..3 were played in an earlier game.
	store := history.NewMemoryStore("music-100", "music-200", "music-300")
	p := NewMusicProvider(&fakeITunes{search: search}, store, testShuffler(), map[string][]datasets.MusicEntry{"music_80s": entries}, nil, testLogger)

	got, err := p.FetchCandidates(context.Background(), eighties)
	require.NoError(t, err)
	require.Len(t, got, SlotCount)

	fresh, degraded := 0, 0
	for i, q := range got {
		if q.ID == q.HistoryKey {
			fresh++
			assert.Less(t, i, 2, "fresh picks come before backfill")
			continue
		}
		degraded++
		assert.Regexp(t, `^music-[0-9a-f-]{36}$`, q.ID)
		assert.Contains(t, []string{"music-100", "music-200", "music-300"}, q.HistoryKey)
	}
	assert.Equal(t, 2, fresh)
	assert.Equal(t, 3, degraded)
}

func TestMusicProviderNeverRepeatsATrackWithinAColumn(t *testing.T) {
	shared := track(1, "Europe", "The Final Countdown", "1986-02-14T08:00:00Z")
	played := track(9, "a-ha", "Take On Me", "1985-04-01T08:00:00Z")
	search := map[string][]external.ITunesTrack{
		"countdown":  {shared},
		"final":      {shared},
		"europe 86":  {shared},
		"take on me": {played},
		"a-ha 85":    {played},
	}
	var entries []datasets.MusicEntry
	for q := range search {
		entries = append(entries, datasets.MusicEntry{Query: q})
	}
	store := history.NewMemoryStore(musicKey(played.TrackID))
	p := NewMusicProvider(&fakeITunes{search: search}, store, testShuffler(), map[string][]datasets.MusicEntry{"music_80s": entries}, nil, testLogger)

	got, err := p.FetchCandidates(context.Background(), eighties)
	require.NoError(t, err)
	require.Len(t, got, 2, "one fresh pick plus one backfill")

	urls := map[string]bool{}
	for _, q := range got {
		assert.False(t, urls[q.AudioURL], "duplicate preview %s", q.AudioURL)
		urls[q.AudioURL] = true
	}
	assert.True(t, urls[shared.PreviewURL])
	assert.True(t, urls[played.PreviewURL])
}

func TestMusicProviderToleratesSingleLookupFailures(t *testing.T) {
	search, entries := artistCatalog(7)
	itunes := &fakeITunes{search: search, fail: map[string]bool{"Artist 1": true, "Artist 2": true}}
	p := NewMusicProvider(itunes, history.NewMemoryStore(), testShuffler(), map[string][]datasets.MusicEntry{"music_80s": entries}, nil, testLogger)

	got, err := p.FetchCandidates(context.Background(), eighties)
	require.NoError(t, err)
	assert.Len(t, got, SlotCount)
}

func TestMusicProviderAllLookupsFail(t *testing.T) {
	search, entries := artistCatalog(3)
	fail := map[string]bool{"Artist 1": true, "Artist 2": true, "Artist 3": true}
	p := NewMusicProvider(&fakeITunes{search: search, fail: fail}, history.NewMemoryStore(), testShuffler(), map[string][]datasets.MusicEntry{"music_80s": entries}, nil, testLogger)

	_, err := p.FetchCandidates(context.Background(), eighties)
	assert.Error(t, err)
}

func TestMusicProviderSoundtrackHidesArtist(t *testing.T) {
	themes := []datasets.MovieTheme{}
	search := map[string][]external.ITunesTrack{}
	for i := 1; i <= 5; i++ {
		q := fmt.Sprintf("Composer %d Theme", i)
		themes = append(themes, datasets.MovieTheme{Title: fmt.Sprintf("Movie %d", i), Query: q})
		search[q] = []external.ITunesTrack{track(int64(i), fmt.Sprintf("Composer %d", i), "Main Title", "1977-05-25T07:00:00Z")}
	}
	cat := Category{ID: "music_movies", Name: "Movie Themes", Kind: KindMusic, Variant: "soundtrack"}
	itunes := &fakeITunes{search: search}
	p := NewMusicProvider(itunes, history.NewMemoryStore(), testShuffler(), nil, themes, testLogger)

	got, err := p.FetchCandidates(context.Background(), cat)
	require.NoError(t, err)
	require.Len(t, got, SlotCount)
	for _, q := range got {
		assert.True(t, q.StrictScoring)
		assert.Empty(t, q.AnswerReveal.Artist)
		assert.True(t, strings.HasPrefix(q.AnswerReveal.Title, "Movie "))
	}
	for _, c := range itunes.calls {
		assert.True(t, strings.HasPrefix(c, ":"), "theme queries are exact searches")
	}
}

func TestMusicProviderLookupEntries(t *testing.T) {
	lookup := map[int64][]external.ITunesTrack{}
	var entries []datasets.MusicEntry
	for i := int64(1); i <= 5; i++ {
		lookup[i] = []external.ITunesTrack{track(i, "Someone", "Original Name", "2003-01-01T08:00:00Z")}
		entries = append(entries, datasets.MusicEntry{ID: i, Title: fmt.Sprintf("Curated %d", i)})
	}
	cat := Category{ID: "music_2000s", Name: "2000s", Kind: KindMusic, Decade: 2000}
	p := NewMusicProvider(&fakeITunes{lookup: lookup}, history.NewMemoryStore(), testShuffler(), map[string][]datasets.MusicEntry{"music_2000s": entries}, nil, testLogger)

	got, err := p.FetchCandidates(context.Background(), cat)
	require.NoError(t, err)
	require.Len(t, got, SlotCount)
	for _, q := range got {
		assert.True(t, strings.HasPrefix(q.AnswerReveal.Title, "Curated "))
		assert.Equal(t, "Someone", q.AnswerReveal.Artist)
	}
}

func TestMusicProviderWithoutEntries(t *testing.T) {
	p := NewMusicProvider(&fakeITunes{}, history.NewMemoryStore(), testShuffler(), nil, nil, testLogger)
	_, err := p.FetchCandidates(context.Background(), eighties)
	assert.Error(t, err)
}
