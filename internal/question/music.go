package question

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-night/internal/history"
	"github.com/gokatarajesh/trivia-night/internal/question/datasets"
	"github.com/gokatarajesh/trivia-night/internal/question/external"
)

const (
	variantSoundtrack = "soundtrack"
	musicBucket       = "music"
	musicSearchLimit  = 25
	musicTimerSeconds = 30
)

// ITunesSource is satisfied by *external.ITunesClient.
type ITunesSource interface {
	Search(ctx context.Context, term, attribute string, limit int) ([]external.ITunesTrack, error)
	Lookup(ctx context.Context, id int64) ([]external.ITunesTrack, error)
}

// MusicProvider builds "listen and guess" questions from song previews.
type MusicProvider struct {
	itunes   ITunesSource
	history  history.Store
	shuffler *Shuffler
	lists    map[string][]datasets.MusicEntry
	themes   []datasets.MovieTheme
	logger   zerolog.Logger
}

var _ Provider = (*MusicProvider)(nil)

func NewMusicProvider(itunes ITunesSource, store history.Store, shuffler *Shuffler, lists map[string][]datasets.MusicEntry, themes []datasets.MovieTheme, logger zerolog.Logger) *MusicProvider {
	return &MusicProvider{
		itunes:   itunes,
		history:  store,
		shuffler: shuffler,
		lists:    lists,
		themes:   themes,
		logger:   logger.With().Str("provider", "music").Logger(),
	}
}

// SlotPlan is flat: any track can land on any value.
func (p *MusicProvider) SlotPlan(Category) SlotPlan {
	return FlatPlan(musicBucket, SlotCount)
}

type musicCandidate struct {
	entry datasets.MusicEntry
	title string // soundtrack: the movie name shown on reveal
}

func (p *MusicProvider) FetchCandidates(ctx context.Context, cat Category) ([]Question, error) {
	soundtrack := cat.Variant == variantSoundtrack
	var entries []musicCandidate
	if soundtrack {
		for _, t := range p.themes {
			entries = append(entries, musicCandidate{entry: datasets.MusicEntry{Query: t.Query}, title: t.Title})
		}
	} else {
		for _, e := range p.lists[cat.ID] {
			entries = append(entries, musicCandidate{entry: e, title: e.Title})
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("music category %s has no curated entries", cat.ID)
	}

	played := p.history.Played(ctx)
	seen := make(map[int64]bool)
	var (
		picked   []Question
		fallback []Question
		failures int
	)

	for _, c := range Shuffle(p.shuffler, entries) {
		if len(picked) == SlotCount {
			break
		}
		tracks, err := p.resolve(ctx, c.entry)
		if err != nil {
			failures++
			p.logger.Debug().Err(err).Str("category", cat.ID).Msg("music lookup failed")
			continue
		}
		tracks = filterTracks(tracks, c.entry, cat.Decade)
		if len(tracks) == 0 {
			continue
		}

		var reuse *external.ITunesTrack
		for _, t := range Shuffle(p.shuffler, tracks) {
			key := musicKey(t.TrackID)
			if seen[t.TrackID] {
				continue
			}
			if played.Has(key) {
				if reuse == nil {
					reuse = &t
				}
				continue
			}
			seen[t.TrackID] = true
			picked = append(picked, p.toQuestion(cat, t, c.title, soundtrack))
			reuse = nil
			break
		}
		if reuse != nil {
			fallback = append(fallback, p.toQuestion(cat, *reuse, c.title, soundtrack))
		}
	}

	if len(picked) == 0 && len(fallback) == 0 && failures > 0 {
		return nil, errors.New("every music lookup failed")
	}

	used := make(map[string]bool, len(picked))
	for _, q := range picked {
		used[q.HistoryKey] = true
	}
	for i := 0; len(picked) < SlotCount && i < len(fallback); i++ {
		q := fallback[i]
		if used[q.HistoryKey] {
			continue
		}
		used[q.HistoryKey] = true
		q.ID = "music-" + uuid.NewString()
		picked = append(picked, q)
		degradedBackfills.WithLabelValues(KindMusic.String()).Inc()
		p.logger.Warn().
			Str("category", cat.ID).
			Str("history_key", q.HistoryKey).
			Msg("degraded: backfilling with a previously played track")
	}
	return picked, nil
}

func (p *MusicProvider) resolve(ctx context.Context, e datasets.MusicEntry) ([]external.ITunesTrack, error) {
	switch {
	case e.ID != 0:
		return p.itunes.Lookup(ctx, e.ID)
	case e.Query != "":
		return p.itunes.Search(ctx, e.Query, "", musicSearchLimit)
	default:
		return p.itunes.Search(ctx, e.Artist, "artistTerm", musicSearchLimit)
	}
}

func (p *MusicProvider) toQuestion(cat Category, t external.ITunesTrack, title string, soundtrack bool) Question {
	reveal := &AnswerReveal{Title: t.TrackName, Artist: t.ArtistName}
	if title != "" {
		reveal.Title = title
	}
	if year := t.ReleaseYear(); year > 0 {
		reveal.Year = strconv.Itoa(year)
	}
	prompt := "Listen & Guess!"
	if soundtrack {
		// The artist would give the movie away.
		reveal.Artist = ""
		prompt = "Name the movie!"
	}
	key := musicKey(t.TrackID)
	return Question{
		ID:            key,
		Category:      cat.Name,
		Type:          TypeMusic,
		Difficulty:    DifficultyHonorSystem,
		MediaType:     MediaAudio,
		Prompt:        prompt,
		AudioURL:      t.PreviewURL,
		TimerDuration: musicTimerSeconds,
		AnswerReveal:  reveal,
		StrictScoring: soundtrack,
		HistoryKey:    key,
		Bucket:        musicBucket,
	}
}

func musicKey(trackID int64) string {
	return "music-" + strconv.FormatInt(trackID, 10)
}

// filterTracks keeps playable songs. Artist searches are strict: the artist field must
// contain the search term and tribute, cover and karaoke releases are rejected.
func filterTracks(tracks []external.ITunesTrack, e datasets.MusicEntry, decade int) []external.ITunesTrack {
	out := tracks[:0:0]
	for _, t := range tracks {
		if t.PreviewURL == "" || t.TrackID == 0 {
			continue
		}
		if t.Kind != "" && t.Kind != "song" {
			continue
		}
		if decade > 0 {
			year := t.ReleaseYear()
			if year < decade || year > decade+9 {
				continue
			}
		}
		if e.Artist != "" {
			if !strings.Contains(strings.ToLower(t.ArtistName), strings.ToLower(e.Artist)) {
				continue
			}
			if isKnockoff(t) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

var knockoffWords = map[string]bool{
	"tribute": true,
	"cover":   true,
	"covers":  true,
	"covered": true,
	"karaoke": true,
}

func isKnockoff(t external.ITunesTrack) bool {
	text := strings.ToLower(t.TrackName + " " + t.CollectionName + " " + t.ArtistName)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if knockoffWords[w] {
			return true
		}
	}
	return false
}
