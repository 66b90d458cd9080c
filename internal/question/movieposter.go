package question

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-night/internal/history"
	"github.com/gokatarajesh/trivia-night/internal/question/external"
)

const (
	posterBucket      = "poster"
	posterMinVotes    = 1000
	posterPagePool    = 20
	posterYearSpread  = 5
	posterEarliest    = 1900
	posterDistractors = 3
)

// TMDBSource is satisfied by *external.TMDBClient.
type TMDBSource interface {
	Discover(ctx context.Context, page, minVotes int) ([]external.TMDBMovie, error)
	PosterURL(path string) string
}

// MoviePosterProvider asks for the release year of a well-known film shown by its poster.
type MoviePosterProvider struct {
	tmdb     TMDBSource
	history  history.Store
	shuffler *Shuffler
	pages    int
	now      func() time.Time
	logger   zerolog.Logger
}

var _ Provider = (*MoviePosterProvider)(nil)

func NewMoviePosterProvider(tmdb TMDBSource, store history.Store, shuffler *Shuffler, pages int, logger zerolog.Logger) *MoviePosterProvider {
	if pages < 1 {
		pages = 3
	}
	return &MoviePosterProvider{
		tmdb:     tmdb,
		history:  store,
		shuffler: shuffler,
		pages:    pages,
		now:      time.Now,
		logger:   logger.With().Str("provider", "movie_poster").Logger(),
	}
}

// SlotPlan is per item: the provider already orders its five picks from most to least famous.
func (p *MoviePosterProvider) SlotPlan(Category) SlotPlan {
	return FlatPlan(posterBucket, SlotCount)
}

func (p *MoviePosterProvider) FetchCandidates(ctx context.Context, cat Category) ([]Question, error) {
	pages := make([]int, posterPagePool)
	for i := range pages {
		pages[i] = i + 1
	}
	pages = Shuffle(p.shuffler, pages)[:min(p.pages, posterPagePool)]

	var (
		movies  []external.TMDBMovie
		lastErr error
	)
	seen := make(map[int64]bool)
	for _, page := range pages {
		batch, err := p.tmdb.Discover(ctx, page, posterMinVotes)
		if err != nil {
			lastErr = err
			p.logger.Debug().Err(err).Int("page", page).Msg("discover page failed")
			continue
		}
		for _, m := range batch {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			movies = append(movies, m)
		}
	}
	if len(movies) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, errors.New("tmdb returned no movies")
	}

	currentYear := p.now().Year()
	candidates := make([]Question, 0, len(movies))
	for _, m := range Shuffle(p.shuffler, movies) {
		year := releaseYear(m.ReleaseDate)
		if m.PosterPath == "" || year < posterEarliest || year > currentYear {
			continue
		}
		correct := strconv.Itoa(year)
		incorrect := yearDistractors(p.shuffler, year, currentYear)
		key := fmt.Sprintf("movie-%d", m.ID)
		candidates = append(candidates, Question{
			ID:               key,
			Category:         cat.Name,
			Type:             TypeMultiple,
			MediaType:        MediaImage,
			Prompt:           "In which year was this movie released?",
			CorrectAnswer:    correct,
			IncorrectAnswers: incorrect,
			AllAnswers:       ShuffledAnswers(p.shuffler, correct, incorrect),
			ImageURL:         p.tmdb.PosterURL(m.PosterPath),
			InfoText:         m.Title,
			HistoryKey:       key,
			Bucket:           posterBucket,
			Rank:             -m.VoteCount,
		})
	}

	played := p.history.Played(ctx)
	candidates = freshFirst(candidates, played)
	if len(candidates) > SlotCount {
		candidates = candidates[:SlotCount]
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Rank < candidates[j].Rank })
	for i := range candidates {
		candidates[i].Difficulty = tierDifficulty(i)
	}
	return candidates, nil
}

// yearDistractors picks distinct wrong years within ±5 of year, kept inside [1900, currentYear].
func yearDistractors(s *Shuffler, year, currentYear int) []string {
	var pool []int
	for y := year - posterYearSpread; y <= year+posterYearSpread; y++ {
		if y == year || y < posterEarliest || y > currentYear {
			continue
		}
		pool = append(pool, y)
	}
	pool = Shuffle(s, pool)
	if len(pool) > posterDistractors {
		pool = pool[:posterDistractors]
	}
	out := make([]string, len(pool))
	for i, y := range pool {
		out[i] = strconv.Itoa(y)
	}
	return out
}

func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}

// tierDifficulty labels slot i of the standard easy, easy, medium, medium, hard ladder.
func tierDifficulty(i int) string {
	switch {
	case i < 2:
		return DifficultyEasy
	case i < 4:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}
