package question

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-night/internal/history"
	"github.com/gokatarajesh/trivia-night/internal/question/external"
	"github.com/gokatarajesh/trivia-night/internal/retry"
)

const (
	sourceOpenTDB   = "opentdb"
	sourceTriviaAPI = "triviaapi"

	// promptHashPrefix is how much of a prompt feeds its replay identifier.
	promptHashPrefix = 60
)

// OpenTDBSource is satisfied by *external.OpenTDBClient.
type OpenTDBSource interface {
	Fetch(ctx context.Context, amount int, category string) ([]external.OpenTDBQuestion, error)
}

// TriviaAPISource is satisfied by *external.TriviaAPIClient.
type TriviaAPISource interface {
	Fetch(ctx context.Context, limit int, category string) ([]external.TriviaAPIQuestion, error)
}

// GenericConfig tunes the generic trivia provider.
type GenericConfig struct {
	Batch            int
	RateLimitRetries int
	RateLimitBackoff time.Duration
}

// GenericProvider serves multiple-choice trivia from OpenTDB or The Trivia API.
type GenericProvider struct {
	opentdb   OpenTDBSource
	triviaAPI TriviaAPISource
	history   history.Store
	shuffler  *Shuffler
	cfg       GenericConfig
	logger    zerolog.Logger
}

var _ Provider = (*GenericProvider)(nil)

func NewGenericProvider(opentdb OpenTDBSource, triviaAPI TriviaAPISource, store history.Store, shuffler *Shuffler, cfg GenericConfig, logger zerolog.Logger) *GenericProvider {
	if cfg.Batch < SlotCount {
		cfg.Batch = 20
	}
	if cfg.RateLimitRetries < 1 {
		cfg.RateLimitRetries = 3
	}
	return &GenericProvider{
		opentdb:   opentdb,
		triviaAPI: triviaAPI,
		history:   store,
		shuffler:  shuffler,
		cfg:       cfg,
		logger:    logger.With().Str("provider", "generic").Logger(),
	}
}

// SlotPlan: easy, easy, medium, medium, hard; a short tier falls back medium, easy, hard.
func (p *GenericProvider) SlotPlan(Category) SlotPlan {
	return TieredPlan(
		[]string{DifficultyEasy, DifficultyEasy, DifficultyMedium, DifficultyMedium, DifficultyHard},
		[]string{DifficultyMedium, DifficultyEasy, DifficultyHard},
	)
}

func (p *GenericProvider) FetchCandidates(ctx context.Context, cat Category) ([]Question, error) {
	var (
		candidates []Question
		err        error
	)
	switch cat.Source {
	case sourceTriviaAPI:
		candidates, err = p.fetchTriviaAPI(ctx, cat)
	case "", sourceOpenTDB:
		candidates, err = p.fetchOpenTDB(ctx, cat)
	default:
		return nil, fmt.Errorf("category %s: unknown trivia source %q", cat.ID, cat.Source)
	}
	if err != nil {
		return nil, err
	}

	played := p.history.Played(ctx)
	return preferFresh(candidates, played, SlotCount), nil
}

func (p *GenericProvider) fetchOpenTDB(ctx context.Context, cat Category) ([]Question, error) {
	if p.opentdb == nil {
		return nil, errors.New("opentdb source not configured")
	}
	var raw []external.OpenTDBQuestion
	err := p.withRateLimitRetry(ctx, cat, func(ctx context.Context) error {
		var err error
		raw, err = p.opentdb.Fetch(ctx, p.cfg.Batch, cat.SourceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]Question, 0, len(raw))
	for _, r := range raw {
		prompt := html.UnescapeString(r.Question)
		incorrect := make([]string, len(r.IncorrectAnswer))
		for i, a := range r.IncorrectAnswer {
			incorrect[i] = html.UnescapeString(a)
		}
		q, ok := p.multipleChoice(cat, prompt, html.UnescapeString(r.CorrectAnswer), incorrect, r.Difficulty)
		if !ok {
			continue
		}
		q.HistoryKey = "otdb-" + shortHash(truncateRunes(prompt, promptHashPrefix))
		out = append(out, q)
	}
	return out, nil
}

func (p *GenericProvider) fetchTriviaAPI(ctx context.Context, cat Category) ([]Question, error) {
	if p.triviaAPI == nil {
		return nil, errors.New("trivia api source not configured")
	}
	var raw []external.TriviaAPIQuestion
	err := p.withRateLimitRetry(ctx, cat, func(ctx context.Context) error {
		var err error
		raw, err = p.triviaAPI.Fetch(ctx, p.cfg.Batch, cat.SourceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]Question, 0, len(raw))
	for _, r := range raw {
		q, ok := p.multipleChoice(cat, r.Question.Text, r.Correct, r.Incorrect, r.Difficulty)
		if !ok {
			continue
		}
		if r.ID != "" {
			q.HistoryKey = "tapi-" + r.ID
		} else {
			q.HistoryKey = "tapi-" + shortHash(truncateRunes(r.Question.Text, promptHashPrefix))
		}
		q.ID = q.HistoryKey
		out = append(out, q)
	}
	return out, nil
}

// withRateLimitRetry retries only rate-limit failures, waiting base × attempt between tries.
func (p *GenericProvider) withRateLimitRetry(ctx context.Context, cat Category, fetch func(ctx context.Context) error) error {
	return retry.Do(ctx, p.cfg.RateLimitRetries, retry.Linear(p.cfg.RateLimitBackoff), func(ctx context.Context, attempt int) error {
		err := fetch(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, external.ErrRateLimited) {
			providerRetries.WithLabelValues(cat.Source).Inc()
			p.logger.Warn().Str("category", cat.ID).Int("attempt", attempt).Msg("rate limited, backing off")
			return retry.Retryable(err)
		}
		return err
	})
}

func (p *GenericProvider) multipleChoice(cat Category, prompt, correct string, incorrect []string, difficulty string) (Question, bool) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" || correct == "" || len(incorrect) != 3 {
		return Question{}, false
	}
	diff := normalizeDifficulty(difficulty)
	return Question{
		Category:         cat.Name,
		Type:             TypeMultiple,
		Difficulty:       diff,
		MediaType:        MediaText,
		Prompt:           prompt,
		CorrectAnswer:    correct,
		IncorrectAnswers: incorrect,
		AllAnswers:       ShuffledAnswers(p.shuffler, correct, incorrect),
		Bucket:           diff,
	}, true
}

func normalizeDifficulty(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
