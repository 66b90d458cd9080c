package question

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gokatarajesh/trivia-night/internal/history"
	"github.com/gokatarajesh/trivia-night/internal/question/datasets"
)

const (
	footballTiers        = 5
	footballTimerSeconds = 30
	badgeLookupLimit     = 4
)

// BadgeSource is satisfied by *external.SportsDBClient.
type BadgeSource interface {
	TeamBadge(ctx context.Context, club string) (string, error)
}

// FootballProvider serves "whose career path is this" questions from the bundled dataset.
type FootballProvider struct {
	paths    []datasets.CareerPath
	badges   BadgeSource
	history  history.Store
	shuffler *Shuffler
	logger   zerolog.Logger

	mu         sync.Mutex
	badgeCache map[string]string
}

var (
	_ Provider = (*FootballProvider)(nil)
	_ Enricher = (*FootballProvider)(nil)
)

// NewFootballProvider builds the provider. badges may be nil, in which case questions
// stay text sequences.
func NewFootballProvider(paths []datasets.CareerPath, badges BadgeSource, store history.Store, shuffler *Shuffler, logger zerolog.Logger) *FootballProvider {
	return &FootballProvider{
		paths:      paths,
		badges:     badges,
		history:    store,
		shuffler:   shuffler,
		logger:     logger.With().Str("provider", "football").Logger(),
		badgeCache: make(map[string]string),
	}
}

func tierBucket(tier int) string {
	return fmt.Sprintf("tier-%d", tier)
}

// SlotPlan maps slot i to tier i+1, falling back to the remaining tiers in order.
func (p *FootballProvider) SlotPlan(Category) SlotPlan {
	tiers := make([]string, footballTiers)
	for i := range tiers {
		tiers[i] = tierBucket(i + 1)
	}
	return TieredPlan(tiers, tiers)
}

func (p *FootballProvider) FetchCandidates(ctx context.Context, cat Category) ([]Question, error) {
	if len(p.paths) == 0 {
		return nil, fmt.Errorf("football dataset is empty")
	}
	candidates := make([]Question, 0, len(p.paths))
	for _, path := range Shuffle(p.shuffler, p.paths) {
		key := "football-" + path.Player
		clubs := make([]string, len(path.Clubs))
		copy(clubs, path.Clubs)
		candidates = append(candidates, Question{
			ID:            key,
			Category:      cat.Name,
			Type:          TypeHonorSystem,
			Difficulty:    DifficultyHonorSystem,
			MediaType:     MediaTextSequence,
			Prompt:        "Whose career path is this?",
			ClubList:      clubs,
			TimerDuration: footballTimerSeconds,
			AnswerReveal:  &AnswerReveal{Title: path.Player},
			HistoryKey:    key,
			Bucket:        tierBucket(path.Tier),
		})
	}
	return freshFirst(candidates, p.history.Played(ctx)), nil
}

// Enrich swaps club names for badge images when every club of a path resolves.
// Clubs of one path are looked up in parallel; paths are handled one after another.
func (p *FootballProvider) Enrich(ctx context.Context, _ Category, selected []Question) []Question {
	if p.badges == nil {
		return selected
	}
	for i := range selected {
		q := &selected[i]
		if q.MediaType != MediaTextSequence {
			continue
		}
		urls, err := p.resolveBadges(ctx, q.ClubList)
		if err != nil {
			p.logger.Debug().Err(err).Str("question", q.HistoryKey).Msg("keeping text career path")
			continue
		}
		q.ImageURLs = urls
		q.MediaType = MediaImageSequence
	}
	return selected
}

func (p *FootballProvider) resolveBadges(ctx context.Context, clubs []string) ([]string, error) {
	urls := make([]string, len(clubs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(badgeLookupLimit)
	for i, club := range clubs {
		g.Go(func() error {
			if url, ok := p.cachedBadge(club); ok {
				urls[i] = url
				return nil
			}
			url, err := p.badges.TeamBadge(gctx, club)
			if err != nil {
				return fmt.Errorf("badge for %s: %w", club, err)
			}
			p.storeBadge(club, url)
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (p *FootballProvider) cachedBadge(club string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	url, ok := p.badgeCache[club]
	return url, ok
}

func (p *FootballProvider) storeBadge(club, url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.badgeCache[club] = url
}
