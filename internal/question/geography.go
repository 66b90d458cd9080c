package question

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-night/internal/history"
	"github.com/gokatarajesh/trivia-night/internal/question/external"
)

const (
	variantFlags    = "flags"
	variantCapitals = "capitals"

	populationEasy   = 20_000_000
	populationMedium = 5_000_000
	geoDistractors   = 3
	geoTimerSeconds  = 15
)

// CountrySource is satisfied by *external.RestCountriesClient.
type CountrySource interface {
	All(ctx context.Context) ([]external.Country, error)
}

// GeographyProvider asks flag and capital questions, graded by population.
type GeographyProvider struct {
	source   CountrySource
	cache    CountryCache
	history  history.Store
	shuffler *Shuffler
	logger   zerolog.Logger
}

var _ Provider = (*GeographyProvider)(nil)

func NewGeographyProvider(source CountrySource, cache CountryCache, store history.Store, shuffler *Shuffler, logger zerolog.Logger) *GeographyProvider {
	if cache == nil {
		cache = NewMemoryCountryCache(0)
	}
	return &GeographyProvider{
		source:   source,
		cache:    cache,
		history:  store,
		shuffler: shuffler,
		logger:   logger.With().Str("provider", "geography").Logger(),
	}
}

// SlotPlan: easy, easy, medium, medium, hard, falling back to any other bucket.
func (p *GeographyProvider) SlotPlan(Category) SlotPlan {
	return TieredPlan(
		[]string{DifficultyEasy, DifficultyEasy, DifficultyMedium, DifficultyMedium, DifficultyHard},
		[]string{DifficultyEasy, DifficultyMedium, DifficultyHard},
	)
}

// populationBucket grades a country: easy above 20M, medium 5M to 20M, hard below 5M.
func populationBucket(population int64) string {
	switch {
	case population > populationEasy:
		return DifficultyEasy
	case population >= populationMedium:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

func (p *GeographyProvider) FetchCandidates(ctx context.Context, cat Category) ([]Question, error) {
	countries, err := p.countries(ctx)
	if err != nil {
		return nil, err
	}
	capitals := cat.Variant == variantCapitals

	usable := make([]external.Country, 0, len(countries))
	for _, c := range countries {
		if c.Name == "" || c.FlagURL == "" {
			continue
		}
		if capitals && c.Capital == "" {
			continue
		}
		usable = append(usable, c)
	}
	if len(usable) == 0 {
		return nil, errors.New("no usable countries")
	}

	byBucket := make(map[string][]external.Country)
	for _, c := range usable {
		b := populationBucket(c.Population)
		byBucket[b] = append(byBucket[b], c)
	}

	played := p.history.Played(ctx)
	var candidates []Question
	for _, bucket := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		pool := Shuffle(p.shuffler, byBucket[bucket])
		sort.SliceStable(pool, func(i, j int) bool {
			return !played.Has(geoKey(pool[i])) && played.Has(geoKey(pool[j]))
		})
		// Five per bucket covers every slot even when the others are empty.
		for _, c := range pool[:min(len(pool), SlotCount)] {
			if q, ok := p.toQuestion(cat, c, bucket, capitals, byBucket[bucket], usable); ok {
				candidates = append(candidates, q)
			}
		}
	}
	return candidates, nil
}

func geoKey(c external.Country) string {
	return "geo-" + c.Name
}

func (p *GeographyProvider) countries(ctx context.Context) ([]external.Country, error) {
	cached, err := p.cache.Get(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("country cache read failed")
	}
	if len(cached) > 0 {
		return cached, nil
	}

	countries, err := p.source.All(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.cache.Set(ctx, countries); err != nil {
		p.logger.Warn().Err(err).Msg("country cache write failed")
	}
	return countries, nil
}

func (p *GeographyProvider) toQuestion(cat Category, c external.Country, bucket string, capitals bool, sameBucket, all []external.Country) (Question, bool) {
	answerOf := func(x external.Country) string {
		if capitals {
			return x.Capital
		}
		return x.Name
	}
	correct := answerOf(c)

	// Same-bucket distractors first, then anything else.
	used := map[string]bool{correct: true}
	var incorrect []string
	for _, pool := range [][]external.Country{sameBucket, all} {
		for _, other := range Shuffle(p.shuffler, pool) {
			if len(incorrect) == geoDistractors {
				break
			}
			a := answerOf(other)
			if a == "" || used[a] {
				continue
			}
			used[a] = true
			incorrect = append(incorrect, a)
		}
	}
	if len(incorrect) < geoDistractors {
		return Question{}, false
	}

	q := Question{
		ID:               geoKey(c),
		Category:         cat.Name,
		Type:             TypeMultiple,
		Difficulty:       bucket,
		MediaType:        MediaImage,
		Prompt:           "Which country does this flag belong to?",
		CorrectAnswer:    correct,
		IncorrectAnswers: incorrect,
		AllAnswers:       ShuffledAnswers(p.shuffler, correct, incorrect),
		ImageURL:         c.FlagURL,
		TimerDuration:    geoTimerSeconds,
		HistoryKey:       geoKey(c),
		Bucket:           bucket,
	}
	if capitals {
		q.Prompt = "What is the capital of this country?"
		q.InfoText = c.Name
	}
	return q, true
}
