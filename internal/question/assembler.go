package question

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-night/internal/history"
)

// Assembler turns one category into a complete five-question column, or nothing.
type Assembler struct {
	providers map[CategoryKind]Provider
	history   history.Store
	validator *Validator
	logger    zerolog.Logger
}

func NewAssembler(store history.Store, providers map[CategoryKind]Provider, logger zerolog.Logger) *Assembler {
	return &Assembler{
		providers: providers,
		history:   store,
		validator: NewValidator(),
		logger:    logger.With().Str("component", "assembler").Logger(),
	}
}

// AssembleColumn returns nil when the category cannot fill all five slots. Provider
// errors and panics are absorbed here and never reach the caller.
func (a *Assembler) AssembleColumn(ctx context.Context, cat Category) (col *Column) {
	log := a.logger.With().Str("category", cat.ID).Str("kind", cat.Kind.String()).Logger()

	provider, ok := a.providers[cat.Kind]
	if !ok {
		a.drop(log, cat, "no_provider", nil)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			a.drop(log, cat, "panic", fmt.Errorf("provider panic: %v", r))
			col = nil
		}
	}()

	candidates, err := provider.FetchCandidates(ctx, cat)
	if err != nil {
		a.drop(log, cat, "provider_error", err)
		return nil
	}

	valid, invalid := a.validator.Keep(candidates)
	if invalid > 0 {
		log.Debug().Int("discarded", invalid).Msg("discarded malformed candidates")
	}

	selected, ok := FillSlots(groupByBucket(valid), provider.SlotPlan(cat))
	if !ok || len(selected) != SlotCount {
		log.Warn().Int("candidates", len(valid)).Msg("not enough questions for a full column")
		columnsDropped.WithLabelValues(cat.Kind.String(), "insufficient").Inc()
		return nil
	}

	for i := range selected {
		q := &selected[i]
		q.Category = cat.Name
		q.PointValue = PointValues[i]
		q.IsAnswered = false
		if q.ID == "" {
			q.ID = fmt.Sprintf("%s-%d", q.HistoryKey, i)
		}
		// Recorded now so a crash later in the run still avoids replays.
		if err := a.history.MarkPlayed(ctx, q.HistoryKey); err != nil {
			log.Warn().Err(err).Str("history_key", q.HistoryKey).Msg("history write failed")
		}
	}

	if enricher, ok := provider.(Enricher); ok {
		if enriched := enricher.Enrich(ctx, cat, selected); len(enriched) == SlotCount {
			selected = enriched
		}
	}

	columnsAssembled.WithLabelValues(cat.Kind.String()).Inc()
	return &Column{Title: cat.Name, Questions: selected}
}

func (a *Assembler) drop(log zerolog.Logger, cat Category, reason string, err error) {
	columnsDropped.WithLabelValues(cat.Kind.String(), reason).Inc()
	log.Warn().Err(err).Str("reason", reason).Msg("category dropped")
}
