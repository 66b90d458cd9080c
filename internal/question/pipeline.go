package question

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-night/internal/history"
)

// ColumnAssembler is satisfied by *Assembler.
type ColumnAssembler interface {
	AssembleColumn(ctx context.Context, cat Category) *Column
}

// Pipeline builds a game board one category at a time. Categories are never fetched in
// parallel: the upstreams rate limit per client.
type Pipeline struct {
	assembler ColumnAssembler
	history   history.Store
	delay     time.Duration
	logger    zerolog.Logger
}

func NewPipeline(assembler ColumnAssembler, store history.Store, delay time.Duration, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		assembler: assembler,
		history:   store,
		delay:     delay,
		logger:    logger.With().Str("component", "pipeline").Logger(),
	}
}

// FetchGameData returns the columns that assembled, in selection order. Failed
// categories are simply absent; the result may be empty.
func (p *Pipeline) FetchGameData(ctx context.Context, categories []Category) []Column {
	start := time.Now()
	defer func() { pipelineDuration.Observe(time.Since(start).Seconds()) }()

	columns := make([]Column, 0, len(categories))
	ids := make(map[string]bool)
	for i, cat := range categories {
		if i > 0 {
			p.pause(ctx)
		}
		col := p.assembler.AssembleColumn(ctx, cat)
		if col == nil {
			continue
		}
		for j := range col.Questions {
			q := &col.Questions[j]
			if ids[q.ID] {
				q.ID = q.ID + "-" + uuid.NewString()[:8]
			}
			ids[q.ID] = true
		}
		columns = append(columns, *col)
	}

	p.logger.Info().
		Int("selected", len(categories)).
		Int("assembled", len(columns)).
		Dur("took", time.Since(start)).
		Msg("game data ready")
	return columns
}

// ResetPlayedTracks clears the replay-history.
func (p *Pipeline) ResetPlayedTracks(ctx context.Context) error {
	return p.history.Reset(ctx)
}

func (p *Pipeline) pause(ctx context.Context) {
	if p.delay <= 0 {
		return
	}
	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
