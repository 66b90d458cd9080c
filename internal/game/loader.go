package game

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-night/internal/question"
)

// ErrLoadQueueFull is returned when too many boards are waiting to be assembled.
var ErrLoadQueueFull = errors.New("load queue full")

// GameDataFetcher is satisfied by *question.Pipeline.
type GameDataFetcher interface {
	FetchGameData(ctx context.Context, categories []question.Category) []question.Column
}

// LoadRequest asks for a board for one session.
type LoadRequest struct {
	SessionID  string
	Ticket     uint64
	Categories []question.Category
}

// LoadWorker assembles boards one at a time, so runs from different sessions never hit
// the upstream APIs concurrently.
type LoadWorker struct {
	fetcher   GameDataFetcher
	sessions  *Registry
	queue     chan LoadRequest
	logger    zerolog.Logger
	timeout   time.Duration
	shutdownC chan struct{}
	doneC     chan struct{}
}

func NewLoadWorker(fetcher GameDataFetcher, sessions *Registry, queueSize int, timeout time.Duration, logger zerolog.Logger) *LoadWorker {
	if queueSize <= 0 {
		queueSize = 16
	}
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &LoadWorker{
		fetcher:   fetcher,
		sessions:  sessions,
		queue:     make(chan LoadRequest, queueSize),
		logger:    logger.With().Str("component", "load_worker").Logger(),
		timeout:   timeout,
		shutdownC: make(chan struct{}),
		doneC:     make(chan struct{}),
	}
}

// Enqueue schedules a load without blocking.
func (w *LoadWorker) Enqueue(req LoadRequest) error {
	select {
	case w.queue <- req:
		return nil
	default:
		return ErrLoadQueueFull
	}
}

// Run processes requests until Stop is called.
func (w *LoadWorker) Run() {
	defer close(w.doneC)
	for {
		select {
		case <-w.shutdownC:
			w.logger.Info().Msg("load worker stopping")
			return
		case req := <-w.queue:
			w.handle(req)
		}
	}
}

func (w *LoadWorker) handle(req LoadRequest) {
	log := w.logger.With().Str("session_id", req.SessionID).Int("categories", len(req.Categories)).Logger()

	// The run is never cancelled mid-flight; a session that moved on ignores the result.
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	columns := w.fetcher.FetchGameData(ctx, req.Categories)

	session, err := w.sessions.Get(req.SessionID)
	if err != nil {
		log.Debug().Msg("session gone before load finished")
		return
	}
	switch err := session.CompleteLoading(req.Ticket, columns); {
	case err == nil:
		log.Info().Int("columns", len(columns)).Msg("board ready")
	case errors.Is(err, ErrNoColumns):
		log.Warn().Msg("no category could be assembled")
	case errors.Is(err, ErrStaleLoad):
		log.Debug().Msg("discarding stale board")
	default:
		log.Error().Err(err).Msg("complete loading failed")
	}
}

// Stop ends Run after the current request and waits for it.
func (w *LoadWorker) Stop() {
	close(w.shutdownC)
	<-w.doneC
}
