package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gokatarajesh/trivia-night/internal/config"
	"github.com/gokatarajesh/trivia-night/internal/game"
	"github.com/gokatarajesh/trivia-night/internal/game/scoring"
	"github.com/gokatarajesh/trivia-night/internal/history"
	"github.com/gokatarajesh/trivia-night/internal/logging"
	"github.com/gokatarajesh/trivia-night/internal/question"
	"github.com/gokatarajesh/trivia-night/internal/question/datasets"
	"github.com/gokatarajesh/trivia-night/internal/question/external"
	"github.com/gokatarajesh/trivia-night/internal/server"
	ws "github.com/gokatarajesh/trivia-night/pkg/http/ws"
)

// Application aggregates shared infrastructure (history backend, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	redis    *redis.Client
	db       *sql.DB
	http     *http.Server
	sessions *game.Registry
	loader   *game.LoadWorker
}

// New bootstraps logger, Redis, the history backend, question providers and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Str("history_backend", cfg.History.Backend).Msg("starting application bootstrap")

	a := &Application{cfg: cfg, logger: logger}
	checks := map[string]server.PingFunc{}

	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}

	var store history.Store
	switch cfg.History.Backend {
	case "redis":
		store = history.NewRedisStore(a.redis, cfg.History.Key, logger)
	case "postgres":
		db, err := history.OpenPostgres(ctx, cfg.History.PostgresDSN)
		if err != nil {
			a.close()
			return nil, err
		}
		a.db = db
		store = history.NewPostgresStore(db, cfg.History.Key, logger)
		checks["postgres"] = db.PingContext
	default:
		store = history.NewMemoryStore()
	}

	bundle, err := datasets.Load()
	if err != nil {
		a.close()
		return nil, fmt.Errorf("load datasets: %w", err)
	}
	catalog, err := question.NewCatalog(bundle.Categories)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Providers.HTTPTimeout}
	p := cfg.Providers
	shuffler := question.NewShuffler()

	var countryCache question.CountryCache = question.NewMemoryCountryCache(cfg.Pipeline.CountryCacheTTL)
	if a.redis != nil {
		countryCache = question.NewRedisCountryCache(a.redis, cfg.Pipeline.CountryCacheTTL)
	}

	providers := map[question.CategoryKind]question.Provider{
		question.KindGeneric: question.NewGenericProvider(
			external.NewOpenTDBClient(p.OpenTDBURL, httpClient),
			external.NewTriviaAPIClient(p.TriviaAPIURL, p.TriviaAPIKey, httpClient),
			store, shuffler,
			question.GenericConfig{
				Batch:            cfg.Pipeline.TriviaBatch,
				RateLimitRetries: cfg.Pipeline.RateLimitRetries,
				RateLimitBackoff: cfg.Pipeline.RateLimitBackoff,
			},
			logger,
		),
		question.KindMusic: question.NewMusicProvider(
			external.NewITunesClient(p.ITunesURL, httpClient),
			store, shuffler, bundle.Music, bundle.MovieThemes, logger,
		),
		question.KindGeography: question.NewGeographyProvider(
			external.NewRestCountriesClient(p.RestCountriesURL, httpClient),
			countryCache, store, shuffler, logger,
		),
		question.KindMoviePoster: question.NewMoviePosterProvider(
			external.NewTMDBClient(p.TMDBURL, p.TMDBImageBase, p.TMDBAPIKey, httpClient),
			store, shuffler, cfg.Pipeline.MoviePages, logger,
		),
		question.KindFootballCareer: question.NewFootballProvider(
			bundle.Football,
			external.NewSportsDBClient(p.SportsDBURL, httpClient),
			store, shuffler, logger,
		),
	}

	assembler := question.NewAssembler(store, providers, logger)
	pipeline := question.NewPipeline(assembler, store, cfg.Pipeline.CategoryDelay, logger)

	hub := ws.NewHub(logger)
	a.sessions = game.NewRegistry(game.Options{
		MinCategories: cfg.Game.MinCategories,
		MaxCategories: cfg.Game.MaxCategories,
		AutoTimers:    cfg.Game.AutoTimers,
		Scoring:       scoring.ScoringConfig{NegativeOnMiss: cfg.Scoring.NegativeOnMiss},
	}, server.SnapshotPublisher(hub, logger), logger)
	a.loader = game.NewLoadWorker(pipeline, a.sessions, cfg.Pipeline.LoadQueueSize, cfg.Pipeline.LoadTimeout, logger)

	a.http = server.NewHTTPServer(cfg, logger, server.Deps{
		Catalog:  catalog,
		Sessions: a.sessions,
		Loads:    a.loader,
		History:  pipeline,
		Hub:      hub,
		Checks:   checks,
	})

	logger.Info().Int("categories", len(catalog.All())).Msg("application ready")
	return a, nil
}

// Run serves HTTP and runs the board loader until a signal arrives or ctx ends.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.loader.Run()
		return nil
	})

	g.Go(func() error {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.pruneLoop(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
		defer cancel()
		if err := a.http.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("http shutdown error")
		}
		a.loader.Stop()
		return nil
	})

	err := g.Wait()
	a.close()
	a.logger.Info().Msg("shutdown complete")
	return err
}

func (a *Application) pruneLoop(ctx context.Context) {
	interval := a.cfg.Game.PruneInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.sessions.Prune(a.cfg.Game.SessionIdle)
		}
	}
}

func (a *Application) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("postgres close error")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}
}
