package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-night"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Redis     Redis
	History   History
	Providers Providers
	Pipeline  Pipeline
	Game      Game
	Scoring   Scoring
}

// Redis holds cache + history configuration. An empty address disables Redis.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

// History selects the replay-history backend.
type History struct {
	Backend     string `env:"HISTORY_BACKEND" envDefault:"memory"` // memory | redis | postgres
	Key         string `env:"HISTORY_KEY" envDefault:"played_tracks"`
	PostgresDSN string `env:"HISTORY_POSTGRES_DSN"`
}

// Providers points the question sources at their upstream APIs.
type Providers struct {
	OpenTDBURL       string        `env:"OPENTDB_URL" envDefault:"https://opentdb.com"`
	TriviaAPIURL     string        `env:"TRIVIA_API_URL" envDefault:"https://the-trivia-api.com/v2"`
	TriviaAPIKey     string        `env:"TRIVIA_API_KEY"`
	ITunesURL        string        `env:"ITUNES_URL" envDefault:"https://itunes.apple.com"`
	TMDBURL          string        `env:"TMDB_URL" envDefault:"https://api.themoviedb.org/3"`
	TMDBImageBase    string        `env:"TMDB_IMAGE_BASE" envDefault:"https://image.tmdb.org/t/p/w500"`
	TMDBAPIKey       string        `env:"TMDB_API_KEY"`
	RestCountriesURL string        `env:"REST_COUNTRIES_URL" envDefault:"https://restcountries.com/v3.1"`
	SportsDBURL      string        `env:"SPORTSDB_URL" envDefault:"https://www.thesportsdb.com/api/v1/json/3"`
	HTTPTimeout      time.Duration `env:"PROVIDER_HTTP_TIMEOUT" envDefault:"8s"`
}

// Pipeline tunes round assembly pacing and batch sizes.
type Pipeline struct {
	CategoryDelay    time.Duration `env:"PIPELINE_CATEGORY_DELAY" envDefault:"500ms"`
	RateLimitRetries int           `env:"PIPELINE_RATE_LIMIT_RETRIES" envDefault:"3"`
	RateLimitBackoff time.Duration `env:"PIPELINE_RATE_LIMIT_BACKOFF" envDefault:"2s"`
	TriviaBatch      int           `env:"PIPELINE_TRIVIA_BATCH" envDefault:"20"`
	MoviePages       int           `env:"PIPELINE_MOVIE_PAGES" envDefault:"3"`
	CountryCacheTTL  time.Duration `env:"PIPELINE_COUNTRY_CACHE_TTL" envDefault:"24h"`
	LoadTimeout      time.Duration `env:"PIPELINE_LOAD_TIMEOUT" envDefault:"3m"`
	LoadQueueSize    int           `env:"PIPELINE_LOAD_QUEUE" envDefault:"16"`
}

// Game groups session defaults.
type Game struct {
	MinCategories int  `env:"GAME_MIN_CATEGORIES" envDefault:"4"`
	MaxCategories int  `env:"GAME_MAX_CATEGORIES" envDefault:"6"`
	AutoTimers    bool `env:"GAME_AUTO_TIMERS" envDefault:"true"`
	// Sessions untouched for this long are dropped by the prune loop.
	SessionIdle   time.Duration `env:"GAME_SESSION_IDLE" envDefault:"6h"`
	PruneInterval time.Duration `env:"GAME_PRUNE_INTERVAL" envDefault:"10m"`
}

// Scoring governs the score delta law.
type Scoring struct {
	NegativeOnMiss bool `env:"SCORING_NEGATIVE_ON_MISS" envDefault:"true"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) validate() error {
	switch c.History.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("HISTORY_BACKEND=redis requires REDIS_ADDR")
		}
	case "postgres":
		if c.History.PostgresDSN == "" {
			return fmt.Errorf("HISTORY_BACKEND=postgres requires HISTORY_POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown HISTORY_BACKEND %q", c.History.Backend)
	}
	if c.Game.MinCategories < 1 || c.Game.MaxCategories < c.Game.MinCategories {
		return fmt.Errorf("invalid category bounds %d..%d", c.Game.MinCategories, c.Game.MaxCategories)
	}
	return nil
}
