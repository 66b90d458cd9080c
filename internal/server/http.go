package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-night/internal/config"
	"github.com/gokatarajesh/trivia-night/internal/game"
	"github.com/gokatarajesh/trivia-night/internal/logging"
	"github.com/gokatarajesh/trivia-night/internal/question"
	ws "github.com/gokatarajesh/trivia-night/pkg/http/ws"
)

// PingFunc checks one backing dependency for /healthz.
type PingFunc func(ctx context.Context) error

// LoadQueue schedules board assembly; satisfied by *game.LoadWorker.
type LoadQueue interface {
	Enqueue(req game.LoadRequest) error
}

// HistoryResetter clears the replay-history; satisfied by *question.Pipeline.
type HistoryResetter interface {
	ResetPlayedTracks(ctx context.Context) error
}

// Deps are the services the HTTP layer drives.
type Deps struct {
	Catalog  *question.Catalog
	Sessions *game.Registry
	Loads    LoadQueue
	History  HistoryResetter
	Hub      *ws.Hub
	// Checks are pinged by /healthz, keyed by dependency name.
	Checks map[string]PingFunc
}

// NewHTTPServer wires the game API, health and metrics routes.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps Deps) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(logger, deps),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// NewRouter builds the chi router. Split out so tests can drive it through httptest.
func NewRouter(logger zerolog.Logger, deps Deps) http.Handler {
	h := &handlers{
		deps:     deps,
		logger:   logger.With().Str("component", "http").Logger(),
		validate: validator.New(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws/sessions/{id}", h.stream)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/categories", h.listCategories)
		r.Delete("/history", h.resetHistory)

		r.Post("/sessions", h.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Delete("/", h.deleteSession)
			r.Post("/categories", h.selectCategories)
			r.Post("/back", h.backToSetup)
			r.Post("/questions/{qid}", h.selectQuestion)
			r.Post("/reveal", h.reveal)
			r.Post("/answer", h.answer)
			r.Post("/restart", h.restart)
		})
	})
	return r
}

func requestLogger(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			reqLogger := logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			r = r.WithContext(logging.IntoContext(r.Context(), reqLogger))

			defer func() {
				reqLogger.Debug().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("http request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
