package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/hq/internal/config"
	"github.com/dgallion1/hq/internal/metrics"
	"github.com/dgallion1/hq/internal/source"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API for running queries.
type Server struct {
	router   chi.Router
	resolver *source.Resolver
	stats    *metrics.LatencyStats
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. Documents are either
// sent inline or fetched through the resolver's fetcher.
func NewServer(resolver *source.Resolver, stats *metrics.LatencyStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		resolver: resolver,
		stats:    stats,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/query", s.handleQuery)
		r.Get("/api/stats/query", s.handleQueryStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
