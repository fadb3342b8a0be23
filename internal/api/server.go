package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/scaffold/internal/config"
	"github.com/dgallion1/scaffold/internal/pipeline"
	"github.com/dgallion1/scaffold/internal/source"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for scaffold.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	limiter      *RateLimiter
	srcOpts      source.Options
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		limiter:      NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		srcOpts:      source.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		log:          log,
		cfg:          cfg,
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

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		r.Use(RateLimit(s.limiter, s.log))

		r.Post("/api/plan", s.handlePlan)
		r.Post("/api/plan/batch", s.handleBatchPlan)
		r.Post("/api/archive", s.handleArchive)

		r.Post("/api/jobs", s.handleSubmitJob)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/workspace", s.handleListWorkspace)
		r.Delete("/api/workspace/{jobID}", s.handleDeleteWorkspace)

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
