package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/foxzi/campaignmock/internal/campaign"
	"github.com/foxzi/campaignmock/internal/config"
	"github.com/foxzi/campaignmock/internal/metrics"
	"github.com/foxzi/campaignmock/internal/openapi"
	"github.com/foxzi/campaignmock/internal/ratelimit"
)

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	corpus     *campaign.Corpus
	doc        *openapi.Document
	config     *config.APIConfig
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
	startTime  time.Time
	now        func() time.Time
}

// NewServer creates a new API server
func NewServer(corpus *campaign.Corpus, doc *openapi.Document, cfg *config.APIConfig, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		corpus:    corpus,
		doc:       doc,
		config:    cfg,
		logger:    logger,
		startTime: time.Now(),
		now:       time.Now,
	}

	if cfg.RateLimit.Enabled {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		})
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        s.router,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
	}
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.HTTPMiddleware)

	s.router.NotFound(s.handleNotFound)

	// Public routes
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/openapi.json", s.handleOpenAPIJSON)
	s.router.Get("/openapi", s.handleOpenAPIPage)

	// Platform API (Api-Token required)
	s.router.Route("/api/3", func(r chi.Router) {
		r.Use(s.authMiddleware)
		if s.limiter != nil {
			r.Use(s.rateLimitMiddleware)
		}

		r.Get("/campaigns", s.handleListCampaigns)
		r.Get("/campaigns/{campaignID}", s.handleGetCampaign)

		r.NotFound(s.handleNotImplemented)
		r.MethodNotAllowed(s.handleNotImplemented)
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	if s.limiter != nil {
		s.limiter.Start()
	}

	s.logger.Info("starting HTTP API server",
		"addr", s.config.ListenAddr,
		"campaigns", s.corpus.Len(),
		"rate_limit", s.limiter != nil,
	)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP API server")
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
