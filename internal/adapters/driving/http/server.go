package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	// Services
	authService   driving.AuthService
	analysis      driving.AnalysisService
	reportService driving.ReportService
	orchestrator  driving.RunOrchestrator // nil disables run triggers

	// Configured corpora that may be run on demand
	jobs map[string]domain.Job

	// Infrastructure health checks by backend name
	pingers map[string]Pinger
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	Version     string
	CORSOrigins []string
	Logger      *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// Services groups what the server exposes
type Services struct {
	Auth         driving.AuthService
	Analysis     driving.AnalysisService
	Reports      driving.ReportService
	Orchestrator driving.RunOrchestrator
	Jobs         []domain.Job
	Pingers      map[string]Pinger
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, svc Services) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:        http.NewServeMux(),
		version:       cfg.Version,
		logger:        logger.With("component", "http"),
		authService:   svc.Auth,
		analysis:      svc.Analysis,
		reportService: svc.Reports,
		orchestrator:  svc.Orchestrator,
		jobs:          make(map[string]domain.Job, len(svc.Jobs)),
		pingers:       svc.Pingers,
	}
	for _, job := range svc.Jobs {
		s.jobs[job.Corpus] = job
	}

	var handler http.Handler = s.router
	if len(cfg.CORSOrigins) > 0 {
		handler = NewCORSMiddleware(cfg.CORSOrigins).Handler(handler)
	}
	handler = NewRecoveryMiddleware(s.logger).Handler(handler)
	handler = NewLoggingMiddleware(s.logger).Handler(handler)
	handler = RequestID(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // on-demand runs render charts synchronously
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// Handler returns the root handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)
	readers := authMiddleware.RequireRole(domain.RoleAdmin, domain.RoleViewer)

	authenticated := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(readers(h))
	}

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.HandleFunc("GET /swagger/doc.json", s.handleSwaggerDoc)

	// Auth endpoints (public)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// Report endpoints (authenticated)
	s.router.Handle("GET /api/v1/reports/{corpus}", authenticated(s.handleGetReport))
	s.router.Handle("GET /api/v1/frequencies/{corpus}", authenticated(s.handleGetFrequencies))
	s.router.Handle("GET /api/v1/runs/{id}", authenticated(s.handleGetRun))
	s.router.Handle("POST /api/v1/score", authenticated(s.handleScore))

	// Run trigger (admin-only)
	s.router.Handle("POST /api/v1/runs/{corpus}",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleTriggerRun))))
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
