// Package server exposes lead qualification over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/lead-qualifier/internal/model"
)

const (
	defaultMaxBodyBytes = 1 << 20
	defaultMaxBatchSize = 500
)

// Qualifier qualifies an ordered batch of leads.
type Qualifier interface {
	Qualify(ctx context.Context, leads []model.LeadInput) []model.QualifiedLead
}

// TokenSnapshot reports the tokens currently available per source bucket.
type TokenSnapshot interface {
	Snapshot() map[string]float64
}

// Options configures a Server.
type Options struct {
	Port         int
	MaxBodyBytes int64
	MaxBatchSize int
	CORSOrigins  []string

	// Configured marks the sources that have credentials.
	Configured map[model.Source]bool
	// Tokens is optional; when set, readiness includes bucket levels.
	Tokens TokenSnapshot
}

// Server is the HTTP front end of the qualifier.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	qualifier Qualifier
	opts      Options
}

// New creates a Server and registers its routes.
func New(q Qualifier, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = defaultMaxBatchSize
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s := &Server{router: r, qualifier: q, opts: opts}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/health/ready", s.handleReady)
	s.router.Post("/qualify", s.handleQualify)
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured port until Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.opts.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	zap.L().Info("starting server", zap.Int("port", s.opts.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	zap.L().Info("shutting down server")
	return s.server.Shutdown(ctx)
}
