// Package server hosts vibegraph views over HTTP.
//
// The server loads one catalogue snapshot and exposes read-only endpoints
// for the catalogue, search and rendered graphs, plus per-viewer sessions.
// Each session request rebuilds a view controller from the stored mode and
// pins, applies the interaction and saves the result, so the server holds no
// per-viewer state in memory beyond a per-session lock that serializes
// read-modify-write requests.
//
// # Endpoints
//
//	GET    /health
//	GET    /api/catalog
//	GET    /api/search?q=
//	GET    /api/graph?mode=&dangling=&session=
//	GET    /api/graph.{svg,png,pdf,dot,frame}?mode=&session=&zoom=
//	POST   /api/sessions
//	GET    /api/sessions/{id}
//	DELETE /api/sessions/{id}
//	PUT    /api/sessions/{id}/mode
//	POST   /api/sessions/{id}/pins
//	DELETE /api/sessions/{id}/pins/{nodeId}
//	POST   /api/sessions/{id}/click
//	POST   /api/sessions/{id}/select
//	POST   /api/sessions/{id}/draw
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/pipeline"
	"github.com/matzehuels/vibegraph/pkg/session"
	"github.com/matzehuels/vibegraph/pkg/sizing"
)

// DefaultAddr is the listen address when Config.Addr is empty.
const DefaultAddr = ":8080"

// DefaultCleanupInterval is how often expired sessions are purged.
const DefaultCleanupInterval = 10 * time.Minute

// Config holds the server settings.
type Config struct {
	Addr        string
	CORSOrigins []string
	Sizing      sizing.Policy
	Dangling    graph.DanglingPolicy
	SessionTTL  time.Duration
}

// Server serves the HTTP API for one catalogue snapshot.
type Server struct {
	cfg      Config
	snap     catalog.Snapshot
	runner   *pipeline.Runner
	sessions session.Store
	locks    sessionLocks
	logger   *log.Logger
	handler  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithRunner sets the pipeline runner, and with it the artifact cache.
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) { s.runner = r }
}

// WithSessionStore sets the session backend.
func WithSessionStore(store session.Store) Option {
	return func(s *Server) { s.sessions = store }
}

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server for snap. Unset options default to an uncached
// runner, an in-memory session store and the default logger.
func New(snap catalog.Snapshot, cfg Config, opts ...Option) (*Server, error) {
	cfg.Sizing = cfg.Sizing.WithDefaults()
	if err := cfg.Sizing.Validate(); err != nil {
		return nil, err
	}
	dangling, err := graph.ParseDanglingPolicy(string(cfg.Dangling))
	if err != nil {
		return nil, err
	}
	cfg.Dangling = dangling
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}

	s := &Server{cfg: cfg, snap: snap}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore()
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(requestHooks)

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Graph-Hash"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/search", s.handleSearch)
		r.Get("/graph", s.handleArtifact(pipeline.FormatJSON))
		for _, f := range []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatDOT, pipeline.FormatFrame} {
			r.Get("/graph."+f, s.handleArtifact(f))
		}

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Put("/mode", s.handleSetMode)
				r.Post("/pins", s.handlePin)
				r.Delete("/pins/{nodeId}", s.handleUnpin)
				r.Post("/click", s.handleClick)
				r.Post("/select", s.handleSelect)
				r.Post("/draw", s.handleDraw)
			})
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// Expired sessions are purged in the background while serving.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.cleanupLoop(ctx, DefaultCleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "songs", len(s.snap.Songs))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) cleanupLoop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}
