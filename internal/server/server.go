// Package server exposes the arbor pipeline over HTTP.
//
// The API is organized around two resources: trees (immutable tree
// definitions) and sessions (per-viewer collapse state). A client
// uploads a tree once, opens a session against it, and then toggles
// nodes and fetches layouts or rendered exports for that session.
//
//	POST   /api/trees
//	GET    /api/trees
//	GET    /api/trees/{treeID}
//	DELETE /api/trees/{treeID}
//	POST   /api/sessions
//	GET    /api/sessions/{sessionID}
//	GET    /api/sessions/{sessionID}/layout
//	POST   /api/sessions/{sessionID}/toggle/{nodeID}
//	GET    /api/sessions/{sessionID}/export?format=svg
//	GET    /healthz
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arbor-viz/arbor/pkg/pipeline"
	"github.com/arbor-viz/arbor/pkg/state"
	"github.com/arbor-viz/arbor/pkg/store"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	trees    store.TreeStore
	sessions state.Store
	runner   *pipeline.Runner
	logger   *log.Logger

	sessionTTL time.Duration
	defaults   pipeline.Options
}

// Option configures a Server.
type Option func(*Server)

// WithSessionTTL overrides the default session duration.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) { s.sessionTTL = ttl }
}

// WithDefaults sets the pipeline options applied to every request that
// does not override them.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// New creates a Server over the given stores and runner.
func New(trees store.TreeStore, sessions state.Store, runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		trees:      trees,
		sessions:   sessions,
		runner:     runner,
		logger:     logger,
		sessionTTL: state.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/trees", func(r chi.Router) {
			r.Post("/", s.handleCreateTree)
			r.Get("/", s.handleListTrees)
			r.Get("/{treeID}", s.handleGetTree)
			r.Delete("/{treeID}", s.handleDeleteTree)
		})
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Get("/{sessionID}", s.handleGetSession)
			r.Get("/{sessionID}/layout", s.handleLayout)
			r.Post("/{sessionID}/toggle/{nodeID}", s.handleToggle)
			r.Get("/{sessionID}/export", s.handleExport)
		})
	})

	return r
}

// requestLogger logs one line per request with chi's request ID.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
