package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docengine/internal/docs"
	"git.home.luguber.info/inful/docengine/internal/logfields"
	"git.home.luguber.info/inful/docengine/internal/metrics"
	"git.home.luguber.info/inful/docengine/internal/search"
)

// ContentSource supplies the current snapshot and rebuilds it on demand.
type ContentSource interface {
	GetOrLoad(ctx context.Context) (*docs.Index, error)
	Rebuild(ctx context.Context, trigger string) (*docs.Index, error)
}

// Searcher runs full-text queries against the current snapshot.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Hit, error)
}

// Config holds listener and timeout settings.
type Config struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 15 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	return c
}

// Dependencies wires the server to the content engine. Search and
// Registry are optional; their routes are only mounted when set.
type Dependencies struct {
	Content  ContentSource
	Search   Searcher
	Registry *prometheus.Registry
	Recorder metrics.Recorder
}

// Server represents the API server.
type Server struct {
	Addr     string
	router   *chi.Mux
	server   *http.Server
	content  ContentSource
	search   Searcher
	registry *prometheus.Registry
	recorder metrics.Recorder
}

// NewServer creates a new API server.
func NewServer(cfg Config, deps Dependencies) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		Addr:     cfg.Addr,
		router:   chi.NewRouter(),
		content:  deps.Content,
		search:   deps.Search,
		registry: deps.Registry,
		recorder: metrics.OrNoop(deps.Recorder),
	}

	s.setupRoutes(cfg.RequestTimeout)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes(requestTimeout time.Duration) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(RequestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(requestTimeout))

	s.router.Get("/health", s.handleHealth)
	if s.registry != nil {
		s.router.Method(http.MethodGet, "/metrics", metrics.HTTPHandler(s.registry))
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/paths", s.handlePaths)
		r.Get("/docs", s.handleDocument)
		r.Get("/docs/*", s.handleDocument)
		r.Get("/nav", s.handleNavigation)
		r.Get("/pager", s.handlePager)
		r.Get("/pager/*", s.handlePager)
		if s.search != nil {
			r.Get("/search", s.handleSearch)
		}
		r.Post("/rebuild", s.handleRebuild)
	})
}

// Handler exposes the router, for embedding in another server.
func (s *Server) Handler() http.Handler { return s.router }

// Start starts the API server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Response represents a standard API response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Error writes an error response.
func (s *Server) Error(w http.ResponseWriter, code int, message string) {
	writeResponse(w, code, Response{Success: false, Error: message})
}

// Success writes a success response.
func (s *Server) Success(w http.ResponseWriter, code int, data any) {
	writeResponse(w, code, Response{Success: true, Data: data})
}

// writeResponse encodes resp before committing the status, so a value that
// cannot be encoded turns into a 500 instead of an empty success.
func writeResponse(w http.ResponseWriter, code int, resp Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		slog.Error("Failed to encode response", logfields.Error(err))
		code = http.StatusInternalServerError
		body, _ = json.Marshal(Response{Success: false, Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}
