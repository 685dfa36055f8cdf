// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /api/health
//	POST /api/layout/parse                 {layout, tolerant?, references?}
//	POST /api/layout/validate              {layout, references?}
//	POST /api/layout/render?format=svg     {layout, tolerant?, width?, height?, theme?, ...}
//	GET  /api/layout/templates?panels=&category=
//	GET  /api/layout/templates/{name}
//
// Every response carries an X-Request-ID header. Errors are JSON objects of
// the form {success: false, error, code, request_id}.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/panelgrid/pkg/layout"
	"github.com/matzehuels/panelgrid/pkg/pipeline"
	"github.com/matzehuels/panelgrid/pkg/templates"
)

// DefaultMaxBody bounds request bodies.
const DefaultMaxBody = 64 << 10

// Config configures a Server.
type Config struct {
	Limits       layout.Limits
	MaxBody      int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Render defaults applied when a request leaves them unset.
	Width  float64
	Height float64
	Theme  string
}

// Server handles layout requests.
type Server struct {
	cfg       Config
	runner    *pipeline.Runner
	templates *templates.Registry
	logger    *log.Logger
}

// New returns a Server. A nil runner disables caching, a nil registry
// serves the built-in templates.
func New(cfg Config, runner *pipeline.Runner, reg *templates.Registry, logger *log.Logger) (*Server, error) {
	if err := cfg.Limits.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if reg == nil {
		reg = templates.NewRegistry()
	}
	return &Server{cfg: cfg, runner: runner, templates: reg, logger: logger}, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Route("/api/layout", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/validate", s.handleValidate)
		r.Post("/render", s.handleRender)
		r.Get("/templates", s.handleTemplates)
		r.Get("/templates/{name}", s.handleTemplate)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, invalidInput("method %s not allowed on %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
