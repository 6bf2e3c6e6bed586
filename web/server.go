// ABOUTME: On-demand HTTP surface that rebuilds the course map for each request behind a chi router.
// ABOUTME: Serves the rendered map in any supported format plus JSON views of documents and warnings.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2389-research/coursemap/course"
	"github.com/2389-research/coursemap/logging"
	"github.com/2389-research/coursemap/pipeline"
	"github.com/2389-research/coursemap/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:2389"

// DefaultCacheTTL bounds how long a rendered image is reused for identical DOT text.
const DefaultCacheTTL = 5 * time.Minute

// Server renders the course map for one document root on request.
type Server struct {
	app    *pipeline.App
	root   string
	cache  *render.RenderCache
	ttl    time.Duration
	router chi.Router
	addr   string
	logger *slog.Logger
}

// ServerConfig holds the configuration for the web server.
type ServerConfig struct {
	Addr     string        // listen address (default: DefaultAddr)
	Root     string        // document root scanned on every request
	App      *pipeline.App // pipeline to run; required
	Logger   *slog.Logger
	CacheTTL time.Duration // render cache TTL (default: DefaultCacheTTL)
}

// NewServer creates a Server and sets up routing.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.App == nil {
		return nil, fmt.Errorf("App must not be nil")
	}
	if cfg.Root == "" {
		return nil, fmt.Errorf("Root must not be empty")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	s := &Server{
		app:    cfg.App,
		root:   cfg.Root,
		cache:  render.NewRenderCache(cfg.App.Renderer(), cfg.CacheTTL),
		ttl:    cfg.CacheTTL,
		addr:   cfg.Addr,
		logger: logging.OrDiscard(cfg.Logger),
	}
	s.router = s.buildRouter()
	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.addr }

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// Expired render cache entries are pruned once per cache TTL meanwhile.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.pruneLoop(ctx, s.ttl)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", "addr", s.addr, "root", s.root)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down web server: %w", err)
		}
		return nil
	}
}

// pruneLoop drops expired cache entries every interval until ctx is done.
func (s *Server) pruneLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pruneCache()
		}
	}
}

func (s *Server) pruneCache() int {
	n := s.cache.Prune()
	if n > 0 {
		s.logger.Debug("pruned render cache", "entries", n, "remaining", s.cache.Len())
	}
	return n
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/healthz", s.handleHealth)
	r.Get("/map.{format}", s.handleMap)
	r.Get("/documents", s.handleDocuments)
	r.Get("/warnings", s.handleWarnings)

	return r
}

// handleHome redirects to the SVG rendering.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/map.svg", http.StatusFound)
}

// handleHealth returns a JSON health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMap rebuilds the map and returns it in the format named by the path.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.app.Build(r.Context(), s.root)
	if err != nil {
		s.fail(w, r, err, res)
		return
	}

	data := []byte(res.DOT)
	if !format.IsText() {
		data, err = s.cache.Render(r.Context(), data, format)
		if err != nil {
			s.fail(w, r, err, res)
			return
		}
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Coursemap-Run-Id", res.RunID.String())
	w.Header().Set("X-Coursemap-Warnings", strconv.Itoa(len(res.Warnings)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type documentsResponse struct {
	RunID     string            `json:"run_id"`
	Documents []course.Document `json:"documents"`
	Order     []string          `json:"study_order"`
	Roots     []string          `json:"roots"`
}

// handleDocuments lists the graph's documents in output order.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	res, err := s.app.Build(r.Context(), s.root)
	if err != nil {
		s.fail(w, r, err, res)
		return
	}
	writeJSON(w, http.StatusOK, documentsResponse{
		RunID:     res.RunID.String(),
		Documents: res.Graph.Nodes(),
		Order:     res.Graph.TopologicalOrder(),
		Roots:     res.Graph.Roots(),
	})
}

type warningsResponse struct {
	RunID    string                     `json:"run_id"`
	Warnings []course.Warning           `json:"warnings"`
	Counts   map[course.WarningKind]int `json:"counts"`
}

// handleWarnings lists every warning produced by a fresh run.
func (s *Server) handleWarnings(w http.ResponseWriter, r *http.Request) {
	res, err := s.app.Build(r.Context(), s.root)
	if err != nil {
		s.fail(w, r, err, res)
		return
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []course.Warning{}
	}
	writeJSON(w, http.StatusOK, warningsResponse{
		RunID:    res.RunID.String(),
		Warnings: warnings,
		Counts:   res.WarningCounts(),
	})
}

type errorResponse struct {
	Error    string           `json:"error"`
	Warnings []course.Warning `json:"warnings,omitempty"`
}

// fail maps pipeline errors to HTTP status codes. Warnings gathered before
// the failure are included in the body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, res *pipeline.Result) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	body := errorResponse{Error: err.Error()}
	if res != nil {
		body.Warnings = res.Warnings
	}
	writeJSON(w, status, body)
}

// StatusFor returns the HTTP status used to report err.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, course.ErrDirectoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, course.ErrEmptyCorpus):
		return http.StatusUnprocessableEntity
	case errors.Is(err, render.ErrRender):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
