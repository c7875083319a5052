package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map/internal/adapter/leaflet"
	"github.com/couchcryptid/quake-map/internal/mapview"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PageRenderer turns a spec into an HTML page.
type PageRenderer interface {
	RenderHTML(spec mapview.Spec) ([]byte, error)
}

// published is an immutable snapshot of the latest map.
type published struct {
	page        []byte
	spec        []byte
	generatedAt time.Time
}

// Server exposes the rendered map plus health, readiness, and metrics endpoints.
// It implements pipeline.Publisher.
type Server struct {
	httpServer *http.Server
	renderer   PageRenderer
	logger     *slog.Logger
	current    atomic.Pointer[published]
}

// NewServer creates an HTTP server with /, /map.json, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, renderer PageRenderer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		renderer: renderer,
		logger:   logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /map.json", s.handleSpec)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(s))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Name identifies the sink in logs and metrics.
func (s *Server) Name() string { return "http" }

// Publish renders spec and swaps it in as the page served from /.
func (s *Server) Publish(_ context.Context, spec mapview.Spec) error {
	page, err := s.renderer.RenderHTML(spec)
	if err != nil {
		return err
	}
	js, err := leaflet.RenderJSON(spec)
	if err != nil {
		return err
	}
	s.current.Store(&published{page: page, spec: js, generatedAt: spec.GeneratedAt})
	s.logger.Info("map published", "addr", s.httpServer.Addr, "markers", spec.MarkerCount())
	return nil
}

// CheckReadiness reports ready once a map has been published.
func (s *Server) CheckReadiness(_ context.Context) error {
	if s.current.Load() == nil {
		return errors.New("no map has been published yet")
	}
	return nil
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	s.writeSnapshot(w, "text/html; charset=utf-8", func(p *published) []byte { return p.page })
}

func (s *Server) handleSpec(w http.ResponseWriter, _ *http.Request) {
	s.writeSnapshot(w, "application/json", func(p *published) []byte { return p.spec })
}

func (s *Server) writeSnapshot(w http.ResponseWriter, contentType string, body func(*published) []byte) {
	p := s.current.Load()
	if p == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "map not rendered yet"})
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	if !p.generatedAt.IsZero() {
		w.Header().Set("Last-Modified", p.generatedAt.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body(p))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
