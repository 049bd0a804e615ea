// Package server exposes the calculator over HTTP. Every request is
// computed from the share-link query contract and the configured
// defaults; the server keeps no per-user state.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rustyeddy/compound/compound"
	"github.com/rustyeddy/compound/controller"
	"github.com/rustyeddy/compound/internal/id"
	"github.com/rustyeddy/compound/internal/metrics"
	"github.com/rustyeddy/compound/journal"
	"github.com/rustyeddy/compound/params"
)

const RequestIDHeader = "X-Request-ID"

type Server struct {
	Addr     string
	BaseURL  string
	Defaults params.Parameters

	log      *zap.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	started  time.Time
}

// New creates a server. reg receives the calculator's collectors and is
// served on /metrics; pass prometheus.NewRegistry() in tests.
func New(addr, baseURL string, defaults params.Parameters, log *zap.Logger, reg *prometheus.Registry) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Server{
		Addr:     addr,
		BaseURL:  baseURL,
		Defaults: defaults,
		log:      log,
		metrics:  metrics.New(reg),
		gatherer: reg,
		started:  time.Now(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/compute", s.handleCompute)
	mux.HandleFunc("/api/share", s.handleShare)
	mux.HandleFunc("/trades.csv", s.handleTradesCSV)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return s.withRequestLog(mux)
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info("server listening", zap.String("addr", s.Addr), zap.String("base_url", s.BaseURL))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "listen")
	}
	return nil
}

// ComputeResponse is the body of /api/compute.
type ComputeResponse struct {
	Params   params.Parameters `json:"params"`
	ShareURL string            `json:"share_url"`
	compound.Outcome
}

type ShareResponse struct {
	URL string `json:"url"`
}

func (s *Server) controllerFor(r *http.Request) (*controller.Controller, error) {
	c, err := controller.New(s.Defaults,
		controller.WithLogger(s.log.With(zap.String("request_id", requestID(r)))),
		controller.WithMetrics(s.metrics),
	)
	if err != nil {
		return nil, err
	}
	c.Restore(r.URL.RawQuery)
	return c, nil
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	c, err := s.controllerFor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap := c.Snapshot()
	if snap.Outcome.Overflowed() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": "trajectory exceeds floating-point range",
		})
		return
	}
	writeJSON(w, http.StatusOK, ComputeResponse{
		Params:   snap.Params,
		ShareURL: c.ShareURL(s.BaseURL),
		Outcome:  snap.Outcome,
	})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	c, err := s.controllerFor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ShareResponse{URL: c.ShareURL(s.BaseURL)})
}

func (s *Server) handleTradesCSV(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	c, err := s.controllerFor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trades.csv"`)
	j, err := journal.NewCSV(w)
	if err == nil {
		err = journal.Write(j, c.Snapshot().Outcome.History)
	}
	if err != nil {
		s.log.Warn("write trades csv", zap.String("request_id", requestID(r)), zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", zap.String("request_id", requestID(r)), zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

var routes = map[string]bool{
	"/api/compute": true,
	"/api/share":   true,
	"/trades.csv":  true,
	"/healthz":     true,
	"/metrics":     true,
}

// routeLabel keeps the metric's path label bounded.
func routeLabel(path string) string {
	if routes[path] {
		return path
	}
	return "other"
}

type ctxKey struct{}

func requestID(r *http.Request) string {
	if v, ok := r.Context().Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := id.OrNew(r.Header.Get(RequestIDHeader))
		w.Header().Set(RequestIDHeader, rid)
		r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, rid))

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.metrics.HTTPRequests.WithLabelValues(routeLabel(r.URL.Path), strconv.Itoa(rec.code)).Inc()
		s.log.Info("request",
			zap.String("request_id", rid),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.code),
			zap.Duration("elapsed", time.Since(start)))
	})
}
