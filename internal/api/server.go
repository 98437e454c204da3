// Package api serves the dashboard over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourorg/thbill-risk-dashboard/internal/derive"
	"github.com/yourorg/thbill-risk-dashboard/internal/present"
)

// Version is reported by /health and /status.
const Version = "1.0.0"

// Source is the board the API reads from.
type Source interface {
	View() present.View
	Derived() *derive.Dashboard
	Status() present.Status
}

// Options configures the HTTP surface.
type Options struct {
	// RateLimitRPS limits /api requests; zero disables limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Registry backs /metrics and the request instrumentation; nil disables both
	Registry *prometheus.Registry

	// Config is echoed by /status
	Config map[string]any
}

// Server holds the handlers.
type Server struct {
	source  Source
	opts    Options
	limiter *rate.Limiter
	started time.Time

	metrics  http.Handler
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewServer creates the API server.
func NewServer(source Source, opts Options) *Server {
	s := &Server{
		source:  source,
		opts:    opts,
		started: time.Now(),
	}
	if opts.RateLimitRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), max(opts.RateLimitBurst, 1))
		logrus.Infof("Rate limiting initialized: %v req/s, burst: %d", opts.RateLimitRPS, opts.RateLimitBurst)
	}
	if opts.Registry != nil {
		s.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "thbill_http_requests_total",
			Help: "HTTP requests by handler, code and method",
		}, []string{"handler", "code", "method"})
		s.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "thbill_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler", "code", "method"})
		opts.Registry.MustRegister(s.requests, s.duration)
		s.metrics = promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})
	}
	return s
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/dashboard", s.instrument("dashboard", s.limit(s.handleDashboard)))
	mux.Handle("/api/derived", s.instrument("derived", s.limit(s.handleDerived)))
	mux.Handle("/health", s.instrument("health", http.HandlerFunc(s.handleHealth)))
	mux.Handle("/status", s.instrument("status", http.HandlerFunc(s.handleStatus)))
	mux.Handle("/metrics", http.HandlerFunc(s.handleMetrics))
	return mux
}

func (s *Server) instrument(name string, h http.Handler) http.Handler {
	if s.requests == nil {
		return h
	}
	labels := prometheus.Labels{"handler": name}
	return promhttp.InstrumentHandlerDuration(s.duration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(s.requests.MustCurryWith(labels), h))
}

func (s *Server) limit(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		if s.limiter != nil && !s.limiter.Allow() {
			errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		next(w, r)
	})
}

// handleDashboard returns the formatted board.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.source.View())
}

// handleDerived returns the raw derivation behind the last good render.
func (s *Server) handleDerived(w http.ResponseWriter, r *http.Request) {
	d := s.source.Derived()
	if d == nil {
		errorResponse(w, http.StatusServiceUnavailable, "No successful refresh yet")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleHealth is a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatus provides detailed service status information
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	board := s.source.Status()
	state := "starting"
	switch {
	case board.LastError != "":
		state = "degraded"
	case board.Ready:
		state = "operational"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        state,
		"uptime":        time.Since(s.started).String(),
		"version":       Version,
		"refresh":       board,
		"configuration": s.opts.Config,
	})
}

// handleMetrics exposes Prometheus metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		http.Error(w, "Metrics disabled", http.StatusServiceUnavailable)
		return
	}
	s.metrics.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("Failed to encode response")
	}
}

func errorResponse(w http.ResponseWriter, code int, msg string) {
	logrus.WithField("code", code).Debug(msg)
	writeJSON(w, code, map[string]string{"error": msg})
}
