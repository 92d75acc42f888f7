// Package api provides the HTTP server for FitCoach.
// It exposes the chat endpoint the web front-end talks to, plus the
// activity (streaks, XP, badges, goals) read API.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/app/chat"
	"github.com/fitcoach-app/fitcoach/internal/app/ledger"
	"github.com/fitcoach-app/fitcoach/internal/health"
)

// Server is the FitCoach HTTP API server.
type Server struct {
	chat           *chat.Service
	ledger         *ledger.Service
	checker        *health.Checker
	corsOrigin     string
	metricsEnabled bool
	log            zerolog.Logger
}

// NewServer creates a new API server.
func NewServer(chatSvc *chat.Service, led *ledger.Service, log zerolog.Logger) *Server {
	return &Server{chat: chatSvc, ledger: led, corsOrigin: "*", log: log}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthChecker sets the background health checker surfaced at /health.
func (s *Server) SetHealthChecker(c *health.Checker) { s.checker = c }

// SetCORSOrigin restricts CORS to the given origin. Default is "*".
func (s *Server) SetCORSOrigin(origin string) {
	if origin != "" {
		s.corsOrigin = origin
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(s.corsMiddleware)
	r.Use(s.logMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/messages", s.handleMessages)
		r.Post("/session/reset", s.handleSessionReset)

		r.Route("/activity", func(r chi.Router) {
			r.Get("/", s.handleActivity)
			r.Get("/badges", s.handleBadges)
			r.Get("/history", s.handleHistory)
			r.Get("/notifications", s.handleNotifications)
			r.Post("/notifications/{id}/shown", s.handleNotificationShown)
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.checker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	report := s.checker.Report()
	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
