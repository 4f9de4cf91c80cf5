// Package server exposes the ratings and tip endpoints consumed by the web
// front end.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kamilbartko1/extraliga-sub000/internal/metrics"
	"github.com/kamilbartko1/extraliga-sub000/internal/rating"
	"github.com/kamilbartko1/extraliga-sub000/internal/tip"
)

// Provider supplies the data behind the API.
type Provider interface {
	Tables(ctx context.Context) (*rating.Tables, error)
	TodayTip(ctx context.Context) (*tip.Tip, error)
}

// Server routes API requests.
type Server struct {
	provider Provider
	router   *mux.Router
}

// New builds the router: /api/v1/tip, /api/v1/ratings, /healthz, /metrics.
func New(provider Provider) *Server {
	s := &Server{provider: provider, router: mux.NewRouter()}
	s.router.Use(s.recoverMiddleware)
	s.router.HandleFunc("/api/v1/tip", s.handleTip).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/ratings", s.handleRatings).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return s
}

// Handler returns the root handler for http.Server.
func (s *Server) Handler() http.Handler { return s.router }

type tipResponse struct {
	OK    bool     `json:"ok"`
	Tip   *tip.Tip `json:"tip"`
	Error string   `json:"error,omitempty"`
}

func (s *Server) handleTip(w http.ResponseWriter, r *http.Request) {
	t, err := s.provider.TodayTip(r.Context())
	if err != nil {
		slog.Warn("tip request failed", "error", err)
		writeJSON(w, "tip", http.StatusServiceUnavailable, tipResponse{OK: false, Error: "upstream unavailable"})
		return
	}
	// A nil tip is a valid "no tip today", not a failure.
	writeJSON(w, "tip", http.StatusOK, tipResponse{OK: true, Tip: t})
}

type ratingsResponse struct {
	OK            bool           `json:"ok"`
	TeamRatings   map[string]int `json:"teamRatings"`
	PlayerRatings map[string]int `json:"playerRatings"`
	Error         string         `json:"error,omitempty"`
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	tables, err := s.provider.Tables(r.Context())
	if err != nil {
		slog.Warn("ratings request failed", "error", err)
		writeJSON(w, "ratings", http.StatusServiceUnavailable, ratingsResponse{OK: false, Error: "upstream unavailable"})
		return
	}
	writeJSON(w, "ratings", http.StatusOK, ratingsResponse{
		OK:            true,
		TeamRatings:   tables.Teams,
		PlayerRatings: tables.Players,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, "healthz", http.StatusOK, map[string]string{"status": "ok"})
}

// recoverMiddleware converts panics into a structured 500 so a bad upstream
// shape can never take the process down.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("request panic", "path", r.URL.Path, "panic", rec)
				writeJSON(w, r.URL.Path, http.StatusInternalServerError,
					map[string]interface{}{"ok": false, "error": "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, route string, status int, body interface{}) {
	metrics.RecordHTTPRequest(route, strconv.Itoa(status))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("response encode failed", "route", route, "error", err)
	}
}
