// Package server exposes the HTTP surface consumed by the polling
// client. Every endpoint answers HTTP 200 with a strict JSON body; the
// client branches on the success field, never on status codes.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"daily-digest/internal/clock"
	"daily-digest/internal/daily"
)

// Orchestrator is the daily engine surface the handlers need.
type Orchestrator interface {
	Daily(ctx context.Context) any
	Preview(ctx context.Context, weekday clock.Weekday) any
	ResetCache() error
	ResetHistory() error
	Today() (clock.CivilDate, clock.Weekday)
}

type Server struct {
	orch  Orchestrator
	token string
	port  int
	srv   *http.Server
}

// New creates the server. An empty token leaves all endpoints open.
func New(orch Orchestrator, token string, port int) *Server {
	return &Server{orch: orch, token: token, port: port}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/daily", s.handleDaily)
	mux.HandleFunc("/preview", s.handlePreview)
	mux.HandleFunc("/reset-cache", s.handleResetCache)
	mux.HandleFunc("/reset-history", s.handleResetHistory)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/version", s.handleVersion)
	mux.HandleFunc("/schema", s.handleSchema)
	return mux
}

// Start blocks serving HTTP until Stop or a listener error. The write
// timeout leaves room for the full provider retry budget on an uncached
// first request.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("starting daily-digest server on :%d", s.port)
	return s.srv.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// authorized checks the shared-secret token from the query string or a
// bearer header.
func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		auth := r.Header.Get("Authorization")
		if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			token = strings.TrimSpace(auth[len("bearer "):])
		}
	}
	return token == s.token
}

func (s *Server) unauthorized(w http.ResponseWriter) {
	date, weekday := s.orch.Today()
	writeJSON(w, daily.NewError(date, weekday, "AUTH", "Unauthorized"))
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		s.unauthorized(w)
		return
	}
	writeJSON(w, s.orch.Daily(r.Context()))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		s.unauthorized(w)
		return
	}
	date, todayWeekday := s.orch.Today()
	day := r.URL.Query().Get("day")
	weekday := todayWeekday
	if day != "" {
		parsed, ok := clock.ParseWeekday(day)
		if !ok {
			writeJSON(w, daily.NewError(date, todayWeekday, "invalid_request", fmt.Sprintf("unsupported weekday: %s", day)))
			return
		}
		weekday = parsed
	}
	writeJSON(w, s.orch.Preview(r.Context(), weekday))
}

func (s *Server) handleResetCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		s.unauthorized(w)
		return
	}
	date, weekday := s.orch.Today()
	if err := s.orch.ResetCache(); err != nil {
		writeJSON(w, daily.NewError(date, weekday, "reset_failed", err.Error()))
		return
	}
	writeJSON(w, map[string]any{"ok": true, "cleared": true, "date_ist": date.String()})
}

func (s *Server) handleResetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		s.unauthorized(w)
		return
	}
	date, weekday := s.orch.Today()
	if err := s.orch.ResetHistory(); err != nil {
		writeJSON(w, daily.NewError(date, weekday, "reset_failed", err.Error()))
		return
	}
	writeJSON(w, map[string]any{"ok": true, "cleared": true, "date_ist": date.String()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"ok": true, "version": daily.Version})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	date, weekday := s.orch.Today()
	writeJSON(w, map[string]any{
		"ok":       true,
		"version":  daily.Version,
		"date_ist": date.String(),
		"weekday":  weekday,
	})
}

// handleSchema documents the response contract for client authors.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"success":             "boolean",
		"version":             "string",
		"date_ist":            "YYYY-MM-DD (IST)",
		"weekday":             "MONDAY..SUNDAY",
		"cache_hit":           "boolean",
		"birthdays_today":     []string{"string"},
		"anniversaries_today": []map[string]any{{"names": []string{"Name1", "Name2"}, "year": 2015, "years": 9}},
		"content_type":        "quote|joke|news|movies|riddle|prompt|emoji",
		"title":               "string",
		"message":             "string",
		"items":               "array (structure varies by content_type)",
		"metadata":            "object",
		"error_code":          "string (present only if success=false)",
		"error_message":       "string (present only if success=false)",
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response failed: %v", err)
	}
}
