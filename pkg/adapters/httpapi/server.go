// Package httpapi exposes the wizard over HTTP: a chat endpoint, session
// inspection and teardown, and an SSE stream of step changes.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"log/slog"

	"github.com/go-chi/chi/v5"

	voltwiz "github.com/voltwiz/voltwiz"
	"github.com/voltwiz/voltwiz/internal/logging"
	"github.com/voltwiz/voltwiz/pkg/domain"
)

// maxMessageBytes bounds a single chat message.
const maxMessageBytes = 8 << 10

// Engine is the wizard surface the HTTP adapter drives.
type Engine interface {
	ProcessMessage(ctx context.Context, sessionID, message string) (*domain.TurnResponse, error)
	SessionStatus(ctx context.Context, sessionID string) (*voltwiz.Status, error)
	ClearSession(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]string, error)
}

// Server routes HTTP requests to an Engine.
type Server struct {
	engine  Engine
	streams *StreamManager
	logger  *slog.Logger
	version string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithVersion sets the version string reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithStreams attaches a shared StreamManager. Pass the same manager whose
// Hooks are registered on the wizard so step changes reach SSE clients.
func WithStreams(streams *StreamManager) Option {
	return func(s *Server) { s.streams = streams }
}

// NewHandler builds the full HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		engine:  engine,
		streams: NewStreamManager(),
		logger:  logging.NewNop(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Post("/chat", s.postChat)
	r.Get("/sessions", s.listSessions)
	r.Get("/sessions/{sessionID}", s.getSession)
	r.Delete("/sessions/{sessionID}", s.deleteSession)
	r.Get("/events", s.subscribeEvents)
	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ChatRequest is the POST /chat body.
type ChatRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
}

func (s *Server) postChat(w http.ResponseWriter, r *http.Request) {
	var body ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes*2)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("chat: invalid request body", "err", err)
		return
	}

	message := strings.TrimSpace(body.Message)
	if message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if len(message) > maxMessageBytes || strings.ContainsRune(message, 0) {
		http.Error(w, "message rejected", http.StatusBadRequest)
		s.logger.Warn("chat: message rejected", "size", len(message))
		return
	}

	resp, err := s.engine.ProcessMessage(r.Context(), body.SessionID, message)
	if err != nil {
		http.Error(w, fmt.Sprintf("processing error: %v", err), http.StatusInternalServerError)
		s.logger.Error("chat: processing failed", "session_id", body.SessionID, "err", err)
		return
	}
	writeJSON(w, s.logger, resp)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.engine.Sessions(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("list error: %v", err), http.StatusInternalServerError)
		s.logger.Error("sessions: list failed", "err", err)
		return
	}
	writeJSON(w, s.logger, map[string]any{"sessions": ids})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	status, err := s.engine.SessionStatus(r.Context(), sessionID)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("status error: %v", err), http.StatusInternalServerError)
		s.logger.Error("sessions: status failed", "session_id", sessionID, "err", err)
		return
	}
	writeJSON(w, s.logger, status)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.engine.ClearSession(r.Context(), sessionID); err != nil {
		http.Error(w, fmt.Sprintf("clear error: %v", err), http.StatusInternalServerError)
		s.logger.Error("sessions: clear failed", "session_id", sessionID, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "voltwiz-http",
		"version": s.version,
	})
}

// subscribeEvents streams step-change events for one session as SSE.
func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "session_id", sessionID)
			return
		case msg, open := <-ch:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: step\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
