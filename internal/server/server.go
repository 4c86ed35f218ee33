// Package server exposes the chat endpoint over HTTP. Business-logic
// failures (empty input, system not ready, retrieval or model errors) always
// degrade to a normal JSON response; only malformed transport input or a
// panic surfaces as an HTTP error.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"confchat/internal/answer"
)

// Answerer produces a grounded reply for a non-empty message.
type Answerer interface {
	Answer(ctx context.Context, message string) answer.Reply
}

// ChatRequest is the chat endpoint's request body.
type ChatRequest struct {
	Message string `json:"message"`
}

// Server handles chat requests. The composer handle is read-only after
// startup; concurrent requests share it without locking.
type Server struct {
	composer Answerer
	timeout  time.Duration
}

func New(composer Answerer, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Server{composer: composer, timeout: timeout}
}

// Router builds the HTTP routes with a catch-all recovery boundary.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/chat", s.handleChat)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	message := strings.TrimSpace(req.Message)

	if message == "" {
		slog.Warn("empty question received")
		writeJSON(w, answer.Reply{Answer: answer.EmptyQuestionAnswer, Lang: answer.LangUnknown, Suggestions: []string{}})
		return
	}

	if s.composer == nil {
		slog.Error("chat dependencies not initialized")
		lang := answer.DetectLanguage(message)
		writeJSON(w, answer.Reply{Answer: answer.NotReadyAnswer(lang), Lang: lang, Suggestions: []string{}})
		return
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	reply := s.composer.Answer(ctx, message)
	slog.Info("chat handled", "lang", reply.Lang, "suggestions", len(reply.Suggestions), "duration", time.Since(start))
	writeJSON(w, reply)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "err", err)
	}
}
