// Package api provides the HTTP handlers for the judge proxy and the
// question bank.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/quantsim/internal/bank"
	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/llm"
)

// maxBodyBytes bounds a judge request. Transcripts are short text.
const maxBodyBytes = 1 << 20

// Handler serves the public API.
type Handler struct {
	feedback *feedback.Service
	bank     *bank.Bank
	logger   *slog.Logger
}

// NewHandler creates a Handler. A nil logger uses slog.Default.
func NewHandler(svc *feedback.Service, b *bank.Bank, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{feedback: svc, bank: b, logger: logger}
}

// RegisterRoutes mounts the API under /api.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/judge", h.Judge)
		r.Get("/questions", h.ListQuestions)
		r.Get("/questions/{id}", h.GetQuestion)
	})
}

// Judge forwards a reasoning submission to the remote model.
func (h *Handler) Judge(w http.ResponseWriter, r *http.Request) {
	var req feedback.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ProblemText) == "" {
		Error(w, http.StatusBadRequest, "problem_text is required")
		return
	}

	ctx := r.Context()
	if id := r.Header.Get(feedback.SessionHeader); id != "" {
		ctx = llm.WithSessionID(ctx, id)
	}

	text, err := h.feedback.Generate(ctx, req)
	if err != nil {
		var cfgErr *feedback.ConfigError
		if errors.As(err, &cfgErr) {
			h.logger.ErrorContext(ctx, "judge not configured", "error", err)
		} else {
			h.logger.ErrorContext(ctx, "judge generation failed", "error", err, "multi_turn", req.MultiTurn())
		}
		JSON(w, http.StatusInternalServerError, feedback.Response{Error: err.Error()})
		return
	}

	JSON(w, http.StatusOK, feedback.Response{Feedback: text})
}

// ListQuestions returns the bank in order. Inline math that needs display
// mode is promoted unless ?raw=1 is given.
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("raw") == "1"
	qs := h.bank.All()
	if !raw {
		for i := range qs {
			qs[i] = displayQuestion(qs[i])
		}
	}
	JSON(w, http.StatusOK, qs)
}

// GetQuestion returns a single question by ID.
func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	q, _, ok := h.bank.ByID(chi.URLParam(r, "id"))
	if !ok {
		Error(w, http.StatusNotFound, "question not found")
		return
	}
	if r.URL.Query().Get("raw") != "1" {
		q = displayQuestion(q)
	}
	JSON(w, http.StatusOK, q)
}

func displayQuestion(q bank.Question) bank.Question {
	q.ProblemText = bank.PromoteDisplayMath(q.ProblemText)
	q.Hint = bank.PromoteDisplayMath(q.Hint)
	q.Solution = bank.PromoteDisplayMath(q.Solution)
	return q
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, feedback.Response{Error: message})
}
