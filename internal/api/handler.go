// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kairos-interview/backend/internal/gateway"
	"github.com/kairos-interview/backend/internal/service"
	"github.com/kairos-interview/backend/internal/speech"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	interviews *service.InterviewService
	chat       *service.ChatService
	recognizer speech.Recognizer
	logger     *slog.Logger
}

// NewHandler creates a Handler with the given dependencies. The recognizer
// may be nil when no speech-capable provider is configured.
func NewHandler(interviews *service.InterviewService, chat *service.ChatService, recognizer speech.Recognizer, logger *slog.Logger) *Handler {
	return &Handler{
		interviews: interviews,
		chat:       chat,
		recognizer: recognizer,
		logger:     logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into v. Returns false after writing a
// 400 response when the body is malformed (caller should return).
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// handleServiceError maps known service errors to HTTP responses. Returns
// true if an error was handled (caller should return).
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, service.ErrSessionNotFound) {
		respondError(w, http.StatusNotFound, "session not found")
		return true
	}
	var callErr *gateway.CallError
	if errors.As(err, &callErr) {
		respondError(w, http.StatusBadGateway, "model unavailable")
		return true
	}
	h.logger.Error("service error", "error", err)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}
