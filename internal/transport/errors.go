package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/domain/answer"
	"github.com/melodiq/melodiq/internal/domain/gamesession"
	"github.com/melodiq/melodiq/internal/domain/profile"
	"github.com/melodiq/melodiq/internal/domain/task"
	"github.com/melodiq/melodiq/internal/repository"
)

// Error codes in the uniform error body.
const (
	codeValidation   = "validation"
	codeUnauthorized = "unauthorized"
	codeForbidden    = "forbidden"
	codeNotFound     = "not_found"
	codeConflict     = "conflict"
	codeInternal     = "internal"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeDomainError maps the domain error variants to the HTTP taxonomy
// in one place. Internal errors are logged without request payloads.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, gamesession.ErrSessionExpired),
		errors.Is(err, gamesession.ErrInvalidInput),
		errors.Is(err, answer.ErrSessionInactive),
		errors.Is(err, answer.ErrInvalidAnswer),
		errors.Is(err, answer.ErrInvalidInput),
		errors.Is(err, task.ErrInvalidInput),
		errors.Is(err, catalog.ErrBadNote):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())

	case errors.Is(err, gamesession.ErrNotOwner):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())

	case errors.Is(err, gamesession.ErrSessionNotFound),
		errors.Is(err, task.ErrNoOpenTask),
		errors.Is(err, task.ErrNoSequences),
		errors.Is(err, answer.ErrTaskNotFound),
		errors.Is(err, profile.ErrProfileNotFound),
		errors.Is(err, catalog.ErrSequenceNotFound),
		errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())

	case errors.Is(err, answer.ErrTaskCompleted):
		writeError(w, http.StatusConflict, codeConflict, err.Error())

	default:
		logger.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
