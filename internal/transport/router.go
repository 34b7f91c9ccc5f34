package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/melodiq/melodiq/internal/metrics"
)

// NewRouter assembles the HTTP surface: open health and metrics
// endpoints plus the authenticated game routes. An empty apiKey leaves
// the bearer check disabled; profile identity is always required on
// game routes.
func NewRouter(h *Handler, apiKey string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(apiKey))
		r.Use(ProfileIdentity)

		r.Post("/profiles/{id}/sessions", h.StartSession)
		r.Post("/sessions/{id}/refresh", h.RefreshSession)
		r.Delete("/sessions/{id}", h.EndSession)

		r.Post("/profiles/{id}/tasks/next", h.NextTask)
		r.Get("/profiles/{id}/tasks/current", h.CurrentTask)
		r.Post("/profiles/{id}/tasks/{sequenceId}/submit", h.SubmitAnswer)
	})

	return r
}
