package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterHealth mounts the health endpoint.
func (h *Handler) RegisterHealth(r chi.Router) {
	r.Get("/healthz", h.Health)
}

// Health reports process liveness and database connectivity.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	status := http.StatusOK
	if err := h.repo.Ping(r.Context()); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	JSON(w, status, map[string]string{
		"status":   "ok",
		"database": dbStatus,
	})
}
