// Package api provides HTTP handlers for the interview API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/interviewsim/backend/internal/interview"
	"github.com/interviewsim/backend/internal/store"
)

// maxRequestBodySize bounds JSON request bodies (1MB).
const maxRequestBodySize = 1 << 20

// Handler provides common handler dependencies.
type Handler struct {
	svc      *interview.Service
	registry *interview.Registry
	repo     store.Repository
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(svc *interview.Service, registry *interview.Registry, repo store.Repository) *Handler {
	return &Handler{
		svc:      svc,
		registry: registry,
		repo:     repo,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a bounded JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
