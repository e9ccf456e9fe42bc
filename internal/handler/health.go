package handler

import (
	"net/http"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/database"
)

// HealthHandler reports process and database health.
type HealthHandler struct {
	db *database.DB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
