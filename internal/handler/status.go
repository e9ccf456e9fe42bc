package handler

import (
	"net/http"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/config"
)

// statusHandler returns an HTTP handler reporting service identity.
func statusHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":     "oct4crypt",
			"version":     "0.1.0",
			"environment": cfg.Environment,
			"status":      "operational",
		})
	}
}
