package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/app"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/middleware"
)

// AppsHandler handles public reads and editor writes for apps.
type AppsHandler struct {
	apps *app.Manager
}

// NewAppsHandler creates a new apps handler.
func NewAppsHandler(apps *app.Manager) *AppsHandler {
	return &AppsHandler{apps: apps}
}

// List handles GET /api/apps
func (h *AppsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAll handles GET /api/editor/apps
func (h *AppsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *AppsHandler) list(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	apps, err := h.apps.List(r.Context(), publishedOnly, limit, offset)
	if err != nil {
		log.Printf("failed to list apps: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list apps")
		return
	}

	if apps == nil {
		apps = []*app.App{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"apps":  apps,
		"count": len(apps),
	})
}

// Get handles GET /api/apps/{id}
func (h *AppsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid app ID")
		return
	}

	a, err := h.apps.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			writeError(w, http.StatusNotFound, "app not found")
			return
		}
		log.Printf("failed to get app: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get app")
		return
	}

	if a.Status != app.StatusPublished {
		writeError(w, http.StatusNotFound, "app not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"app": a})
}

// Create handles POST /api/editor/apps
func (h *AppsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var a app.App
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	a.Author = actor.DisplayName
	a.AuthorID = actor.ID

	if err := h.apps.Create(r.Context(), &a); err != nil {
		if errors.Is(err, app.ErrInvalidName) || errors.Is(err, app.ErrInvalidStatus) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("failed to create app: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create app")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"app": &a})
}

// Update handles PATCH /api/editor/apps/{id}
func (h *AppsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid app ID")
		return
	}

	var a app.App
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	a.ID = id

	if err := h.apps.Update(r.Context(), &a); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidName), errors.Is(err, app.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrNotFound):
			writeError(w, http.StatusNotFound, "app not found")
		default:
			log.Printf("failed to update app: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to update app")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"app": &a})
}

// Delete handles DELETE /api/editor/apps/{id}
func (h *AppsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid app ID")
		return
	}

	if err := h.apps.Delete(r.Context(), id); err != nil {
		if errors.Is(err, app.ErrNotFound) {
			writeError(w, http.StatusNotFound, "app not found")
			return
		}
		log.Printf("failed to delete app: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete app")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
