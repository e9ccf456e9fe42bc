package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/middleware"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/project"
)

// ProjectsHandler handles public reads and editor writes for projects.
type ProjectsHandler struct {
	projects *project.Manager
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(projects *project.Manager) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

// List handles GET /api/projects
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAll handles GET /api/editor/projects
func (h *ProjectsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *ProjectsHandler) list(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	projects, err := h.projects.List(r.Context(), publishedOnly, limit, offset)
	if err != nil {
		log.Printf("failed to list projects: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	if projects == nil {
		projects = []*project.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"projects": projects,
		"count":    len(projects),
	})
}

// Get handles GET /api/projects/{id}
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	p, err := h.projects.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		log.Printf("failed to get project: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get project")
		return
	}

	if p.Status != project.StatusPublished {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"project": p})
}

// Create handles POST /api/editor/projects
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var p project.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	p.Author = actor.DisplayName
	p.AuthorID = actor.ID

	if err := h.projects.Create(r.Context(), &p); err != nil {
		if errors.Is(err, project.ErrInvalidTitle) || errors.Is(err, project.ErrInvalidStatus) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("failed to create project: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"project": &p})
}

// Update handles PATCH /api/editor/projects/{id}
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	var p project.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	p.ID = id

	if err := h.projects.Update(r.Context(), &p); err != nil {
		switch {
		case errors.Is(err, project.ErrInvalidTitle), errors.Is(err, project.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, project.ErrNotFound):
			writeError(w, http.StatusNotFound, "project not found")
		default:
			log.Printf("failed to update project: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to update project")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"project": &p})
}

// Delete handles DELETE /api/editor/projects/{id}
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		if errors.Is(err, project.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		log.Printf("failed to delete project: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
