package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/blog"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/middleware"
)

// BlogHandler handles public reads and editor writes for blog posts.
type BlogHandler struct {
	posts *blog.Manager
}

// NewBlogHandler creates a new blog handler.
func NewBlogHandler(posts *blog.Manager) *BlogHandler {
	return &BlogHandler{posts: posts}
}

// List handles GET /api/blog
// Public listing: drafts never appear here.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAll handles GET /api/editor/blog
// Editor listing: drafts included.
func (h *BlogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *BlogHandler) list(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	posts, err := h.posts.List(r.Context(), publishedOnly, limit, offset)
	if err != nil {
		log.Printf("failed to list posts: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	if posts == nil {
		posts = []*blog.Post{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"posts": posts,
		"count": len(posts),
	})
}

// GetBySlug handles GET /api/blog/{slug}
//
// Unpublished posts are hidden from public reads even when the slug is
// guessed correctly.
func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "missing slug")
		return
	}

	p, err := h.posts.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("failed to get post: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}

	if !p.Published {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"post": p})
}

// Create handles POST /api/editor/blog
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var p blog.Post
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	p.Author = actor.DisplayName
	p.AuthorID = actor.ID

	if err := h.posts.Create(r.Context(), &p); err != nil {
		if errors.Is(err, blog.ErrInvalidTitle) || errors.Is(err, blog.ErrInvalidSlug) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("failed to create post: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"post": &p})
}

// Update handles PATCH /api/editor/blog/{id}
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	var p blog.Post
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	p.ID = id

	if err := h.posts.Update(r.Context(), &p); err != nil {
		switch {
		case errors.Is(err, blog.ErrInvalidTitle), errors.Is(err, blog.ErrInvalidSlug):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, blog.ErrNotFound):
			writeError(w, http.StatusNotFound, "post not found")
		default:
			log.Printf("failed to update post: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to update post")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"post": &p})
}

// Delete handles DELETE /api/editor/blog/{id}
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	if err := h.posts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("failed to delete post: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RecordView handles POST /api/blog/{id}/views
func (h *BlogHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	if err := h.posts.RecordView(r.Context(), id); err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("failed to record view: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to record view")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike handles POST /api/blog/{id}/likes
func (h *BlogHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	liked, err := h.posts.ToggleLike(r.Context(), id, actor.ID)
	if err != nil {
		log.Printf("failed to toggle like: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}
