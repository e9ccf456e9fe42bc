package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/middleware"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/user"
)

// ProfileHandler handles self-service profile updates.
type ProfileHandler struct {
	users *user.Manager
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(users *user.Manager) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// updateProfileRequest carries the mutable profile fields. Pointers
// distinguish "leave unchanged" from "set to empty".
type updateProfileRequest struct {
	DisplayName *string   `json:"displayName"`
	PhotoURL    *string   `json:"photoUrl"`
	Bio         *string   `json:"bio"`
	Skills      *[]string `json:"skills"`
	GitHub      *string   `json:"github"`
	LinkedIn    *string   `json:"linkedin"`
	Twitter     *string   `json:"twitter"`
	Website     *string   `json:"website"`
	Location    *string   `json:"location"`
}

// Update handles PATCH /api/profile
//
// The caller can only edit their own record. Role and activation are
// not touchable here; those go through the admin gateway.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	rec := *actor
	if req.DisplayName != nil {
		rec.DisplayName = *req.DisplayName
	}
	if req.PhotoURL != nil {
		rec.PhotoURL = *req.PhotoURL
	}
	if req.Bio != nil {
		rec.Bio = *req.Bio
	}
	if req.Skills != nil {
		rec.Skills = *req.Skills
	}
	if req.GitHub != nil {
		rec.GitHub = *req.GitHub
	}
	if req.LinkedIn != nil {
		rec.LinkedIn = *req.LinkedIn
	}
	if req.Twitter != nil {
		rec.Twitter = *req.Twitter
	}
	if req.Website != nil {
		rec.Website = *req.Website
	}
	if req.Location != nil {
		rec.Location = *req.Location
	}

	if err := h.users.UpdateProfile(r.Context(), &rec); err != nil {
		switch {
		case errors.Is(err, user.ErrGuest):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, user.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			log.Printf("failed to update profile: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to update profile")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": &rec})
}
