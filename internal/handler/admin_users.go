package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/audit"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/middleware"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/role"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/user"
)

// AdminUsersHandler handles admin operations on the user directory.
// Every operation here runs behind the OWNER role requirement and acts
// on behalf of the authenticated caller, never a role carried in a token.
type AdminUsersHandler struct {
	users *user.Manager
	audit *audit.Manager
}

// NewAdminUsersHandler creates a new admin users handler.
func NewAdminUsersHandler(users *user.Manager, auditLog *audit.Manager) *AdminUsersHandler {
	return &AdminUsersHandler{users: users, audit: auditLog}
}

// List handles GET /api/admin/users
func (h *AdminUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.users.List(r.Context())
	if err != nil {
		log.Printf("failed to list users: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	if records == nil {
		records = []*user.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": records,
		"count": len(records),
	})
}

// setRoleRequest is the JSON request for a role change.
type setRoleRequest struct {
	Role string `json:"role"`
}

// SetRole handles PATCH /api/admin/users/{id}
func (h *AdminUsersHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID := r.PathValue("id")
	if targetID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID")
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	newRole, err := role.Parse(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if err := h.users.SetRole(r.Context(), actor.ID, targetID, newRole); err != nil {
		switch {
		case errors.Is(err, user.ErrSelfChange), errors.Is(err, user.ErrGuest):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, user.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			log.Printf("failed to set role: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to set role")
		}
		return
	}

	if err := h.audit.Record(r.Context(), audit.ActionRoleChange, targetID, actor.ID, "role set to "+newRole.String()); err != nil {
		log.Printf("failed to record audit entry: %v", err)
	}

	rec, err := h.users.Get(r.Context(), targetID)
	if err != nil {
		log.Printf("failed to get updated user: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": rec})
}

// Delete handles DELETE /api/admin/users/{id}
func (h *AdminUsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID := r.PathValue("id")
	if targetID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID")
		return
	}

	if err := h.users.Delete(r.Context(), actor.ID, targetID); err != nil {
		switch {
		case errors.Is(err, user.ErrSelfChange):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, user.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			log.Printf("failed to delete user: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}

	if err := h.audit.Record(r.Context(), audit.ActionUserDelete, targetID, actor.ID, ""); err != nil {
		log.Printf("failed to record audit entry: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AuditLog handles GET /api/admin/audit
func (h *AdminUsersHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("failed to list audit entries: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list audit entries")
		return
	}

	if entries == nil {
		entries = []*audit.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"logs":  entries,
		"count": len(entries),
	})
}
