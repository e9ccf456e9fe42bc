package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/identity"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/middleware"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/token"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/user"
)

// Directory resolves authenticated identities to directory records.
type Directory interface {
	Resolve(ctx context.Context, id, email, displayName string) (*user.Record, error)
}

// AuthHandler handles login and logout.
type AuthHandler struct {
	provider identity.Provider
	users    Directory
	tokens   *token.Manager
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(provider identity.Provider, users Directory, tokens *token.Manager) *AuthHandler {
	return &AuthHandler{provider: provider, users: users, tokens: tokens}
}

// loginRequest is the JSON request for a login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the signed token and the directory record.
type loginResponse struct {
	Token string       `json:"token"`
	User  *user.Record `json:"user"`
}

// Login handles POST /api/auth/login
//
// The role in the response comes from the directory, never from the
// identity provider. First-time logins get a GUEST record created for
// them before the token is minted.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ident, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, "invalid email address")
		case errors.Is(err, identity.ErrNotFound), errors.Is(err, identity.ErrBadCredential):
			writeError(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, identity.ErrRateLimited):
			writeError(w, http.StatusTooManyRequests, "too many failed attempts, try again later")
		default:
			log.Printf("sign-in failed: %v", err)
			writeError(w, http.StatusInternalServerError, "sign-in failed")
		}
		return
	}

	rec, err := h.users.Resolve(r.Context(), ident.ID, ident.Email, ident.Name)
	if err != nil {
		log.Printf("failed to resolve user: %v", err)
		writeError(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	signed, err := h.tokens.Mint(rec)
	if err != nil {
		log.Printf("failed to mint token: %v", err)
		writeError(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: signed, User: rec})
}

// Logout handles POST /api/auth/logout
//
// The response is 200 regardless of provider outcome: the client clears
// its session either way, so a remote failure must not block sign-out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.SignOut(r.Context()); err != nil {
		log.Printf("provider sign-out failed: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Me handles GET /api/auth/me
//
// The record comes from the request context, freshly re-read from the
// directory, so a stale role claim in the token is never echoed back.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	rec, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": rec})
}
