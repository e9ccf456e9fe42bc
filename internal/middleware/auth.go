// Package middleware provides HTTP middleware for the oct4crypt API.
package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/guard"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/token"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/user"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserContextKey is the context key for the authenticated user record.
const UserContextKey contextKey = "user"

// UserFrom retrieves the authenticated user from the request context.
// Returns the record and true if found, nil and false otherwise.
func UserFrom(ctx context.Context) (*user.Record, bool) {
	rec, ok := ctx.Value(UserContextKey).(*user.Record)
	return rec, ok
}

// UserStore is the directory lookup the middleware needs.
type UserStore interface {
	Get(ctx context.Context, id string) (*user.Record, error)
}

// RequireAuth returns middleware that authenticates requests.
//
// It verifies the bearer token, then re-reads the caller's record from
// the user directory and attaches that record to the request. The role
// claim inside the token is a client-side cache and is deliberately
// ignored: the directory is the authority, so a role change made by
// another process takes effect on the caller's very next request.
//
// Error responses:
//   - 401 Unauthorized: missing or malformed Authorization header
//   - 403 Forbidden: invalid token, unknown user, or deactivated account
//   - 500 Internal Server Error: directory error
func RequireAuth(tokens *token.Manager, users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := ExtractBearerToken(r)
			if err != nil {
				WriteUnauthorized(w)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				log.Printf("token verification failed: %v", err)
				WriteForbidden(w)
				return
			}

			rec, err := users.Get(r.Context(), claims.UserID())
			if err != nil {
				if errors.Is(err, user.ErrNotFound) {
					WriteForbidden(w)
					return
				}
				WriteJSONError(w, http.StatusInternalServerError, "internal error", "server_error")
				return
			}

			if !rec.IsActive {
				WriteForbidden(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, rec)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware enforcing a route requirement against
// the directory-held role attached by RequireAuth.
func RequireRole(req guard.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec, ok := UserFrom(r.Context())
			if !ok {
				WriteUnauthorized(w)
				return
			}
			if !req.Allows(rec.Role) {
				WriteForbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
