package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/guard"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/role"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/token"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/user"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// mockUserStore implements UserStore for testing.
type mockUserStore struct {
	getFunc func(ctx context.Context, id string) (*user.Record, error)
}

func (m *mockUserStore) Get(ctx context.Context, id string) (*user.Record, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, user.ErrNotFound
}

// okHandler echoes the attached user's role.
func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, ok := UserFrom(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"role": rec.Role.String()})
	})
}

func newTokens(t *testing.T) *token.Manager {
	t.Helper()
	tokens, err := token.NewManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return tokens
}

func mintFor(t *testing.T, tokens *token.Manager, rec *user.Record) string {
	t.Helper()
	signed, err := tokens.Mint(rec)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return signed
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	handler := RequireAuth(newTokens(t), &mockUserStore{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	handler := RequireAuth(newTokens(t), &mockUserStore{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	tokens := newTokens(t)
	signed := mintFor(t, tokens, &user.Record{ID: "ghost", Email: "g@x.dev", Role: role.Team})

	handler := RequireAuth(tokens, &mockUserStore{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestRequireAuth_DeactivatedUser(t *testing.T) {
	tokens := newTokens(t)
	signed := mintFor(t, tokens, &user.Record{ID: "u1", Email: "d@x.dev", Role: role.Team})

	store := &mockUserStore{getFunc: func(ctx context.Context, id string) (*user.Record, error) {
		return &user.Record{ID: id, Role: role.Team, IsActive: false}, nil
	}}
	handler := RequireAuth(tokens, store)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

// A token still claiming OWNER must not grant owner access once the
// directory has demoted the caller: the gateway trusts the directory,
// never the client-held role.
func TestRequireRole_StaleTokenRoleIgnored(t *testing.T) {
	tokens := newTokens(t)
	signed := mintFor(t, tokens, &user.Record{ID: "u1", Email: "o@x.dev", Role: role.Owner})

	store := &mockUserStore{getFunc: func(ctx context.Context, id string) (*user.Record, error) {
		return &user.Record{ID: id, Role: role.Team, IsActive: true}, nil
	}}

	chain := RequireAuth(tokens, store)(RequireRole(guard.Roles(role.Owner))(okHandler()))

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/users/u2", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403 for stale owner claim, got %d", rec.Code)
	}
}

func TestRequireRole_AllowsDirectoryRole(t *testing.T) {
	tokens := newTokens(t)
	// Token minted before a promotion; directory now says OWNER.
	signed := mintFor(t, tokens, &user.Record{ID: "u1", Email: "o@x.dev", Role: role.Guest})

	store := &mockUserStore{getFunc: func(ctx context.Context, id string) (*user.Record, error) {
		return &user.Record{ID: id, Role: role.Owner, IsActive: true}, nil
	}}

	chain := RequireAuth(tokens, store)(RequireRole(guard.Roles(role.Owner))(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["role"] != "OWNER" {
		t.Errorf("expected directory role OWNER attached, got %q", resp["role"])
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"valid", "Bearer abc123", "abc123", nil},
		{"missing", "", "", ErrMissingAuthHeader},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", ErrInvalidAuthScheme},
		{"empty token", "Bearer ", "", ErrEmptyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			got, err := ExtractBearerToken(req)
			if err != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected token %q, got %q", tt.want, got)
			}
		})
	}
}
