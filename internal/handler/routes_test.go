package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/app"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/audit"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/blog"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/config"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/contact"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/database"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/identity"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/project"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/role"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/token"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/user"
)

func setupRouter(t *testing.T) (*http.ServeMux, sqlmock.Sqlmock, *token.Manager) {
	t.Helper()
	sqldb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { sqldb.Close() })

	db := &database.DB{DB: sqldb}
	tokens, err := token.NewManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}

	deps := Deps{
		Config:   &config.Config{Environment: "development"},
		DB:       db,
		Tokens:   tokens,
		Provider: identity.NewPasswordProvider(identity.NewDatastore(sqldb)),
		Users:    user.NewManager(user.NewDatastore(sqldb)),
		Audit:    audit.NewManager(audit.NewDatastore(sqldb)),
		Messages: contact.NewManager(contact.NewDatastore(sqldb)),
		Posts:    blog.NewManager(blog.NewDatastore(sqldb)),
		Projects: project.NewManager(project.NewDatastore(sqldb)),
		Apps:     app.NewManager(app.NewDatastore(sqldb)),
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, deps)
	return mux, mock, tokens
}

func mintFor(t *testing.T, tokens *token.Manager, id string, r role.Role) string {
	t.Helper()
	signed, err := tokens.Mint(&user.Record{
		ID: id, Email: id + "@example.com", DisplayName: id, Role: r, IsActive: true,
	})
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return signed
}

// A token minted while the caller was OWNER must not open the admin
// gateway once the directory says otherwise. The directory is re-read
// on every request; the token's role claim is ignored.
func TestAdminGateway_StaleOwnerTokenDenied(t *testing.T) {
	mux, mock, tokens := setupRouter(t)

	signed := mintFor(t, tokens, "uid-1", role.Owner)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("uid-1").
		WillReturnRows(userRows("uid-1", role.Team))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403 for demoted caller, got %d", rec.Code)
	}
}

// The converse: a stale GUEST token held by a caller the directory has
// since promoted to OWNER opens the gateway.
func TestAdminGateway_PromotedCallerAllowed(t *testing.T) {
	mux, mock, tokens := setupRouter(t)

	signed := mintFor(t, tokens, "uid-1", role.Guest)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("uid-1").
		WillReturnRows(userRows("uid-1", role.Owner))
	mock.ExpectQuery(`SELECT .+ FROM users ORDER BY joined_at DESC`).
		WillReturnRows(userRows("uid-1", role.Owner))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 for promoted caller, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestEditorRoutes_GuestDenied(t *testing.T) {
	mux, mock, tokens := setupRouter(t)

	signed := mintFor(t, tokens, "uid-1", role.Guest)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("uid-1").
		WillReturnRows(userRows("uid-1", role.Guest))

	req := httptest.NewRequest(http.MethodGet, "/api/editor/blog", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403 for guest on editor route, got %d", rec.Code)
	}
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	mux, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 without a token, got %d", rec.Code)
	}
}

func TestContactForm_AcceptedReturnsOK(t *testing.T) {
	mux, mock, _ := setupRouter(t)

	mock.ExpectQuery(`INSERT INTO contact_messages`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	payload, _ := json.Marshal(map[string]string{
		"name":    "Alice",
		"email":   "alice@example.com",
		"subject": "Hello",
		"message": "This message is long enough to pass validation.",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 for accepted submission, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestContactForm_ValidationErrors(t *testing.T) {
	mux, _, _ := setupRouter(t)

	payload, _ := json.Marshal(map[string]string{
		"name":    "Alice",
		"email":   "not-an-email",
		"subject": "Hi",
		"message": "short",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var response struct {
		Fields []contact.FieldError `json:"fields"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	reasons := map[string]string{}
	for _, fe := range response.Fields {
		reasons[fe.Field] = fe.Reason
	}
	if reasons["email"] != contact.ReasonInvalidFormat {
		t.Errorf("expected email invalid_format, got %q", reasons["email"])
	}
	if reasons["message"] != contact.ReasonTooShort {
		t.Errorf("expected message too_short, got %q", reasons["message"])
	}
}

func TestPublicBlogList_NoAuthRequired(t *testing.T) {
	mux, mock, _ := setupRouter(t)

	mock.ExpectQuery(`SELECT .+ FROM blog_posts WHERE published = true`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "slug", "content", "excerpt", "author", "author_id",
			"cover_image", "tags", "category", "published", "views", "likes",
			"created_at", "updated_at",
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/blog", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
