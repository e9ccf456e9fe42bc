package handler

import (
	"net/http"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/app"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/audit"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/blog"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/config"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/contact"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/database"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/guard"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/identity"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/middleware"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/project"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/role"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/token"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/user"
)

// Deps carries the wired managers the routes need.
type Deps struct {
	Config   *config.Config
	DB       *database.DB
	Tokens   *token.Manager
	Provider identity.Provider
	Users    *user.Manager
	Audit    *audit.Manager
	Messages *contact.Manager
	Posts    *blog.Manager
	Projects *project.Manager
	Apps     *app.Manager
}

// RegisterRoutes registers all HTTP routes with the provided mux.
//
// Three tiers mirror the view requirements: public, editor (OWNER and
// TEAM), and admin (OWNER only). Both privileged tiers re-read the
// caller's directory record on every request, so a role change takes
// effect immediately regardless of what the bearer token claims.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	authed := middleware.RequireAuth(d.Tokens, d.Users)
	editor := middleware.RequireRole(guard.Roles(role.Owner, role.Team))
	admin := middleware.RequireRole(guard.Roles(role.Owner))

	health := NewHealthHandler(d.DB)
	auth := NewAuthHandler(d.Provider, d.Users, d.Tokens)
	profile := NewProfileHandler(d.Users)
	adminUsers := NewAdminUsersHandler(d.Users, d.Audit)
	messages := NewMessagesHandler(d.Messages, d.Audit)
	posts := NewBlogHandler(d.Posts)
	projects := NewProjectsHandler(d.Projects)
	apps := NewAppsHandler(d.Apps)

	// Health and status (no auth required)
	mux.HandleFunc("GET /health", health.Check)
	mux.HandleFunc("GET /api/v1/status", statusHandler(d.Config))

	// Authentication
	mux.HandleFunc("POST /api/auth/login", auth.Login)
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.Handle("GET /api/auth/me", authed(http.HandlerFunc(auth.Me)))

	// Profile (any authenticated role)
	mux.Handle("PATCH /api/profile", authed(http.HandlerFunc(profile.Update)))

	// Public content and contact form
	mux.HandleFunc("POST /api/contact", messages.Submit)
	mux.HandleFunc("GET /api/blog", posts.List)
	mux.HandleFunc("GET /api/blog/{slug}", posts.GetBySlug)
	mux.HandleFunc("POST /api/blog/{id}/views", posts.RecordView)
	mux.Handle("POST /api/blog/{id}/likes", authed(http.HandlerFunc(posts.ToggleLike)))
	mux.HandleFunc("GET /api/projects", projects.List)
	mux.HandleFunc("GET /api/projects/{id}", projects.Get)
	mux.HandleFunc("GET /api/apps", apps.List)
	mux.HandleFunc("GET /api/apps/{id}", apps.Get)

	// Editor (OWNER and TEAM)
	mux.Handle("GET /api/editor/blog", authed(editor(http.HandlerFunc(posts.ListAll))))
	mux.Handle("POST /api/editor/blog", authed(editor(http.HandlerFunc(posts.Create))))
	mux.Handle("PATCH /api/editor/blog/{id}", authed(editor(http.HandlerFunc(posts.Update))))
	mux.Handle("DELETE /api/editor/blog/{id}", authed(editor(http.HandlerFunc(posts.Delete))))
	mux.Handle("GET /api/editor/projects", authed(editor(http.HandlerFunc(projects.ListAll))))
	mux.Handle("POST /api/editor/projects", authed(editor(http.HandlerFunc(projects.Create))))
	mux.Handle("PATCH /api/editor/projects/{id}", authed(editor(http.HandlerFunc(projects.Update))))
	mux.Handle("DELETE /api/editor/projects/{id}", authed(editor(http.HandlerFunc(projects.Delete))))
	mux.Handle("GET /api/editor/apps", authed(editor(http.HandlerFunc(apps.ListAll))))
	mux.Handle("POST /api/editor/apps", authed(editor(http.HandlerFunc(apps.Create))))
	mux.Handle("PATCH /api/editor/apps/{id}", authed(editor(http.HandlerFunc(apps.Update))))
	mux.Handle("DELETE /api/editor/apps/{id}", authed(editor(http.HandlerFunc(apps.Delete))))

	// Admin (OWNER only)
	mux.Handle("GET /api/admin/users", authed(admin(http.HandlerFunc(adminUsers.List))))
	mux.Handle("PATCH /api/admin/users/{id}", authed(admin(http.HandlerFunc(adminUsers.SetRole))))
	mux.Handle("DELETE /api/admin/users/{id}", authed(admin(http.HandlerFunc(adminUsers.Delete))))
	mux.Handle("GET /api/admin/audit", authed(admin(http.HandlerFunc(adminUsers.AuditLog))))
	mux.Handle("GET /api/admin/messages", authed(admin(http.HandlerFunc(messages.List))))
	mux.Handle("PATCH /api/admin/messages/{id}", authed(admin(http.HandlerFunc(messages.SetStatus))))
}
