package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrNotFound      = errors.New("app not found")
	ErrInvalidName   = errors.New("app name is required")
	ErrInvalidStatus = errors.New("invalid app status")
)

// Manager handles business logic for apps.
type Manager struct {
	ds *Datastore
}

// NewManager creates a new app manager.
func NewManager(ds *Datastore) *Manager {
	return &Manager{ds: ds}
}

// Create stores a new app authored by the given user.
func (m *Manager) Create(ctx context.Context, a *App) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return ErrInvalidName
	}
	if a.Status == "" {
		a.Status = StatusDraft
	}
	if !a.Status.Valid() {
		return ErrInvalidStatus
	}

	if err := m.ds.Insert(ctx, a); err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}
	return nil
}

// Get retrieves an app by ID.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*App, error) {
	a, err := m.ds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get app: %w", err)
	}
	return a, nil
}

// List retrieves apps with pagination. Public callers see published
// apps only; editors pass publishedOnly = false to include drafts.
func (m *Manager) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*App, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	apps, err := m.ds.List(ctx, publishedOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}
	return apps, nil
}

// Update rewrites the editable fields of an app.
func (m *Manager) Update(ctx context.Context, a *App) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return ErrInvalidName
	}
	if !a.Status.Valid() {
		return ErrInvalidStatus
	}

	rowsAffected, err := m.ds.Update(ctx, a)
	if err != nil {
		return fmt.Errorf("failed to update app: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an app.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	rowsAffected, err := m.ds.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete app: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
