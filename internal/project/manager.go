package project

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
	ErrNotFound      = errors.New("project not found")
	ErrInvalidTitle  = errors.New("project title is required")
	ErrInvalidStatus = errors.New("invalid project status")
)

// Manager handles business logic for projects.
type Manager struct {
	ds *Datastore
}

// NewManager creates a new project manager.
func NewManager(ds *Datastore) *Manager {
	return &Manager{ds: ds}
}

// Create stores a new project authored by the given user.
func (m *Manager) Create(ctx context.Context, p *Project) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return ErrInvalidTitle
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}

	if err := m.ds.Insert(ctx, p); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// Get retrieves a project by ID.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	p, err := m.ds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// List retrieves projects with pagination. Public callers see published
// projects only; editors pass publishedOnly = false to include drafts.
func (m *Manager) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*Project, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	projects, err := m.ds.List(ctx, publishedOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Update rewrites the editable fields of a project.
func (m *Manager) Update(ctx context.Context, p *Project) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return ErrInvalidTitle
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}

	rowsAffected, err := m.ds.Update(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a project.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	rowsAffected, err := m.ds.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
