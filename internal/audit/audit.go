// Package audit records privileged admin actions for later review.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Actions recorded by the admin gateway.
const (
	ActionRoleChange    = "user.role_change"
	ActionUserDelete    = "user.delete"
	ActionMessageStatus = "message.status_change"
)

// Entry is one audit log record. Entries are append-only.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	TargetID    string    `json:"targetId"`
	PerformedBy string    `json:"performedBy"`
	Detail      string    `json:"detail,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Datastore handles database operations for audit entries.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new audit datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

// Insert appends an audit entry.
func (ds *Datastore) Insert(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	query := `
		INSERT INTO audit_log (id, action, target_id, performed_by, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return ds.db.QueryRowContext(ctx, query,
		e.ID, e.Action, e.TargetID, e.PerformedBy, e.Detail, time.Now(),
	).Scan(&e.CreatedAt)
}

// List retrieves audit entries, newest first.
func (ds *Datastore) List(ctx context.Context, limit, offset int) ([]*Entry, error) {
	query := `
		SELECT id, action, target_id, performed_by, detail, created_at
		FROM audit_log ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := ds.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Action, &e.TargetID, &e.PerformedBy, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Manager handles business logic for the audit trail.
type Manager struct {
	ds *Datastore
}

// NewManager creates a new audit manager.
func NewManager(ds *Datastore) *Manager {
	return &Manager{ds: ds}
}

// Record appends an entry for an admin action.
func (m *Manager) Record(ctx context.Context, action, targetID, performedBy, detail string) error {
	e := &Entry{
		Action:      action,
		TargetID:    targetID,
		PerformedBy: performedBy,
		Detail:      detail,
	}
	if err := m.ds.Insert(ctx, e); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List retrieves audit entries with pagination, newest first.
func (m *Manager) List(ctx context.Context, limit, offset int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := m.ds.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
