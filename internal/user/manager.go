package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/role"
)

// Domain errors
var (
	ErrNotFound   = errors.New("user not found")
	ErrSelfChange = errors.New("cannot modify or delete own account")
	ErrGuest      = errors.New("guest user is not in the directory")
)

// Manager handles business logic for the user directory.
type Manager struct {
	ds *Datastore
}

// NewManager creates a new user manager.
func NewManager(ds *Datastore) *Manager {
	return &Manager{ds: ds}
}

// Resolve returns the directory record for an authenticated identity,
// creating it on first login. New records default to the GUEST role;
// elevation happens only through the admin gateway. Existing records get
// their last-login stamp refreshed.
func (m *Manager) Resolve(ctx context.Context, id, email, displayName string) (*Record, error) {
	rec, err := m.ds.Get(ctx, id)
	if err == nil {
		at, err := m.ds.UpdateLastLogin(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to update last login: %w", err)
		}
		rec.LastLogin = at
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if displayName == "" {
		displayName = email
		if at := strings.Index(email, "@"); at > 0 {
			displayName = email[:at]
		}
	}

	rec = &Record{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		Role:        role.Guest,
		IsActive:    true,
	}
	if err := m.ds.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return rec, nil
}

// Get retrieves a user by ID.
func (m *Manager) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := m.ds.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return rec, nil
}

// GetByEmail retrieves a user by email.
func (m *Manager) GetByEmail(ctx context.Context, email string) (*Record, error) {
	rec, err := m.ds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return rec, nil
}

// SetRole changes a user's role on behalf of actorID.
// Changing one's own role is forbidden so the last OWNER cannot lock
// themselves out with a stray click.
func (m *Manager) SetRole(ctx context.Context, actorID, targetID string, r role.Role) error {
	if actorID == targetID {
		return ErrSelfChange
	}
	if targetID == GuestID {
		return ErrGuest
	}

	rowsAffected, err := m.ds.SetRole(ctx, targetID, r)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user on behalf of actorID. Self-deletion is forbidden.
func (m *Manager) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfChange
	}

	rowsAffected, err := m.ds.Delete(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile updates the mutable profile fields of a record.
func (m *Manager) UpdateProfile(ctx context.Context, rec *Record) error {
	if rec.IsGuest() {
		return ErrGuest
	}

	rowsAffected, err := m.ds.UpdateProfile(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List retrieves all directory records.
func (m *Manager) List(ctx context.Context) ([]*Record, error) {
	records, err := m.ds.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return records, nil
}
