package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/role"
)

func newTestManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewManager(NewDatastore(db)), mock
}

func recordRow(id, email, name string, r role.Role) *sqlmock.Rows {
	skills, _ := json.Marshal([]string{})
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "display_name", "role", "photo_url", "bio", "skills",
		"github", "linkedin", "twitter", "website", "location", "is_active",
		"joined_at", "last_login",
	}).AddRow(id, email, name, r.String(), "", "", skills, "", "", "", "", "", true, now, now)
}

func TestResolve_ExistingUserStampsLastLogin(t *testing.T) {
	m, mock := newTestManager(t)
	stamped := time.Now().Truncate(time.Second)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("uid-1").
		WillReturnRows(recordRow("uid-1", "alice@example.com", "Alice", role.Team))
	mock.ExpectQuery(`UPDATE users SET last_login = \$2 WHERE id = \$1 RETURNING last_login`).
		WithArgs("uid-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"last_login"}).AddRow(stamped))

	rec, err := m.Resolve(context.Background(), "uid-1", "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if rec.Role != role.Team {
		t.Errorf("expected directory role TEAM to survive, got %s", rec.Role)
	}
	if !rec.LastLogin.Equal(stamped) {
		t.Errorf("expected the fresh login stamp %v, got %v", stamped, rec.LastLogin)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestResolve_FirstLoginCreatesGuest(t *testing.T) {
	m, mock := newTestManager(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("uid-new").
		WillReturnError(errNoRows())
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("uid-new", "bob@example.com", "Bob", role.Guest.String(),
			"", "", sqlmock.AnyArg(), "", "", "", "", "", true,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"joined_at", "last_login"}).AddRow(now, now))

	rec, err := m.Resolve(context.Background(), "uid-new", "bob@example.com", "Bob")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if rec.Role != role.Guest {
		t.Errorf("expected new user to default to GUEST, got %s", rec.Role)
	}
	if !rec.IsActive {
		t.Error("expected new user to be active")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestResolve_FirstLoginDerivesDisplayName(t *testing.T) {
	m, mock := newTestManager(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("uid-new").
		WillReturnError(errNoRows())
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("uid-new", "carol@example.com", "carol", role.Guest.String(),
			"", "", sqlmock.AnyArg(), "", "", "", "", "", true,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"joined_at", "last_login"}).AddRow(now, now))

	rec, err := m.Resolve(context.Background(), "uid-new", "carol@example.com", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if rec.DisplayName != "carol" {
		t.Errorf("expected display name derived from email local part, got %q", rec.DisplayName)
	}
}

func TestGet_NotFound(t *testing.T) {
	m, mock := newTestManager(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(errNoRows())

	_, err := m.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetRole_SelfChangeForbidden(t *testing.T) {
	m, _ := newTestManager(t)

	err := m.SetRole(context.Background(), "uid-1", "uid-1", role.Team)
	if !errors.Is(err, ErrSelfChange) {
		t.Errorf("expected ErrSelfChange, got %v", err)
	}
}

func TestSetRole_GuestForbidden(t *testing.T) {
	m, _ := newTestManager(t)

	err := m.SetRole(context.Background(), "uid-owner", GuestID, role.Team)
	if !errors.Is(err, ErrGuest) {
		t.Errorf("expected ErrGuest, got %v", err)
	}
}

func TestSetRole_TargetMissing(t *testing.T) {
	m, mock := newTestManager(t)

	mock.ExpectExec(`UPDATE users SET role = \$2 WHERE id = \$1`).
		WithArgs("gone", role.Owner.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := m.SetRole(context.Background(), "uid-owner", "gone", role.Owner)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetRole_Success(t *testing.T) {
	m, mock := newTestManager(t)

	mock.ExpectExec(`UPDATE users SET role = \$2 WHERE id = \$1`).
		WithArgs("uid-2", role.Team.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := m.SetRole(context.Background(), "uid-owner", "uid-2", role.Team); err != nil {
		t.Fatalf("SetRole returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDelete_SelfDeleteForbidden(t *testing.T) {
	m, _ := newTestManager(t)

	err := m.Delete(context.Background(), "uid-1", "uid-1")
	if !errors.Is(err, ErrSelfChange) {
		t.Errorf("expected ErrSelfChange, got %v", err)
	}
}

func TestDelete_TargetMissing(t *testing.T) {
	m, mock := newTestManager(t)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := m.Delete(context.Background(), "uid-owner", "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfile_GuestForbidden(t *testing.T) {
	m, _ := newTestManager(t)

	err := m.UpdateProfile(context.Background(), NewGuest())
	if !errors.Is(err, ErrGuest) {
		t.Errorf("expected ErrGuest, got %v", err)
	}
}

func errNoRows() error {
	return sql.ErrNoRows
}
