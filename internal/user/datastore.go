package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/role"
)

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Datastore handles database operations for user records.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new user datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

const recordColumns = `id, email, display_name, role, photo_url, bio, skills,
		github, linkedin, twitter, website, location, is_active, joined_at, last_login`

// Create inserts a new user record. JoinedAt and LastLogin are set server-side.
func (ds *Datastore) Create(ctx context.Context, rec *Record) error {
	skills, err := marshalSkills(rec.Skills)
	if err != nil {
		return err
	}

	now := time.Now()
	query := `
		INSERT INTO users (id, email, display_name, role, photo_url, bio, skills,
			github, linkedin, twitter, website, location, is_active, joined_at, last_login)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING joined_at, last_login`

	return ds.db.QueryRowContext(ctx, query,
		rec.ID, rec.Email, rec.DisplayName, rec.Role.String(), rec.PhotoURL, rec.Bio, skills,
		rec.GitHub, rec.LinkedIn, rec.Twitter, rec.Website, rec.Location, rec.IsActive, now, now,
	).Scan(&rec.JoinedAt, &rec.LastLogin)
}

// Get retrieves a user record by ID.
func (ds *Datastore) Get(ctx context.Context, id string) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM users WHERE id = $1`
	return scanRecord(ds.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user record by email.
func (ds *Datastore) GetByEmail(ctx context.Context, email string) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM users WHERE email = $1`
	return scanRecord(ds.db.QueryRowContext(ctx, query, email))
}

// UpdateProfile updates the mutable profile fields of a record.
func (ds *Datastore) UpdateProfile(ctx context.Context, rec *Record) (int64, error) {
	skills, err := marshalSkills(rec.Skills)
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE users
		SET display_name = $2, photo_url = $3, bio = $4, skills = $5, github = $6,
			linkedin = $7, twitter = $8, website = $9, location = $10, is_active = $11
		WHERE id = $1`

	result, err := ds.db.ExecContext(ctx, query,
		rec.ID, rec.DisplayName, rec.PhotoURL, rec.Bio, skills, rec.GitHub,
		rec.LinkedIn, rec.Twitter, rec.Website, rec.Location, rec.IsActive,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// UpdateLastLogin stamps the record with the current time and returns
// the stored stamp.
func (ds *Datastore) UpdateLastLogin(ctx context.Context, id string) (time.Time, error) {
	query := `UPDATE users SET last_login = $2 WHERE id = $1 RETURNING last_login`
	var at time.Time
	err := ds.db.QueryRowContext(ctx, query, id, time.Now()).Scan(&at)
	return at, err
}

// SetRole changes the role of a record.
func (ds *Datastore) SetRole(ctx context.Context, id string, r role.Role) (int64, error) {
	query := `UPDATE users SET role = $2 WHERE id = $1`
	result, err := ds.db.ExecContext(ctx, query, id, r.String())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Delete removes a user record.
func (ds *Datastore) Delete(ctx context.Context, id string) (int64, error) {
	query := `DELETE FROM users WHERE id = $1`
	result, err := ds.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// List retrieves all user records, newest first.
func (ds *Datastore) List(ctx context.Context) ([]*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM users ORDER BY joined_at DESC`

	rows, err := ds.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecordRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row *sql.Row) (*Record, error) {
	return scanRecordRow(row)
}

func scanRecordRow(s rowScanner) (*Record, error) {
	rec := &Record{}
	var roleStr string
	var skills []byte

	err := s.Scan(
		&rec.ID, &rec.Email, &rec.DisplayName, &roleStr, &rec.PhotoURL, &rec.Bio, &skills,
		&rec.GitHub, &rec.LinkedIn, &rec.Twitter, &rec.Website, &rec.Location,
		&rec.IsActive, &rec.JoinedAt, &rec.LastLogin,
	)
	if err != nil {
		return nil, err
	}

	rec.Role, err = role.Parse(roleStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt role in directory: %w", err)
	}

	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &rec.Skills); err != nil {
			return nil, fmt.Errorf("corrupt skills in directory: %w", err)
		}
	}

	return rec, nil
}

// marshalSkills encodes the skills list for the jsonb column.
func marshalSkills(skills []string) ([]byte, error) {
	if skills == nil {
		skills = []string{}
	}
	data, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("failed to encode skills: %w", err)
	}
	return data, nil
}
