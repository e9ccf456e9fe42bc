package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Datastore handles database operations for apps.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new app datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

const appColumns = `id, name, description, category, download_url, github_url, live_url,
		icon, screenshots, technologies, author, author_id, status, created_at, updated_at`

// Insert stores a new app.
func (ds *Datastore) Insert(ctx context.Context, a *App) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	shots, tech, err := marshalLists(a)
	if err != nil {
		return err
	}

	now := time.Now()
	query := `
		INSERT INTO apps (id, name, description, category, download_url, github_url, live_url,
			icon, screenshots, technologies, author, author_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`

	return ds.db.QueryRowContext(ctx, query,
		a.ID, a.Name, a.Description, a.Category, a.DownloadURL, a.GitHubURL, a.LiveURL,
		a.Icon, shots, tech, a.Author, a.AuthorID, string(a.Status), now, now,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByID retrieves an app by ID.
func (ds *Datastore) GetByID(ctx context.Context, id uuid.UUID) (*App, error) {
	query := `SELECT ` + appColumns + ` FROM apps WHERE id = $1`
	return scanApp(ds.db.QueryRowContext(ctx, query, id))
}

// List retrieves apps, newest first, optionally restricted to published.
func (ds *Datastore) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*App, error) {
	query := `SELECT ` + appColumns + ` FROM apps`
	if publishedOnly {
		query += ` WHERE status = 'published'`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := ds.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*App
	for rows.Next() {
		a, err := scanAppRow(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// Update rewrites the editable fields of an app.
func (ds *Datastore) Update(ctx context.Context, a *App) (int64, error) {
	shots, tech, err := marshalLists(a)
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE apps
		SET name = $2, description = $3, category = $4, download_url = $5,
			github_url = $6, live_url = $7, icon = $8, screenshots = $9,
			technologies = $10, status = $11, updated_at = $12
		WHERE id = $1`

	result, err := ds.db.ExecContext(ctx, query,
		a.ID, a.Name, a.Description, a.Category, a.DownloadURL,
		a.GitHubURL, a.LiveURL, a.Icon, shots, tech, string(a.Status), time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Delete removes an app.
func (ds *Datastore) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `DELETE FROM apps WHERE id = $1`
	result, err := ds.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApp(row *sql.Row) (*App, error) {
	return scanAppRow(row)
}

func scanAppRow(s rowScanner) (*App, error) {
	a := &App{}
	var shots, tech []byte
	var status string
	err := s.Scan(
		&a.ID, &a.Name, &a.Description, &a.Category, &a.DownloadURL, &a.GitHubURL,
		&a.LiveURL, &a.Icon, &shots, &tech, &a.Author, &a.AuthorID,
		&status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = Status(status)
	if len(shots) > 0 {
		if err := json.Unmarshal(shots, &a.Screenshots); err != nil {
			return nil, fmt.Errorf("corrupt screenshots: %w", err)
		}
	}
	if len(tech) > 0 {
		if err := json.Unmarshal(tech, &a.Technologies); err != nil {
			return nil, fmt.Errorf("corrupt technologies: %w", err)
		}
	}
	return a, nil
}

func marshalLists(a *App) (shots, tech []byte, err error) {
	shots, err = json.Marshal(emptyIfNil(a.Screenshots))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode screenshots: %w", err)
	}
	tech, err = json.Marshal(emptyIfNil(a.Technologies))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode technologies: %w", err)
	}
	return shots, tech, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
