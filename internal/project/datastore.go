package project

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

// Datastore handles database operations for projects.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new project datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

const projectColumns = `id, title, description, long_description, technologies, category,
		github_url, live_url, image_url, featured, author, author_id, status, created_at, updated_at`

// Insert stores a new project.
func (ds *Datastore) Insert(ctx context.Context, p *Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	tech, err := json.Marshal(emptyIfNil(p.Technologies))
	if err != nil {
		return fmt.Errorf("failed to encode technologies: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO projects (id, title, description, long_description, technologies, category,
			github_url, live_url, image_url, featured, author, author_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`

	return ds.db.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Description, p.LongDescription, tech, p.Category,
		p.GitHubURL, p.LiveURL, p.ImageURL, p.Featured, p.Author, p.AuthorID,
		string(p.Status), now, now,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves a project by ID.
func (ds *Datastore) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(ds.db.QueryRowContext(ctx, query, id))
}

// List retrieves projects, newest first, optionally restricted to published.
func (ds *Datastore) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if publishedOnly {
		query += ` WHERE status = 'published'`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := ds.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProjectRow(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update rewrites the editable fields of a project.
func (ds *Datastore) Update(ctx context.Context, p *Project) (int64, error) {
	tech, err := json.Marshal(emptyIfNil(p.Technologies))
	if err != nil {
		return 0, fmt.Errorf("failed to encode technologies: %w", err)
	}

	query := `
		UPDATE projects
		SET title = $2, description = $3, long_description = $4, technologies = $5,
			category = $6, github_url = $7, live_url = $8, image_url = $9,
			featured = $10, status = $11, updated_at = $12
		WHERE id = $1`

	result, err := ds.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, p.LongDescription, tech, p.Category,
		p.GitHubURL, p.LiveURL, p.ImageURL, p.Featured, string(p.Status), time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Delete removes a project.
func (ds *Datastore) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `DELETE FROM projects WHERE id = $1`
	result, err := ds.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row *sql.Row) (*Project, error) {
	return scanProjectRow(row)
}

func scanProjectRow(s rowScanner) (*Project, error) {
	p := &Project{}
	var tech []byte
	var status string
	err := s.Scan(
		&p.ID, &p.Title, &p.Description, &p.LongDescription, &tech, &p.Category,
		&p.GitHubURL, &p.LiveURL, &p.ImageURL, &p.Featured, &p.Author, &p.AuthorID,
		&status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = Status(status)
	if len(tech) > 0 {
		if err := json.Unmarshal(tech, &p.Technologies); err != nil {
			return nil, fmt.Errorf("corrupt technologies: %w", err)
		}
	}
	return p, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
