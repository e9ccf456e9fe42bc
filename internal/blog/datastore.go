package blog

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

// Datastore handles database operations for blog posts.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new blog datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

const postColumns = `id, title, slug, content, excerpt, author, author_id, cover_image,
		tags, category, published, views, likes, created_at, updated_at`

// Insert stores a new post with zeroed counters.
func (ds *Datastore) Insert(ctx context.Context, p *Post) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	tags, err := marshalTags(p.Tags)
	if err != nil {
		return err
	}

	now := time.Now()
	query := `
		INSERT INTO blog_posts (id, title, slug, content, excerpt, author, author_id,
			cover_image, tags, category, published, views, likes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, 0, $12, $13)
		RETURNING created_at, updated_at`

	return ds.db.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.Author, p.AuthorID,
		p.CoverImage, tags, p.Category, p.Published, now, now,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves a post by ID.
func (ds *Datastore) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`
	return scanPost(ds.db.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves a post by slug.
func (ds *Datastore) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1`
	return scanPost(ds.db.QueryRowContext(ctx, query, slug))
}

// List retrieves posts, newest first, optionally restricted to published.
func (ds *Datastore) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts`
	if publishedOnly {
		query += ` WHERE published = true`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := ds.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		p, err := scanPostRow(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Update rewrites the editable fields of a post.
func (ds *Datastore) Update(ctx context.Context, p *Post) (int64, error) {
	tags, err := marshalTags(p.Tags)
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE blog_posts
		SET title = $2, slug = $3, content = $4, excerpt = $5, cover_image = $6,
			tags = $7, category = $8, published = $9, updated_at = $10
		WHERE id = $1`

	result, err := ds.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImage,
		tags, p.Category, p.Published, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Delete removes a post.
func (ds *Datastore) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `DELETE FROM blog_posts WHERE id = $1`
	result, err := ds.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// IncrementViews bumps the view counter.
func (ds *Datastore) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `UPDATE blog_posts SET views = views + 1 WHERE id = $1`
	result, err := ds.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// InsertLike records a user's like. Returns false when the like already
// existed.
func (ds *Datastore) InsertLike(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	query := `
		INSERT INTO blog_likes (post_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO NOTHING`

	result, err := ds.db.ExecContext(ctx, query, postID, userID, time.Now())
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// DeleteLike removes a user's like. Returns false when none existed.
func (ds *Datastore) DeleteLike(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	query := `DELETE FROM blog_likes WHERE post_id = $1 AND user_id = $2`
	result, err := ds.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// AdjustLikes moves the like counter by delta.
func (ds *Datastore) AdjustLikes(ctx context.Context, id uuid.UUID, delta int) (int64, error) {
	query := `UPDATE blog_posts SET likes = likes + $2 WHERE id = $1`
	result, err := ds.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row *sql.Row) (*Post, error) {
	return scanPostRow(row)
}

func scanPostRow(s rowScanner) (*Post, error) {
	p := &Post{}
	var tags []byte
	err := s.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Author, &p.AuthorID,
		&p.CoverImage, &tags, &p.Category, &p.Published, &p.Views, &p.Likes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("corrupt tags: %w", err)
		}
	}
	return p, nil
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	return data, nil
}
