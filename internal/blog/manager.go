package blog

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
	ErrNotFound     = errors.New("post not found")
	ErrInvalidTitle = errors.New("post title is required")
	ErrInvalidSlug  = errors.New("post slug is required")
)

// Manager handles business logic for blog posts.
type Manager struct {
	ds *Datastore
}

// NewManager creates a new blog manager.
func NewManager(ds *Datastore) *Manager {
	return &Manager{ds: ds}
}

// Create stores a new post authored by the given user.
func (m *Manager) Create(ctx context.Context, p *Post) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Title == "" {
		return ErrInvalidTitle
	}
	if p.Slug == "" {
		return ErrInvalidSlug
	}

	if err := m.ds.Insert(ctx, p); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// Get retrieves a post by ID.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	p, err := m.ds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

// GetBySlug retrieves a post by its slug.
func (m *Manager) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	p, err := m.ds.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

// List retrieves posts with pagination. Public callers see published
// posts only; editors pass publishedOnly = false to include drafts.
func (m *Manager) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*Post, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := m.ds.List(ctx, publishedOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Update rewrites the editable fields of a post.
func (m *Manager) Update(ctx context.Context, p *Post) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Title == "" {
		return ErrInvalidTitle
	}
	if p.Slug == "" {
		return ErrInvalidSlug
	}

	rowsAffected, err := m.ds.Update(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	rowsAffected, err := m.ds.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordView bumps a post's view counter.
func (m *Manager) RecordView(ctx context.Context, id uuid.UUID) error {
	rowsAffected, err := m.ds.IncrementViews(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleLike flips a user's like on a post and adjusts the counter.
// Returns true when the post ends up liked by the user.
func (m *Manager) ToggleLike(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	inserted, err := m.ds.InsertLike(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	if inserted {
		if _, err := m.ds.AdjustLikes(ctx, postID, 1); err != nil {
			return true, fmt.Errorf("failed to adjust like count: %w", err)
		}
		return true, nil
	}

	removed, err := m.ds.DeleteLike(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	if removed {
		if _, err := m.ds.AdjustLikes(ctx, postID, -1); err != nil {
			return false, fmt.Errorf("failed to adjust like count: %w", err)
		}
	}
	return false, nil
}
