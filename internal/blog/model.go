package blog

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog post in the content catalog.
// Drafts (Published == false) are visible to editors only.
type Post struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	Author     string    `json:"author"`
	AuthorID   string    `json:"authorId"`
	CoverImage string    `json:"coverImage,omitempty"`
	Tags       []string  `json:"tags"`
	Category   string    `json:"category"`
	Published  bool      `json:"published"`
	Views      int       `json:"views"`
	Likes      int       `json:"likes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
