package project

import (
	"time"

	"github.com/google/uuid"
)

// Status of a project in its publishing lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

// Project is a portfolio project in the showcase.
type Project struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	LongDescription string    `json:"longDescription"`
	Technologies    []string  `json:"technologies"`
	Category        string    `json:"category"`
	GitHubURL       string    `json:"githubUrl,omitempty"`
	LiveURL         string    `json:"liveUrl,omitempty"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	Featured        bool      `json:"featured"`
	Author          string    `json:"author"`
	AuthorID        string    `json:"authorId"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
