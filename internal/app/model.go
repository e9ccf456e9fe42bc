package app

import (
	"time"

	"github.com/google/uuid"
)

// Status of an app in its publishing lifecycle.
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

// App is a downloadable application in the showcase.
type App struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	DownloadURL  string    `json:"downloadUrl,omitempty"`
	GitHubURL    string    `json:"githubUrl,omitempty"`
	LiveURL      string    `json:"liveUrl,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Screenshots  []string  `json:"screenshots"`
	Technologies []string  `json:"technologies"`
	Author       string    `json:"author"`
	AuthorID     string    `json:"authorId"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
