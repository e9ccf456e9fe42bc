package contact

import (
	"time"

	"github.com/google/uuid"
)

// Status of a contact message in the admin inbox.
type Status string

const (
	StatusUnread  Status = "unread"
	StatusRead    Status = "read"
	StatusReplied Status = "replied"
)

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusUnread, StatusRead, StatusReplied:
		return true
	default:
		return false
	}
}

// Message is a stored contact form submission.
type Message struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Subject      string     `json:"subject"`
	Message      string     `json:"message"`
	Status       Status     `json:"status"`
	ReplyMessage string     `json:"replyMessage,omitempty"`
	RepliedAt    *time.Time `json:"repliedAt,omitempty"`
	CreatedAt    time.Time  `json:"timestamp"`
}
