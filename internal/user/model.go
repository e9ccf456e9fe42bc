package user

import (
	"time"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/role"
)

// Record is a user profile document in the directory.
// The ID is the opaque identity-provider handle for the account.
type Record struct {
	ID          string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        role.Role `json:"role"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Skills      []string  `json:"skills,omitempty"`
	GitHub      string    `json:"github,omitempty"`
	LinkedIn    string    `json:"linkedin,omitempty"`
	Twitter     string    `json:"twitter,omitempty"`
	Website     string    `json:"website,omitempty"`
	Location    string    `json:"location,omitempty"`
	IsActive    bool      `json:"isActive"`
	JoinedAt    time.Time `json:"joinedAt"`
	LastLogin   time.Time `json:"lastLogin"`
}

// GuestID is the fixed ID of the synthetic guest record.
// It never appears in the directory.
const GuestID = "guest"

// NewGuest returns a synthetic guest record usable without contacting
// the identity provider or the directory. It is never persisted and its
// role can never be elevated.
func NewGuest() *Record {
	now := time.Now()
	return &Record{
		ID:          GuestID,
		Email:       "oct4crypt@gmail.com",
		DisplayName: "Guest User",
		Role:        role.Guest,
		IsActive:    true,
		JoinedAt:    now,
		LastLogin:   now,
	}
}

// IsGuest reports whether the record is the synthetic guest.
func (r *Record) IsGuest() bool {
	return r.ID == GuestID
}
