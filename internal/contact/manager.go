package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Domain errors
var (
	ErrNotFound      = errors.New("message not found")
	ErrInvalidStatus = errors.New("invalid message status")
)

// Field error reasons surfaced to the client.
const (
	ReasonMissing       = "missing"
	ReasonInvalidFormat = "invalid_format"
	ReasonTooShort      = "too_short"
)

// Submission is an incoming contact form payload.
type Submission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required,min=10"`
}

// FieldError describes one invalid submission field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a submission and returns one error per invalid field.
// Fields are trimmed first so whitespace-only input counts as missing
// and the message length is measured on visible characters.
func (s *Submission) Validate() []FieldError {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Subject = strings.TrimSpace(s.Subject)
	s.Message = strings.TrimSpace(s.Message)

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "form", Reason: ReasonInvalidFormat}}
	}

	fieldErrors := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:  strings.ToLower(fe.Field()),
			Reason: reasonForTag(fe.Tag()),
		})
	}
	return fieldErrors
}

func reasonForTag(tag string) string {
	switch tag {
	case "required":
		return ReasonMissing
	case "email":
		return ReasonInvalidFormat
	case "min":
		return ReasonTooShort
	default:
		return ReasonInvalidFormat
	}
}

// Manager handles business logic for contact messages.
type Manager struct {
	ds *Datastore
}

// NewManager creates a new contact manager.
func NewManager(ds *Datastore) *Manager {
	return &Manager{ds: ds}
}

// Submit validates and stores a contact form submission.
// Validation failures are returned as field errors, not an error value.
func (m *Manager) Submit(ctx context.Context, sub *Submission) (*Message, []FieldError, error) {
	if fieldErrors := sub.Validate(); len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	msg := &Message{
		Name:    sub.Name,
		Email:   sub.Email,
		Subject: sub.Subject,
		Message: sub.Message,
	}
	if err := m.ds.Insert(ctx, msg); err != nil {
		return nil, nil, fmt.Errorf("failed to store message: %w", err)
	}
	return msg, nil, nil
}

// List retrieves all messages for the admin inbox.
func (m *Manager) List(ctx context.Context) ([]*Message, error) {
	messages, err := m.ds.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// SetStatus moves a message through the inbox lifecycle.
func (m *Manager) SetStatus(ctx context.Context, id uuid.UUID, status Status, replyMessage string) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	rowsAffected, err := m.ds.SetStatus(ctx, id, status, replyMessage)
	if err != nil {
		return fmt.Errorf("failed to update message status: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
