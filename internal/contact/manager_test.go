package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func validSubmission() *Submission {
	return &Submission{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Collaboration",
		Message: "I would like to work together on a project.",
	}
}

func TestSubmission_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
		field  string
		reason string
	}{
		{"missing name", func(s *Submission) { s.Name = "" }, "name", ReasonMissing},
		{"whitespace name", func(s *Submission) { s.Name = "   " }, "name", ReasonMissing},
		{"missing email", func(s *Submission) { s.Email = "" }, "email", ReasonMissing},
		{"malformed email", func(s *Submission) { s.Email = "not-an-email" }, "email", ReasonInvalidFormat},
		{"missing subject", func(s *Submission) { s.Subject = "" }, "subject", ReasonMissing},
		{"missing message", func(s *Submission) { s.Message = "" }, "message", ReasonMissing},
		{"short message", func(s *Submission) { s.Message = "hello" }, "message", ReasonTooShort},
		{"padded short message", func(s *Submission) { s.Message = "  hello   " }, "message", ReasonTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(sub)

			fieldErrors := sub.Validate()
			if len(fieldErrors) != 1 {
				t.Fatalf("expected 1 field error, got %d: %v", len(fieldErrors), fieldErrors)
			}
			if fieldErrors[0].Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, fieldErrors[0].Field)
			}
			if fieldErrors[0].Reason != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, fieldErrors[0].Reason)
			}
		})
	}
}

func TestSubmission_Validate_Valid(t *testing.T) {
	if fieldErrors := validSubmission().Validate(); fieldErrors != nil {
		t.Errorf("expected no field errors, got %v", fieldErrors)
	}
}

func TestManager_Submit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	m := NewManager(NewDatastore(db))

	mock.ExpectQuery(`INSERT INTO contact_messages`).
		WithArgs(sqlmock.AnyArg(), "Ada Lovelace", "ada@example.com", "Collaboration",
			sqlmock.AnyArg(), "unread", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	msg, fieldErrors, err := m.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fieldErrors) != 0 {
		t.Fatalf("unexpected field errors: %v", fieldErrors)
	}
	if msg.Status != StatusUnread {
		t.Errorf("expected status unread, got %q", msg.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestManager_Submit_InvalidSkipsStore(t *testing.T) {
	m := &Manager{ds: nil}

	sub := validSubmission()
	sub.Message = "short"

	msg, fieldErrors, err := m.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != nil {
		t.Error("expected no stored message for invalid submission")
	}
	if len(fieldErrors) != 1 || fieldErrors[0].Reason != ReasonTooShort {
		t.Errorf("expected too_short field error, got %v", fieldErrors)
	}
}

func TestManager_SetStatus_Invalid(t *testing.T) {
	m := &Manager{ds: nil}

	err := m.SetStatus(context.Background(), uuid.New(), Status("archived"), "")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestManager_SetStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	m := NewManager(NewDatastore(db))
	id := uuid.New()

	mock.ExpectExec(`UPDATE contact_messages SET status`).
		WithArgs(id, "read").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := m.SetStatus(context.Background(), id, StatusRead, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
