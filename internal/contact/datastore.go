package contact

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Datastore handles database operations for contact messages.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new contact datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

// Insert stores a new message with status unread.
func (ds *Datastore) Insert(ctx context.Context, msg *Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	msg.Status = StatusUnread

	query := `
		INSERT INTO contact_messages (id, name, email, subject, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return ds.db.QueryRowContext(ctx, query,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message, string(msg.Status), time.Now(),
	).Scan(&msg.CreatedAt)
}

// List retrieves all messages, newest first.
func (ds *Datastore) List(ctx context.Context) ([]*Message, error) {
	query := `
		SELECT id, name, email, subject, message, status, reply_message, replied_at, created_at
		FROM contact_messages ORDER BY created_at DESC`

	rows, err := ds.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		msg := &Message{}
		var status string
		var reply sql.NullString
		var repliedAt sql.NullTime
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Message,
			&status, &reply, &repliedAt, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Status = Status(status)
		if reply.Valid {
			msg.ReplyMessage = reply.String
		}
		if repliedAt.Valid {
			t := repliedAt.Time
			msg.RepliedAt = &t
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// SetStatus updates a message's status. When the new status is replied,
// the reply text and timestamp are stored alongside.
func (ds *Datastore) SetStatus(ctx context.Context, id uuid.UUID, status Status, replyMessage string) (int64, error) {
	var result sql.Result
	var err error

	if status == StatusReplied {
		query := `UPDATE contact_messages SET status = $2, reply_message = $3, replied_at = $4 WHERE id = $1`
		result, err = ds.db.ExecContext(ctx, query, id, string(status), replyMessage, time.Now())
	} else {
		query := `UPDATE contact_messages SET status = $2 WHERE id = $1`
		result, err = ds.db.ExecContext(ctx, query, id, string(status))
	}
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
