package identity

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// credential is a stored login credential.
type credential struct {
	UserID       string
	Email        string
	Name         string
	PasswordHash string
}

// Datastore handles database operations for credentials.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new credential datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

func (ds *Datastore) getByEmail(ctx context.Context, email string) (*credential, error) {
	query := `
		SELECT user_id, email, name, password_hash
		FROM auth_credentials WHERE email = $1`

	cred := &credential{}
	err := ds.db.QueryRowContext(ctx, query, email).Scan(
		&cred.UserID, &cred.Email, &cred.Name, &cred.PasswordHash,
	)
	if err != nil {
		return nil, err
	}
	return cred, nil
}

func (ds *Datastore) insert(ctx context.Context, cred *credential) error {
	query := `
		INSERT INTO auth_credentials (user_id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := ds.db.ExecContext(ctx, query,
		cred.UserID, cred.Email, cred.Name, cred.PasswordHash, time.Now(),
	)
	return err
}
