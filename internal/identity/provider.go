// Package identity establishes who is behind a set of credentials.
//
// The rest of the system consumes the Provider interface only; the
// password-based implementation in this package is one provider among
// possible others (tests use fakes).
package identity

import (
	"context"
	"errors"
)

// Sentinel errors forming the authentication error taxonomy.
// Handlers map each to a distinct response; nothing else leaks.
var (
	ErrNotFound      = errors.New("user not found")
	ErrBadCredential = errors.New("invalid password")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrRateLimited   = errors.New("too many failed attempts")
)

// Identity is the provider's view of an authenticated account.
// It is owned by the provider and read-only to the rest of the system.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Provider authenticates credentials and reports session changes.
//
// Subscribe registers a handler invoked with the new identity after every
// successful sign-in and with nil after every sign-out. Handlers are called
// synchronously in registration order; the returned function removes the
// subscription.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context) error
	Subscribe(fn func(*Identity)) (unsubscribe func())
}
