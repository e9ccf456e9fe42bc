package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PasswordProvider authenticates email/password credentials against a
// bcrypt-hashed credential table. It implements Provider.
type PasswordProvider struct {
	ds      *Datastore
	limiter *attemptLimiter

	mu     sync.Mutex
	nextID int
	subs   map[int]func(*Identity)
	order  []int
}

// NewPasswordProvider creates a password provider backed by the given store.
func NewPasswordProvider(ds *Datastore) *PasswordProvider {
	return &PasswordProvider{
		ds:      ds,
		limiter: newAttemptLimiter(maxFailedAttempts, attemptWindow),
		subs:    make(map[int]func(*Identity)),
	}
}

// SignIn verifies the credentials and returns the matching identity.
// Failures map onto the package sentinel errors; repeated failures for
// the same email trip ErrRateLimited for the rest of the window.
func (p *PasswordProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	if p.limiter.blocked(email) {
		return nil, ErrRateLimited
	}

	cred, err := p.ds.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			p.limiter.fail(email)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("credential lookup failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		p.limiter.fail(email)
		return nil, ErrBadCredential
	}

	p.limiter.reset(email)

	ident := &Identity{ID: cred.UserID, Email: cred.Email, Name: cred.Name}
	p.notify(ident)
	return ident, nil
}

// SignOut clears the provider-side session and notifies subscribers
// with a nil identity.
func (p *PasswordProvider) SignOut(ctx context.Context) error {
	p.notify(nil)
	return nil
}

// Subscribe registers a change handler. See Provider for semantics.
func (p *PasswordProvider) Subscribe(fn func(*Identity)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.order = append(p.order, id)

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// Register creates a new credential and returns its identity.
// It does not sign the account in.
func (p *PasswordProvider) Register(ctx context.Context, email, password, name string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if password == "" {
		return nil, ErrBadCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	cred := &credential{
		UserID:       uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := p.ds.insert(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	return &Identity{ID: cred.UserID, Email: cred.Email, Name: cred.Name}, nil
}

func (p *PasswordProvider) notify(ident *Identity) {
	p.mu.Lock()
	fns := make([]func(*Identity), 0, len(p.order))
	for _, id := range p.order {
		if fn, ok := p.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(ident)
	}
}
