// Package session tracks the currently authenticated (or guest) user for
// one client process.
//
// A Context combines identity-provider change notifications with directory
// lookups into a single source of truth for "who is using this process".
// It is owned by whoever constructs it: call Start once at startup, Close
// at teardown. All updates to the current user are serialized; the latest
// completed resolution wins and anything stale is discarded.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/identity"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/role"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/user"
)

const resolveTimeout = 10 * time.Second

// Directory is the subset of the user directory the session needs.
type Directory interface {
	// Resolve returns the record for an identity, creating it on first login.
	Resolve(ctx context.Context, id, email, displayName string) (*user.Record, error)
	// Get returns an existing record.
	Get(ctx context.Context, id string) (*user.Record, error)
}

// Context holds the resolved user for one running client process.
type Context struct {
	provider identity.Provider
	dir      Directory

	mu       sync.Mutex
	current  *user.Record
	resolved bool
	// gen is bumped by every completed mutation of current. An in-flight
	// resolution that captured an older gen discards its result instead
	// of reviving a stale session.
	gen uint64

	startOnce   sync.Once
	events      chan *identity.Identity
	stop        chan struct{}
	unsubscribe func()
}

// New creates a session context. Call Start to begin receiving
// identity-provider change notifications.
func New(provider identity.Provider, dir Directory) *Context {
	return &Context{provider: provider, dir: dir}
}

// Start subscribes to the identity provider and begins draining change
// notifications. Safe to call once; later calls are no-ops.
func (c *Context) Start() {
	c.startOnce.Do(func() {
		c.events = make(chan *identity.Identity, 8)
		c.stop = make(chan struct{})
		c.unsubscribe = c.provider.Subscribe(func(ident *identity.Identity) {
			select {
			case c.events <- ident:
			case <-c.stop:
			}
		})
		go c.drain()
	})
}

// Close unsubscribes from the provider and stops the drain loop.
func (c *Context) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	if c.stop != nil {
		close(c.stop)
	}
}

// Current returns the current user, or nil when signed out.
func (c *Context) Current() *user.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Resolved reports whether at least one resolution has completed, letting
// callers distinguish "not yet known" from "known to be signed out".
func (c *Context) Resolved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolved
}

// CurrentRole returns the current user's role, or the zero Role when
// signed out.
func (c *Context) CurrentRole() role.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return ""
	}
	return c.current.Role
}

// Login authenticates against the identity provider and resolves the
// matching directory record, creating it with the GUEST role on first
// login. On failure the current user is left unchanged and the provider's
// typed error is returned. If another auth action completed while this
// login was in flight, its result is discarded rather than installed.
func (c *Context) Login(ctx context.Context, email, credential string) (*user.Record, error) {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	ident, err := c.provider.SignIn(ctx, email, credential)
	if err != nil {
		return nil, err
	}

	rec, err := c.dir.Resolve(ctx, ident.ID, ident.Email, ident.Name)
	if err != nil {
		return nil, err
	}

	c.install(gen, rec)
	return rec, nil
}

// Logout requests provider sign-out and clears the current user. The
// local state is cleared even when the remote call fails, so the UI can
// never get stuck authenticated; the provider error is returned for
// logging only.
func (c *Context) Logout(ctx context.Context) error {
	err := c.provider.SignOut(ctx)

	c.mu.Lock()
	c.current = nil
	c.resolved = true
	c.gen++
	c.mu.Unlock()

	return err
}

// LoginAsGuest installs the synthetic guest user. Only local state
// changes; neither the identity provider nor the directory is contacted.
func (c *Context) LoginAsGuest() {
	c.mu.Lock()
	c.current = user.NewGuest()
	c.resolved = true
	c.gen++
	c.mu.Unlock()
}

// Refresh re-reads the current user from the directory, picking up role
// or profile changes made elsewhere. A no-op for guests and signed-out
// sessions.
func (c *Context) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.current == nil || c.current.IsGuest() {
		c.mu.Unlock()
		return nil
	}
	id := c.current.ID
	gen := c.gen
	c.mu.Unlock()

	rec, err := c.dir.Get(ctx, id)
	if err != nil {
		return err
	}

	c.install(gen, rec)
	return nil
}

func (c *Context) drain() {
	for {
		select {
		case ident := <-c.events:
			c.handleChange(ident)
		case <-c.stop:
			return
		}
	}
}

// handleChange re-resolves the directory record for a provider change
// notification. Directory failures fail closed to "no current user";
// they never stop the drain loop.
func (c *Context) handleChange(ident *identity.Identity) {
	if ident == nil {
		c.mu.Lock()
		c.current = nil
		c.resolved = true
		c.gen++
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	rec, err := c.dir.Resolve(ctx, ident.ID, ident.Email, ident.Name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.gen++
	c.resolved = true
	if err != nil {
		log.Printf("session: directory resolution failed, treating as signed out: %v", err)
		c.current = nil
		return
	}
	c.current = rec
}

// install publishes a resolution unless a later mutation already won.
func (c *Context) install(gen uint64, rec *user.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.gen++
	c.resolved = true
	c.current = rec
}
