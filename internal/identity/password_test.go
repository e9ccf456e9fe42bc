package identity

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

func newTestProvider(t *testing.T) (*PasswordProvider, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPasswordProvider(NewDatastore(db)), mock
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func expectCredential(mock sqlmock.Sqlmock, email, hash string) {
	mock.ExpectQuery(`SELECT user_id, email, name, password_hash`).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "name", "password_hash"}).
			AddRow("uid-1", email, "Alice", hash))
}

func TestSignIn_InvalidEmail(t *testing.T) {
	p, _ := newTestProvider(t)

	for _, email := range []string{"", "not-an-email", "a@b", "a b@example.com"} {
		_, err := p.SignIn(context.Background(), email, "secret")
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("SignIn(%q): expected ErrInvalidEmail, got %v", email, err)
		}
	}
}

func TestSignIn_UnknownEmail(t *testing.T) {
	p, mock := newTestProvider(t)

	mock.ExpectQuery(`SELECT user_id, email, name, password_hash`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := p.SignIn(context.Background(), "ghost@example.com", "secret")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	p, mock := newTestProvider(t)
	expectCredential(mock, "alice@example.com", hashOf(t, "right"))

	_, err := p.SignIn(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, ErrBadCredential) {
		t.Errorf("expected ErrBadCredential, got %v", err)
	}
}

func TestSignIn_NormalizesEmail(t *testing.T) {
	p, mock := newTestProvider(t)
	expectCredential(mock, "alice@example.com", hashOf(t, "secret"))

	ident, err := p.SignIn(context.Background(), "  Alice@Example.COM ", "secret")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if ident.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", ident.Email)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSignIn_NotifiesSubscribersInOrder(t *testing.T) {
	p, mock := newTestProvider(t)
	expectCredential(mock, "alice@example.com", hashOf(t, "secret"))

	var got []string
	p.Subscribe(func(ident *Identity) { got = append(got, "first:"+ident.ID) })
	p.Subscribe(func(ident *Identity) { got = append(got, "second:"+ident.ID) })

	if _, err := p.SignIn(context.Background(), "alice@example.com", "secret"); err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}

	if len(got) != 2 || got[0] != "first:uid-1" || got[1] != "second:uid-1" {
		t.Errorf("expected ordered notifications, got %v", got)
	}
}

func TestSignOut_NotifiesNil(t *testing.T) {
	p, _ := newTestProvider(t)

	called := false
	p.Subscribe(func(ident *Identity) {
		called = true
		if ident != nil {
			t.Errorf("expected nil identity on sign-out, got %+v", ident)
		}
	})

	if err := p.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if !called {
		t.Error("expected subscriber to be notified")
	}
}

func TestSubscribe_UnsubscribeStopsNotifications(t *testing.T) {
	p, _ := newTestProvider(t)

	calls := 0
	unsub := p.Subscribe(func(*Identity) { calls++ })
	unsub()

	p.SignOut(context.Background())
	if calls != 0 {
		t.Errorf("expected no notifications after unsubscribe, got %d", calls)
	}
}

func TestSignIn_RateLimitedAfterRepeatedFailures(t *testing.T) {
	p, mock := newTestProvider(t)
	hash := hashOf(t, "right")

	for i := 0; i < maxFailedAttempts; i++ {
		expectCredential(mock, "alice@example.com", hash)
	}

	for i := 0; i < maxFailedAttempts; i++ {
		if _, err := p.SignIn(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrBadCredential) {
			t.Fatalf("attempt %d: expected ErrBadCredential, got %v", i+1, err)
		}
	}

	_, err := p.SignIn(context.Background(), "alice@example.com", "right")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestSignIn_RateLimitExpiresWithWindow(t *testing.T) {
	p, mock := newTestProvider(t)
	hash := hashOf(t, "right")

	current := time.Now()
	p.limiter.now = func() time.Time { return current }

	for i := 0; i < maxFailedAttempts; i++ {
		expectCredential(mock, "alice@example.com", hash)
	}
	for i := 0; i < maxFailedAttempts; i++ {
		p.SignIn(context.Background(), "alice@example.com", "wrong")
	}

	current = current.Add(attemptWindow + time.Minute)
	expectCredential(mock, "alice@example.com", hash)

	if _, err := p.SignIn(context.Background(), "alice@example.com", "right"); err != nil {
		t.Errorf("expected sign-in to succeed after the window, got %v", err)
	}
}

func TestSignIn_SuccessResetsLimiter(t *testing.T) {
	p, mock := newTestProvider(t)
	hash := hashOf(t, "right")

	for i := 0; i < maxFailedAttempts; i++ {
		expectCredential(mock, "alice@example.com", hash)
	}

	for i := 0; i < maxFailedAttempts-1; i++ {
		p.SignIn(context.Background(), "alice@example.com", "wrong")
	}
	if _, err := p.SignIn(context.Background(), "alice@example.com", "right"); err != nil {
		t.Fatalf("expected sign-in to succeed, got %v", err)
	}

	expectCredential(mock, "alice@example.com", hash)
	if _, err := p.SignIn(context.Background(), "alice@example.com", "right"); err != nil {
		t.Errorf("expected limiter to be reset after success, got %v", err)
	}
}

func TestRegister_StoresHashedCredential(t *testing.T) {
	p, mock := newTestProvider(t)

	mock.ExpectExec(`INSERT INTO auth_credentials`).
		WithArgs(sqlmock.AnyArg(), "dave@example.com", "Dave", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ident, err := p.Register(context.Background(), "Dave@Example.com", "secret", "Dave")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if ident.ID == "" {
		t.Error("expected a generated user ID")
	}
	if ident.Email != "dave@example.com" {
		t.Errorf("expected normalized email, got %q", ident.Email)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRegister_RejectsEmptyPassword(t *testing.T) {
	p, _ := newTestProvider(t)

	_, err := p.Register(context.Background(), "dave@example.com", "", "Dave")
	if !errors.Is(err, ErrBadCredential) {
		t.Errorf("expected ErrBadCredential, got %v", err)
	}
}
