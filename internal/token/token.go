// Package token mints and verifies the session tokens issued at login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/role"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/user"
)

const (
	// Issuer and Audience are pinned on every token.
	Issuer   = "oct4crypt"
	Audience = "oct4crypt-users"
)

// Claims carries the session claims of a signed token.
// The role claim is a cached copy for the client's benefit only;
// authorization always re-reads the directory.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// UserID returns the directory ID the token was minted for.
func (c *Claims) UserID() string {
	return c.Subject
}

// Manager signs and verifies session tokens with an HMAC secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager. The secret is required.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// Mint issues a signed token for the given directory record.
func (m *Manager) Mint(rec *user.Record) (string, error) {
	if !rec.Role.Valid() {
		return "", fmt.Errorf("cannot mint token for unknown role %q", rec.Role)
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rec.ID,
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: rec.Email,
		Role:  rec.Role.String(),
		Name:  rec.DisplayName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns its claims.
// Signing method, issuer, audience, and the role literal are all pinned.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if _, err := role.Parse(claims.Role); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	return claims, nil
}
