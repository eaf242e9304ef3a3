// Package token issues and verifies bearer session tokens bound to an
// account key. Tokens are HS256-signed JWTs carrying an expiry; expiry is
// the only invalidation mechanism, no revocation list is kept.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/voxdrop/voxdrop/internal/common"
)

// DefaultValidity is the token lifetime used when none is configured.
const DefaultValidity = 7 * 24 * time.Hour

// Claims includes the registered claims plus the canonical account key the
// token was issued for.
type Claims struct {
	jwt.RegisteredClaims
	AccountKey string
}

// Manager signs and verifies tokens with a process-wide secret established
// at startup. The secret is immutable after construction and never
// persisted by this package.
type Manager struct {
	secret   []byte
	validity time.Duration
}

// NewManager returns a Manager signing with the given secret. Returns
// common.ErrInvalidInput if the secret is empty; the caller is expected to
// treat that as a startup failure.
func NewManager(secret []byte, validity time.Duration) (*Manager, error) {
	if len(secret) == 0 {
		return nil, common.ErrInvalidInput
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &Manager{secret: secret, validity: validity}, nil
}

// Issue produces a signed token for the given account key.
func (m *Manager) Issue(accountKey string) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		AccountKey: accountKey,
	})
	return tok.SignedString(m.secret)
}

// Verify parses the token string and returns the account key it was issued
// for. Malformed, expired and mis-signed tokens all fail with
// common.ErrInvalidToken; the caller cannot distinguish the cases.
func (m *Manager) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", common.ErrInvalidToken
	}
	if !tok.Valid || claims.AccountKey == "" {
		return "", common.ErrInvalidToken
	}

	return claims.AccountKey, nil
}
