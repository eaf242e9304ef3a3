// Package credential provides one-way password hashing and verification.
// It is stateless and side-effect-free; hashes are bcrypt with per-hash
// random salt, so a stored hash never equals the plaintext and resists
// offline guessing.
package credential

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/voxdrop/voxdrop/internal/common"
)

// NoLoginHash is the credential stored for auto-provisioned accounts. It is
// not a valid bcrypt hash, so Verify fails for every possible password and
// no login attempt can succeed against it.
const NoLoginHash = "!"

// Hash derives a salted bcrypt hash from the given password. Returns
// common.ErrInvalidInput for an empty password.
func Hash(password string) (string, error) {
	if password == "" {
		return "", common.ErrInvalidInput
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches the stored hash.
func Verify(password, credentialHash string) bool {
	if password == "" || credentialHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(credentialHash), []byte(password)) == nil
}
