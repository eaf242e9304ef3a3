// Package identity canonicalizes raw usernames into storage keys. Every
// store operation that takes a username goes through Normalize first, so two
// spellings of the same name can never fragment into separate accounts.
package identity

import (
	"strings"

	"github.com/voxdrop/voxdrop/internal/common"
)

// DefaultMinLength is the minimum canonical key length accepted when no
// explicit limit is configured.
const DefaultMinLength = 3

// Normalizer derives canonical account keys from raw user input.
// The zero value is not usable; construct with NewNormalizer.
type Normalizer struct {
	minLength int
}

func NewNormalizer(minLength int) *Normalizer {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &Normalizer{minLength: minLength}
}

// Normalize trims surrounding whitespace and lowercases the input. It is
// total and deterministic: the same raw input always yields the same key.
// Returns common.ErrInvalidIdentity when the result is empty or shorter
// than the configured minimum.
func (n *Normalizer) Normalize(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if len(key) < n.minLength {
		return "", common.ErrInvalidIdentity
	}
	return key, nil
}
