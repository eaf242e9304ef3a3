// Package common defines shared sentinel errors used across the VoxDrop
// service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// store-level errors
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreCorrupt     = errors.New("store corrupt")

	// validation errors
	ErrInvalidIdentity = errors.New("invalid identity")
	ErrInvalidInput    = errors.New("invalid input")

	// service-level errors
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// auth errors (malformed, expired or mis-signed token; valid token
	// whose account is gone)
	ErrInvalidToken    = errors.New("invalid token")
	ErrAccountNotFound = errors.New("account not found")

	// generic/internal flow control
	ErrInternal = errors.New("internal error")
)
