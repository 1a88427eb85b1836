// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors. Every token verification failure collapses into
	// ErrInvalidToken regardless of cause; callers must not be able to
	// tell a bad signature from an expired or mistyped token.
	ErrInvalidToken = errors.New("invalid or expired token")
)
