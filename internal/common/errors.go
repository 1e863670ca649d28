// Package common defines shared constants and sentinel errors used across
// the client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Auth/session errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrAuthMissing  = errors.New("authentication required but no token present")
	ErrForbidden    = errors.New("forbidden")

	// Client-side input errors; these never reach the network.
	ErrValidation = errors.New("validation error")
)
