// Package common defines shared constants and sentinel errors used across
// client layers of MedQuery. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrorNotFound = errors.New("not found")

	// Credential errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrInvalidToken   = errors.New("invalid token")

	// Payload errors.
	ErrorValidation = errors.New("validation error")
)
