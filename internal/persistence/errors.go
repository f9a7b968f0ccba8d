package persistence

import "errors"

var (
	// ErrNotFound is returned when no record matches the given identifier.
	ErrNotFound = errors.New("persistence: not found")
	// ErrInvalidInput is returned when the gateway's own validation rejects a
	// value. The gateway trusts no caller; handlers validate first, this layer
	// validates again.
	ErrInvalidInput = errors.New("persistence: invalid input")
	// ErrConstraintViolation is returned when the store rejects a statement
	// for a uniqueness or referential constraint.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
)
