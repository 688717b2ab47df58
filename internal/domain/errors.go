package domain

import "errors"

var (
	// ErrInvalidInput is returned when a mutation receives an argument it cannot use.
	// The cart is never modified when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPersistenceUnavailable marks failures of the underlying storage.
	// The cart store recovers from it locally and never returns it to callers.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
