package gorm

import "errors"

// Store-level sentinel errors. Handlers map these to HTTP statuses.
var (
	// ErrNotFound is returned when a referenced entity does not exist or
	// has been soft-deleted.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a client create or update would
	// violate the case-insensitive email uniqueness constraint.
	ErrDuplicateEmail = errors.New("email already in use")
)
