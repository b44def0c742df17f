package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an insert violates the unique
	// email constraint. The constraint is the authoritative duplicate
	// check; the service-level pre-check only narrows the window.
	ErrDuplicateEmail = errors.New("email already registered")
)
