package store

import "errors"

var (
	// ErrNotFound is returned when an identifier resolves to no record.
	ErrNotFound = errors.New("task not found")

	// ErrTaskExists is returned when a create collides with an existing
	// record.
	ErrTaskExists = errors.New("task already exists")
)
