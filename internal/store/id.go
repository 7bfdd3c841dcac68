package store

import "github.com/google/uuid"

// NewID produces a collision-resistant unique task identifier.
func NewID() uuid.UUID {
	return uuid.New()
}
