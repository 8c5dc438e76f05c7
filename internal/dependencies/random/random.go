package random

import (
	"github.com/google/uuid"
)

// Random provides identifier generation that can be mocked for testing
type Random interface {
	// UUID returns a new random (version 4) UUID
	UUID() uuid.UUID
}

// CryptoRandom implements Random using crypto/rand via google/uuid
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// UUID returns a random UUID, or uuid.Nil if the system source fails.
// Storage assigns a fresh id to any entity inserted with uuid.Nil.
func (r *CryptoRandom) UUID() uuid.UUID {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil
	}
	return id
}
