package storage

import (
	"fmt"

	"github.com/google/uuid"
)

// AssignID returns id unchanged, or a fresh random UUID when id is nil
func AssignID(id uuid.UUID) (uuid.UUID, error) {
	if id != uuid.Nil {
		return id, nil
	}
	fresh, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate id: %w", err)
	}
	return fresh, nil
}

// ValidPage reports whether a page request is usable by a backend
func ValidPage(pageNumber, pageSize int) error {
	if pageNumber < 1 || pageSize < 1 {
		return fmt.Errorf("invalid page request (number %d, size %d)", pageNumber, pageSize)
	}
	return nil
}
