package mocks

import (
	"github.com/google/uuid"

	"github.com/mcoot/webgame/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// UUIDResults is a queue of results to return from UUID
	UUIDResults []uuid.UUID
	uuidIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// UUID returns the next queued result, or uuid.Nil if none remaining
func (r *MockRandom) UUID() uuid.UUID {
	if r.uuidIndex >= len(r.UUIDResults) {
		return uuid.Nil
	}
	result := r.UUIDResults[r.uuidIndex]
	r.uuidIndex++
	return result
}

// QueueUUID adds values to the UUID result queue
func (r *MockRandom) QueueUUID(values ...uuid.UUID) {
	r.UUIDResults = append(r.UUIDResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.UUIDResults = nil
	r.uuidIndex = 0
}
