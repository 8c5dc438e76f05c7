package random

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCryptoRandomUUID(t *testing.T) {
	r := New()

	a := r.UUID()
	b := r.UUID()

	assert.NotEqual(t, uuid.Nil, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, uuid.Version(4), a.Version())
}
