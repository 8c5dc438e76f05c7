package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPatch(t *testing.T) {
	patch, err := buildPatch([]string{"login=alice", "firstName=A=B"})
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"op":"replace","path":"/login","value":"alice"},
		{"op":"replace","path":"/firstName","value":"A=B"}
	]`, string(patch))
}

func TestBuildPatchRejectsMalformedSet(t *testing.T) {
	_, err := buildPatch([]string{"login"})
	assert.Error(t, err)

	_, err = buildPatch([]string{"=x"})
	assert.Error(t, err)
}
