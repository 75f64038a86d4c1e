package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	tok, digest, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, tok, 2*ResetTokenBytes)
	assert.Len(t, digest, 64)
	assert.Equal(t, Digest(tok), digest)
	assert.NotEqual(t, tok, digest)

	other, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}
