package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordDeterministicPerSalt(t *testing.T) {
	h1 := HashPassword("salt-a", "secret")
	h2 := HashPassword("salt-a", "secret")
	h3 := HashPassword("salt-b", "secret")

	assert.Equal(t, h1, h2, "same salt and password must derive the same hash")
	assert.NotEqual(t, h1, h3, "a different salt must change the hash")
	assert.NotContains(t, h1, "secret")
}

func TestVerifyPassword(t *testing.T) {
	hash := HashPassword("salt-a", "secret")

	assert.True(t, VerifyPassword(hash, "salt-a", "secret"))
	assert.False(t, VerifyPassword(hash, "salt-a", "wrong"))
	assert.False(t, VerifyPassword(hash, "salt-b", "secret"))
	assert.False(t, VerifyPassword("", "salt-a", "secret"))
}

func TestNewToken(t *testing.T) {
	a, err := NewToken(48)
	require.NoError(t, err)
	b, err := NewToken(48)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	// 48 random bytes in unpadded base64url
	assert.Len(t, a, 64)
	assert.NotContains(t, a, "=")
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}
