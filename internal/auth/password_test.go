package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPasswordVerifies(t *testing.T) {
	digest, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", digest)

	require.True(t, VerifyPassword("s3cret-pass", digest))
	require.False(t, VerifyPassword("wrong-pass", digest))
}

func TestHashPasswordSaltVaries(t *testing.T) {
	first, err := HashPassword("same-input")
	require.NoError(t, err)
	second, err := HashPassword("same-input")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, VerifyPassword("same-input", first))
	require.True(t, VerifyPassword("same-input", second))
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	require.False(t, VerifyPassword("anything", "not-a-bcrypt-digest"))
	require.False(t, VerifyPassword("anything", ""))
}
