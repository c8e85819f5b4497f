package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompareRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassphrase("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	verifier := NewBcryptVerifier()
	assert.NoError(t, verifier.Compare(hash, "correct horse battery staple"))
	assert.Error(t, verifier.Compare(hash, "wrong passphrase"))
}

func TestCompareRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	verifier := NewBcryptVerifier()
	assert.Error(t, verifier.Compare("not-a-bcrypt-hash", "anything"))
}
