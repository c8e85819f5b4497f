package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexday/lexday-api/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-secret-key-that-is-at-least-32-chars",
		PassphraseHash:              "unused-here",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	}
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()
	cfg := testAuthConfig()
	cfg.JWTSecret = "too-short"

	service, err := NewJWTService(cfg)

	assert.Error(t, err)
	assert.Nil(t, service)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()
	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	ctx := context.Background()

	token, err := service.GenerateToken(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "owner", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()
	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	ctx := context.Background()

	token, err := service.GenerateRefreshToken(ctx)
	require.NoError(t, err)

	claims, err := service.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestTokenTypeMismatch(t *testing.T) {
	t.Parallel()
	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	ctx := context.Background()

	access, err := service.GenerateToken(ctx)
	require.NoError(t, err)
	refresh, err := service.GenerateRefreshToken(ctx)
	require.NoError(t, err)

	// A refresh token cannot be used as an access token, nor the reverse.
	_, err = service.ValidateToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = service.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()
	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	impl := service.(*hmacJWTService)
	ctx := context.Background()

	// Issue a token in the past, beyond lifetime plus clock skew.
	issuedAt := time.Now().Add(-2 * time.Hour)
	impl.timeFunc = func() time.Time { return issuedAt }
	token, err := service.GenerateToken(ctx)
	require.NoError(t, err)

	impl.timeFunc = time.Now
	_, err = service.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTamperedTokenRejected(t *testing.T) {
	t.Parallel()
	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	ctx := context.Background()

	token, err := service.GenerateToken(ctx)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = service.ValidateToken(ctx, tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSignedWithDifferentSecretRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	first, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "another-secret-key-that-is-32-chars-long"
	second, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	token, err := first.GenerateToken(ctx)
	require.NoError(t, err)

	_, err = second.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	t.Parallel()
	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	_, err = service.ValidateToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
