// Package auth guards the single-user API with a passphrase login and JWT
// session tokens.
package auth

import (
	"context"
	"time"
)

// TokenTypeAccess and TokenTypeRefresh are the two token purposes. The type
// is embedded in the claims so one cannot stand in for the other.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims represents the validated claims of a session token.
type Claims struct {
	// TokenType indicates the purpose of the token ("access" or "refresh").
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// JWTService defines operations for managing JWT authentication tokens.
// This is a single-user system, so tokens carry no user identity beyond the
// fixed owner subject.
type JWTService interface {
	// GenerateToken creates a signed JWT access token.
	GenerateToken(ctx context.Context) (string, error)

	// ValidateToken validates an access token string and extracts the
	// claims, or returns an error (expired, invalid signature, wrong type).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token. Refresh
	// tokens have a longer lifetime and are used to obtain new access
	// tokens.
	GenerateRefreshToken(ctx context.Context) (string, error)

	// ValidateRefreshToken validates a refresh token string and extracts
	// the claims.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}
