package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo holds the claims the CLI displays about a stored token. The token
// is decoded without signature verification: validation is the server's job,
// this is display only.
type TokenInfo struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenClaims mirrors the claims the ChatDocs API puts in its tokens
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// InspectToken decodes a bearer token's claims without verifying it
func InspectToken(tokenString string) (*TokenInfo, error) {
	var claims tokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	info := &TokenInfo{
		Subject: claims.Subject,
		Email:   claims.Email,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// IsExpired reports whether the token carries an expiry in the past. Tokens
// without an expiry claim never report expired.
func (t *TokenInfo) IsExpired() bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(t.ExpiresAt)
}
