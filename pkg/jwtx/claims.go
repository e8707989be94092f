package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jakbu/jakbu/pkg/idx"
)

const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 14 * 24 * time.Hour
)

// Token types carried in the "typ" claim. An access token is never accepted
// where a refresh token is expected, and the other way round.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims are the claims of every token minted by the service.
type Claims struct {
	jwt.RegisteredClaims

	// Type is either TypeAccess or TypeRefresh.
	Type string `json:"typ"`
}

// NewClaims builds claims for subject valid from now until now+ttl. Every
// call gets a fresh ULID jti, so two tokens minted in the same second for
// the same subject still differ.
func NewClaims(typ, subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.NewAt(now).String(),
		},
		Type: typ,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateType checks the typ claim. An empty expectation accepts any type.
func (c *Claims) ValidateType(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Type != expected {
		return ErrType
	}
	return nil
}

// ValidateExpiry ensures the token has an exp in the future and is not used
// before nbf.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil || !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
