package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jakbu/jakbu/pkg/jwtx"
)

// TokenIssuer mints and checks the bearer credentials handed to clients.
// Validation is pure and never consults the store.
type TokenIssuer struct {
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (t *TokenIssuer) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *TokenIssuer) IssueAccessToken(identityID int64) (string, error) {
	ttl := t.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	return t.issue(jwtx.TypeAccess, identityID, ttl)
}

func (t *TokenIssuer) IssueRefreshToken(identityID int64) (string, error) {
	ttl := t.RefreshTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultRefreshTokenTTL
	}
	return t.issue(jwtx.TypeRefresh, identityID, ttl)
}

func (t *TokenIssuer) issue(typ string, identityID int64, ttl time.Duration) (string, error) {
	claims := jwtx.NewClaims(typ, strconv.FormatInt(identityID, 10), t.Issuer, ttl, t.now())
	tok, err := t.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return tok, nil
}

// Validate returns the identity id carried by a token of the expected type.
// Every failure collapses into ErrInvalidToken.
func (t *TokenIssuer) Validate(token, expectedType string) (int64, error) {
	claims, err := t.Verifier.Verify(token)
	if err != nil {
		return 0, ErrInvalidToken
	}
	if err := claims.ValidateType(expectedType); err != nil {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// TokenPair issues a fresh access and refresh token for identityID.
func (t *TokenIssuer) TokenPair(identityID int64) (access, refresh string, err error) {
	access, err = t.IssueAccessToken(identityID)
	if err != nil {
		return "", "", err
	}
	refresh, err = t.IssueRefreshToken(identityID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
