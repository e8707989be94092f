package jwtx

import (
	"crypto"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jakbu/jakbu/pkg/cryptox"
)

// EdDSASigner signs tokens with an Ed25519 private key.
type EdDSASigner struct {
	kid string
	key ed25519.PrivateKey
	pub ed25519.PublicKey
}

func newEdDSASigner(kid string, pemKey []byte) (*EdDSASigner, error) {
	if kid == "" {
		return nil, errors.New("jwtx: empty kid")
	}

	key, err := cryptox.ParseEd25519PrivateKey(pemKey)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load Ed25519 key: %w", err)
	}

	return &EdDSASigner{
		kid: kid,
		key: key,
		pub: key.Public().(ed25519.PublicKey),
	}, nil
}

func (s *EdDSASigner) Alg() string              { return jwt.SigningMethodEdDSA.Alg() }
func (s *EdDSASigner) KID() string              { return s.kid }
func (s *EdDSASigner) Public() crypto.PublicKey { return s.pub }

// Sign serialises claims into a compact JWS with the kid header set.
func (s *EdDSASigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}
