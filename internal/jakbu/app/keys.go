package app

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jakbu/jakbu/pkg/cryptox"
	"github.com/jakbu/jakbu/pkg/jwtx"
)

// Keys is the signing material shared by the token issuer and the router.
type Keys struct {
	Signer   jwtx.Signer
	KeySet   *jwtx.KeySet
	Verifier *jwtx.EdDSAVerifier
}

// InitSigningKeys loads the Ed25519 signing key from cfg.SigningKeyFile.
//
// A missing file is fatal unless cfg.GenerateSigningKey is set, in which case
// a fresh key is written to that path before use. There is a single active
// key and no rotation; replacing the file invalidates every issued token.
func InitSigningKeys(cfg Config, logger *slog.Logger) (*Keys, error) {
	path := filepath.Clean(cfg.SigningKeyFile)

	pemKey, err := os.ReadFile(path)
	switch {
	case err == nil:
		logger.Info("signing key loaded", "path", path)

	case errors.Is(err, fs.ErrNotExist) && cfg.GenerateSigningKey:
		pemKey, err = generateKeyFile(path)
		if err != nil {
			return nil, err
		}
		logger.Warn("signing key generated", "path", path)

	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("signing key %s not found (set JAKBU_GENERATE_SIGNING_KEY=true to create one)", path)

	default:
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	priv, err := cryptox.ParseEd25519PrivateKey(pemKey)
	if err != nil {
		return nil, err
	}

	signer, err := jwtx.NewSignerEdDSA(keyID(priv.Public().(ed25519.PublicKey)), pemKey)
	if err != nil {
		return nil, fmt.Errorf("build signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, err
	}

	return &Keys{
		Signer:   signer,
		KeySet:   keys,
		Verifier: jwtx.NewVerifierEdDSA(keys, cfg.Issuer),
	}, nil
}

func generateKeyFile(path string) ([]byte, error) {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create key dir: %w", err)
	}
	if err := os.WriteFile(path, pemKey, 0o600); err != nil {
		return nil, fmt.Errorf("write signing key: %w", err)
	}
	return pemKey, nil
}

// keyID derives a stable kid from the public key so restarts keep it.
func keyID(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:8])
}
