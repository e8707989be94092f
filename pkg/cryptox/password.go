package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for newly created hashes. Existing hashes carry their
// own parameters in the PHC string and are verified with those.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16

	// Upper bounds accepted when reading parameters back out of a stored
	// hash, so a corrupted row cannot make verification allocate gigabytes.
	maxMemory      = 256 * 1024
	maxIterations  = 16
	maxParallelism = 16
)

// HashPassword returns a PHC-encoded Argon2id digest of password using a
// fresh random salt and the process pepper.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: failed to read salt: %w", err)
	}

	sum := argon2.IDKey([]byte(password+Pepper()), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// VerifyPassword reports whether password matches the PHC-encoded digest.
// Malformed or unsupported digests never match.
func VerifyPassword(password, encodedHash string) bool {
	p, ok := parsePHC(encodedHash)
	if !ok {
		return false
	}

	computed := argon2.IDKey(
		[]byte(password+Pepper()),
		p.salt,
		p.iterations,
		p.memory,
		p.parallelism,
		uint32(len(p.hash)), // #nosec G115 - bounded by parsePHC
	)

	return subtle.ConstantTimeCompare(computed, p.hash) == 1
}

type phcParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

// parsePHC splits $argon2id$v=19$m=X,t=Y,p=Z$salt$hash.
func parsePHC(encoded string) (phcParams, bool) {
	var p phcParams

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, false
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return p, false
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return p, false
	}
	// Sscanf stops at the last verb; reject anything it left unread.
	if parts[3] != fmt.Sprintf("m=%d,t=%d,p=%d", p.memory, p.iterations, p.parallelism) {
		return p, false
	}
	if p.memory == 0 || p.memory > maxMemory ||
		p.iterations == 0 || p.iterations > maxIterations ||
		p.parallelism == 0 || p.parallelism > maxParallelism {
		return p, false
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.salt) == 0 {
		return p, false
	}
	if p.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.hash) == 0 || len(p.hash) > 128 {
		return p, false
	}

	return p, true
}
