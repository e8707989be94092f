package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	pepperMu sync.RWMutex
	pepper   string
)

// Pepper returns the secret appended to every password before hashing.
// It is empty until SetPepper or LoadPepperFile has been called.
func Pepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}

// SetPepper replaces the process pepper.
func SetPepper(p string) {
	pepperMu.Lock()
	pepper = p
	pepperMu.Unlock()
}

// LoadPepperFile reads the pepper from path, creating the file with a random
// value on first start.
func LoadPepperFile(path string) error {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		p := strings.TrimSpace(string(data))
		if p == "" {
			return fmt.Errorf("cryptox: pepper file %s is empty", path)
		}
		SetPepper(p)
		return nil

	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("cryptox: failed to create pepper dir: %w", err)
		}

		buf := make([]byte, keyLength)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("cryptox: failed to generate pepper: %w", err)
		}
		p := base64.RawURLEncoding.EncodeToString(buf)

		if err := os.WriteFile(path, []byte(p), 0o600); err != nil {
			return fmt.Errorf("cryptox: failed to write pepper: %w", err)
		}
		SetPepper(p)
		return nil

	default:
		return fmt.Errorf("cryptox: failed to read pepper: %w", err)
	}
}
