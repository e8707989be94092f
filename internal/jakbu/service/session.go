package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
	"github.com/jakbu/jakbu/internal/jakbu/federation"
	"github.com/jakbu/jakbu/internal/jakbu/store"
	"github.com/jakbu/jakbu/pkg/cryptox"
	"github.com/jakbu/jakbu/pkg/jwtx"
	"github.com/jakbu/jakbu/pkg/slogx"
)

const (
	MinLocalKeyLength    = 3
	MaxLocalKeyLength    = 50
	MinPasswordLength    = 6
	MaxPasswordLength    = 128
	MaxDisplayNameLength = 100
)

// Federation is the provider exchange used by FederatedLogin.
type Federation interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchRemoteIdentity(ctx context.Context, accessToken string) (federation.RemoteIdentity, error)
}

// SessionService owns signup, login and the refresh token lifecycle.
type SessionService struct {
	Store      store.Store
	Tokens     *TokenIssuer
	Federation Federation
	Reconciler *Reconciler
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnVerify spends the same effort as a real password check so unknown
// keys and password-less identities cannot be told apart by timing.
func burnVerify(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = cryptox.HashPassword("jakbu-dummy-password")
	})
	_ = cryptox.VerifyPassword(password, dummyHash)
}

func validateSignup(localKey, password, name string) error {
	if n := utf8.RuneCountInString(localKey); n < MinLocalKeyLength || n > MaxLocalKeyLength {
		return invalid("accountId", fmt.Sprintf("must be %d-%d characters", MinLocalKeyLength, MaxLocalKeyLength))
	}
	if n := utf8.RuneCountInString(password); n < MinPasswordLength || n > MaxPasswordLength {
		return invalid("password", fmt.Sprintf("must be %d-%d characters", MinPasswordLength, MaxPasswordLength))
	}
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxDisplayNameLength {
		return invalid("name", fmt.Sprintf("must be 1-%d characters", MaxDisplayNameLength))
	}
	return nil
}

// Signup creates a local identity and signs it in.
func (s *SessionService) Signup(ctx context.Context, localKey, password, name string) (*domain.Session, error) {
	l := slogx.FromContext(ctx)
	localKey = strings.TrimSpace(localKey)
	name = strings.TrimSpace(name)
	if err := validateSignup(localKey, password, name); err != nil {
		return nil, err
	}

	_, err := s.Store.Identities().GetByLocalKey(ctx, localKey)
	switch {
	case err == nil:
		return nil, ErrDuplicateKey
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("lookup local key: %w", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	identity := domain.Identity{
		LocalKey:     domain.Ptr(localKey),
		PasswordHash: domain.Ptr(hash),
		DisplayName:  name,
	}
	var session *domain.Session
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Identities().Create(ctx, &identity); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateKey
			}
			return fmt.Errorf("create identity: %w", err)
		}
		session, err = s.startSession(ctx, tx, identity)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.Info("identity signed up", "identity_id", identity.ID)
	return session, nil
}

// Login checks local credentials. Unknown key, missing password and wrong
// password are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, localKey, password string) (*domain.Session, error) {
	l := slogx.FromContext(ctx)
	localKey = strings.TrimSpace(localKey)

	identity, err := s.Store.Identities().GetByLocalKey(ctx, localKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("lookup local key: %w", err)
		}
		burnVerify(password)
		l.Info("login failed", "reason", "unknown_key")
		return nil, ErrInvalidCredentials
	}
	if !identity.HasPassword() {
		burnVerify(password)
		l.Info("login failed", "reason", "no_password", "identity_id", identity.ID)
		return nil, ErrInvalidCredentials
	}
	if !cryptox.VerifyPassword(password, *identity.PasswordHash) {
		l.Info("login failed", "reason", "bad_password", "identity_id", identity.ID)
		return nil, ErrInvalidCredentials
	}

	var session *domain.Session
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		session, err = s.startSession(ctx, tx, identity)
		if errors.Is(err, store.ErrNotFound) {
			// Deleted after the credential check.
			l.Info("login failed", "reason", "identity_gone", "identity_id", identity.ID)
			return ErrInvalidCredentials
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// FederatedLogin exchanges a provider authorization code and signs in the
// reconciled identity.
func (s *SessionService) FederatedLogin(ctx context.Context, code string) (*domain.Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalid("code", "is required")
	}

	providerToken, err := s.Federation.ExchangeCode(ctx, code)
	if err != nil {
		return nil, &federationError{cause: err}
	}
	remote, err := s.Federation.FetchRemoteIdentity(ctx, providerToken)
	if err != nil {
		return nil, &federationError{cause: err}
	}

	var session *domain.Session
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		identity, err := s.Reconciler.resolve(ctx, tx, remote)
		if err != nil {
			return err
		}
		session, err = s.startSession(ctx, tx, *identity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Refresh issues a new access token for a stored refresh token. The refresh
// token itself is not rotated.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	l := slogx.FromContext(ctx)
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}

	fingerprint := cryptox.FingerprintToken(refreshToken)
	identity, err := s.Store.Identities().GetByRefreshTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	id, err := s.Tokens.Validate(refreshToken, jwtx.TypeRefresh)
	if err != nil || id != identity.ID {
		l.Info("stored refresh token rejected, clearing", "identity_id", identity.ID)
		// A concurrent login may already have stored a new token.
		if err := s.Store.Identities().ClearRefreshTokenHash(ctx, identity.ID, fingerprint); err != nil {
			return nil, fmt.Errorf("clear refresh token: %w", err)
		}
		return nil, ErrInvalidToken
	}

	access, err := s.Tokens.IssueAccessToken(identity.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		AccessToken:  access,
		RefreshToken: refreshToken,
		IdentityID:   identity.ID,
		DisplayName:  identity.DisplayName,
	}, nil
}

// Logout drops the stored refresh token. Unknown ids are not an error.
func (s *SessionService) Logout(ctx context.Context, identityID int64) error {
	err := s.Store.Identities().SetRefreshTokenHash(ctx, identityID, nil)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	slogx.FromContext(ctx).Info("identity logged out", "identity_id", identityID)
	return nil
}

// DeleteAccount removes the identity and everything it owns atomically.
func (s *SessionService) DeleteAccount(ctx context.Context, identityID int64) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Identities().GetByID(ctx, identityID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lookup identity: %w", err)
		}
		if err := tx.DeleteOwnedBy(ctx, identityID); err != nil {
			return fmt.Errorf("delete owned records: %w", err)
		}
		if err := tx.Identities().Delete(ctx, identityID); err != nil {
			return fmt.Errorf("delete identity: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("account deleted", "identity_id", identityID)
	return nil
}

// startSession mints a token pair and stores the refresh fingerprint,
// replacing any previous one.
func (s *SessionService) startSession(ctx context.Context, tx store.Store, identity domain.Identity) (*domain.Session, error) {
	access, refresh, err := s.Tokens.TokenPair(identity.ID)
	if err != nil {
		return nil, err
	}
	fp := cryptox.FingerprintToken(refresh)
	if err := tx.Identities().SetRefreshTokenHash(ctx, identity.ID, &fp); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &domain.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		IdentityID:   identity.ID,
		DisplayName:  identity.DisplayName,
	}, nil
}
