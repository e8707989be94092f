package domain

import "time"

// Identity is the durable user record. A record may be local (LocalKey and
// PasswordHash set), federated (ProviderSubjectID set), or linked (both).
type Identity struct {
	ID                int64
	LocalKey          *string // account id or email used for local login
	PasswordHash      *string // argon2id PHC string; nil when local login is disabled
	DisplayName       string
	Email             *string
	ProviderSubjectID *string
	PushAddress       *string // device push token
	RefreshTokenHash  *string // fingerprint of the single live refresh token
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasPassword reports whether local login is enabled for the identity.
func (i Identity) HasPassword() bool {
	return i.PasswordHash != nil && *i.PasswordHash != ""
}

// IsLinked reports whether a provider subject is attached.
func (i Identity) IsLinked() bool {
	return i.ProviderSubjectID != nil && *i.ProviderSubjectID != ""
}

// Ptr returns &s, or nil for the empty string.
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns *s, or "" when s is nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
