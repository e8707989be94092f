package store

import (
	"context"
	"errors"
	"time"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Sub-repositories are reached
// through methods so a Tx-scoped Store hands out Tx-scoped repos.
type Store interface {
	Identities() Identities
	Todos() Todos
	NotificationSettings() NotificationSettings

	// DeleteOwnedBy removes every record owned by the identity in the
	// collaborating tables. Call it inside WithTx before deleting the
	// identity itself.
	DeleteOwnedBy(ctx context.Context, identityID int64) error

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Identities never returns a nil error with a zero Identity; absence is
// always ErrNotFound.
type Identities interface {
	GetByID(ctx context.Context, id int64) (domain.Identity, error)
	GetByLocalKey(ctx context.Context, key string) (domain.Identity, error)
	GetByProviderSubjectID(ctx context.Context, subjectID string) (domain.Identity, error)

	// GetByEmail returns the oldest identity carrying email.
	GetByEmail(ctx context.Context, email string) (domain.Identity, error)

	GetByRefreshTokenHash(ctx context.Context, hash string) (domain.Identity, error)

	// Create inserts i and fills ID and timestamps. Unique violations on the
	// local key or provider subject return ErrAlreadyExists.
	Create(ctx context.Context, i *domain.Identity) error

	// Update writes every mutable field of i and bumps updated_at.
	Update(ctx context.Context, i *domain.Identity) error

	// SetRefreshTokenHash replaces (or clears, with nil) the stored token.
	SetRefreshTokenHash(ctx context.Context, id int64, hash *string) error

	// ClearRefreshTokenHash clears the stored token only while it still
	// equals expected. A token replaced in the meantime is left alone and
	// no error is returned.
	ClearRefreshTokenHash(ctx context.Context, id int64, expected string) error

	SetPushAddress(ctx context.Context, id int64, addr *string) error

	Delete(ctx context.Context, id int64) error
}

type Todos interface {
	Create(ctx context.Context, t *domain.Todo) error
	GetByID(ctx context.Context, id int64) (domain.Todo, error)
	ListByIdentityAndDate(ctx context.Context, identityID int64, date string) ([]domain.Todo, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TodoStatus) error
	Delete(ctx context.Context, id int64) error

	// HasStatus reports whether the identity has any todo on date in status.
	HasStatus(ctx context.Context, identityID int64, date string, status domain.TodoStatus) (bool, error)

	// ResetDoneBefore moves DONE todos dated before date back to TODO.
	ResetDoneBefore(ctx context.Context, date string) (int64, error)

	DeleteByIdentity(ctx context.Context, identityID int64) (int64, error)
}

type NotificationSettings interface {
	GetByIdentity(ctx context.Context, identityID int64) (domain.NotificationSetting, error)

	// Upsert creates or replaces the identity's single setting and fills
	// ID and timestamps.
	Upsert(ctx context.Context, s *domain.NotificationSetting) error

	MarkNotified(ctx context.Context, id int64, at time.Time) error

	// ListEnabledTargets returns enabled settings whose owner has a push
	// address.
	ListEnabledTargets(ctx context.Context) ([]domain.ReminderTarget, error)

	DeleteByIdentity(ctx context.Context, identityID int64) error
}
