package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jakbu/jakbu/internal/jakbu/store"
)

type txStore struct {
	tx  *sql.Tx
	now func() time.Time
}

func newTx(tx *sql.Tx, now func() time.Time) *txStore {
	return &txStore{tx: tx, now: now}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the owning Store keeps the DB open.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Identities() store.Identities { return &identitiesRepo{db: t.tx, now: t.now} }
func (t *txStore) Todos() store.Todos           { return &todosRepo{db: t.tx, now: t.now} }
func (t *txStore) NotificationSettings() store.NotificationSettings {
	return &notificationSettingsRepo{db: t.tx, now: t.now}
}

func (t *txStore) DeleteOwnedBy(ctx context.Context, identityID int64) error {
	return deleteOwnedBy(ctx, t.tx, identityID)
}

// ApplyMigrations is a no-op; migrations run before any transaction.
func (t *txStore) ApplyMigrations() error { return nil }
