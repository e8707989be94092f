package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
	"github.com/jakbu/jakbu/internal/jakbu/store"
	"github.com/jakbu/jakbu/internal/jakbu/store/drivers/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(sqlite.FileDSN(filepath.Join(t.TempDir(), "jakbu.db")))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createLocal(t *testing.T, s store.Store, key string) domain.Identity {
	t.Helper()
	i := domain.Identity{
		LocalKey:     domain.Ptr(key),
		PasswordHash: domain.Ptr("hash"),
		DisplayName:  "Tester",
	}
	require.NoError(t, s.Identities().Create(context.Background(), &i))
	return i
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestIdentities_CreateAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	i := domain.Identity{
		LocalKey:          domain.Ptr("alice"),
		PasswordHash:      domain.Ptr("hash"),
		DisplayName:       "Alice",
		Email:             domain.Ptr("alice@example.com"),
		ProviderSubjectID: domain.Ptr("9001"),
	}
	require.NoError(t, s.Identities().Create(ctx, &i))
	require.NotZero(t, i.ID)
	require.False(t, i.CreatedAt.IsZero())

	byKey, err := s.Identities().GetByLocalKey(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, i.ID, byKey.ID)
	require.Equal(t, "Alice", byKey.DisplayName)
	require.Nil(t, byKey.PushAddress)

	bySub, err := s.Identities().GetByProviderSubjectID(ctx, "9001")
	require.NoError(t, err)
	require.Equal(t, i.ID, bySub.ID)

	byEmail, err := s.Identities().GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, i.ID, byEmail.ID)

	_, err = s.Identities().GetByLocalKey(ctx, "bob")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestIdentities_UniqueKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createLocal(t, s, "alice")

	dup := domain.Identity{LocalKey: domain.Ptr("alice"), DisplayName: "Other"}
	err := s.Identities().Create(ctx, &dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	a := domain.Identity{ProviderSubjectID: domain.Ptr("42"), DisplayName: "A"}
	require.NoError(t, s.Identities().Create(ctx, &a))
	b := domain.Identity{ProviderSubjectID: domain.Ptr("42"), DisplayName: "B"}
	require.ErrorIs(t, s.Identities().Create(ctx, &b), store.ErrAlreadyExists)
}

func TestIdentities_EmailIsNotUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := domain.Identity{DisplayName: "First", Email: domain.Ptr("x@example.com")}
	second := domain.Identity{DisplayName: "Second", Email: domain.Ptr("x@example.com")}
	require.NoError(t, s.Identities().Create(ctx, &first))
	require.NoError(t, s.Identities().Create(ctx, &second))

	got, err := s.Identities().GetByEmail(ctx, "x@example.com")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
}

func TestIdentities_RefreshTokenHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	i := createLocal(t, s, "alice")

	require.NoError(t, s.Identities().SetRefreshTokenHash(ctx, i.ID, domain.Ptr("fp-1")))
	got, err := s.Identities().GetByRefreshTokenHash(ctx, "fp-1")
	require.NoError(t, err)
	require.Equal(t, i.ID, got.ID)

	require.NoError(t, s.Identities().SetRefreshTokenHash(ctx, i.ID, nil))
	_, err = s.Identities().GetByRefreshTokenHash(ctx, "fp-1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Identities().SetRefreshTokenHash(ctx, 999, domain.Ptr("x")), store.ErrNotFound)
}

func TestIdentities_ClearRefreshTokenHashComparesFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	i := createLocal(t, s, "alice")

	require.NoError(t, s.Identities().SetRefreshTokenHash(ctx, i.ID, domain.Ptr("fp-new")))

	// A stale value leaves the current token in place.
	require.NoError(t, s.Identities().ClearRefreshTokenHash(ctx, i.ID, "fp-old"))
	got, err := s.Identities().GetByRefreshTokenHash(ctx, "fp-new")
	require.NoError(t, err)
	require.Equal(t, i.ID, got.ID)

	require.NoError(t, s.Identities().ClearRefreshTokenHash(ctx, i.ID, "fp-new"))
	_, err = s.Identities().GetByRefreshTokenHash(ctx, "fp-new")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Identities().ClearRefreshTokenHash(ctx, 999, "fp-new"))
}

func TestIdentities_UpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	i := createLocal(t, s, "alice")

	i.ProviderSubjectID = domain.Ptr("77")
	i.Email = domain.Ptr("alice@example.com")
	require.NoError(t, s.Identities().Update(ctx, &i))

	got, err := s.Identities().GetByProviderSubjectID(ctx, "77")
	require.NoError(t, err)
	require.Equal(t, "alice", domain.Deref(got.LocalKey))

	require.NoError(t, s.Identities().SetPushAddress(ctx, i.ID, domain.Ptr("device-1")))
	got, err = s.Identities().GetByID(ctx, i.ID)
	require.NoError(t, err)
	require.Equal(t, "device-1", domain.Deref(got.PushAddress))

	require.NoError(t, s.Identities().Delete(ctx, i.ID))
	require.ErrorIs(t, s.Identities().Delete(ctx, i.ID), store.ErrNotFound)
}

func TestTodos_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createLocal(t, s, "alice")

	todo := domain.Todo{IdentityID: owner.ID, Title: "write tests", Date: "2026-10-15", Status: domain.TodoStatusTodo}
	require.NoError(t, s.Todos().Create(ctx, &todo))
	other := domain.Todo{IdentityID: owner.ID, Title: "later", Date: "2026-10-16", Status: domain.TodoStatusTodo}
	require.NoError(t, s.Todos().Create(ctx, &other))

	list, err := s.Todos().ListByIdentityAndDate(ctx, owner.ID, "2026-10-15")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "write tests", list[0].Title)

	require.NoError(t, s.Todos().UpdateStatus(ctx, todo.ID, domain.TodoStatusDone))
	done, err := s.Todos().HasStatus(ctx, owner.ID, "2026-10-15", domain.TodoStatusDone)
	require.NoError(t, err)
	require.True(t, done)

	n, err := s.Todos().ResetDoneBefore(ctx, "2026-10-16")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := s.Todos().GetByID(ctx, todo.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TodoStatusTodo, got.Status)

	require.NoError(t, s.Todos().Delete(ctx, todo.ID))
	_, err = s.Todos().GetByID(ctx, todo.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	empty, err := s.Todos().ListByIdentityAndDate(ctx, owner.ID, "2000-01-01")
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestTodos_ForeignKeyEnforced(t *testing.T) {
	s := newTestStore(t)
	todo := domain.Todo{IdentityID: 12345, Title: "orphan", Date: "2026-10-15", Status: domain.TodoStatusTodo}
	require.ErrorIs(t, s.Todos().Create(context.Background(), &todo), store.ErrNotFound)
}

func TestNotificationSettings_UpsertAndTargets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createLocal(t, s, "alice")

	setting := domain.NotificationSetting{IdentityID: owner.ID, Interval: domain.IntervalTwoHour, Enabled: true}
	require.NoError(t, s.NotificationSettings().Upsert(ctx, &setting))
	firstID := setting.ID

	setting = domain.NotificationSetting{IdentityID: owner.ID, Interval: domain.IntervalDaily, Enabled: true}
	require.NoError(t, s.NotificationSettings().Upsert(ctx, &setting))
	require.Equal(t, firstID, setting.ID)
	require.Equal(t, domain.IntervalDaily, setting.Interval)

	targets, err := s.NotificationSettings().ListEnabledTargets(ctx)
	require.NoError(t, err)
	require.Empty(t, targets, "no push address yet")

	require.NoError(t, s.Identities().SetPushAddress(ctx, owner.ID, domain.Ptr("device-1")))
	targets, err = s.NotificationSettings().ListEnabledTargets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	require.Equal(t, "device-1", targets[0].PushAddress)
	require.Nil(t, targets[0].Setting.LastNotifiedAt)

	at := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.NotificationSettings().MarkNotified(ctx, setting.ID, at))
	got, err := s.NotificationSettings().GetByIdentity(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastNotifiedAt)
	require.True(t, at.Equal(*got.LastNotifiedAt))
}

func TestDeleteOwnedBy_RemovesCollaboratingRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createLocal(t, s, "alice")
	keep := createLocal(t, s, "bob")

	for _, id := range []int64{owner.ID, keep.ID} {
		todo := domain.Todo{IdentityID: id, Title: "t", Date: "2026-10-15", Status: domain.TodoStatusTodo}
		require.NoError(t, s.Todos().Create(ctx, &todo))
	}
	setting := domain.NotificationSetting{IdentityID: owner.ID, Interval: domain.IntervalDaily, Enabled: true}
	require.NoError(t, s.NotificationSettings().Upsert(ctx, &setting))

	// The identity row cannot go while todos still reference it.
	require.Error(t, s.Identities().Delete(ctx, owner.ID))

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.DeleteOwnedBy(ctx, owner.ID); err != nil {
			return err
		}
		return tx.Identities().Delete(ctx, owner.ID)
	})
	require.NoError(t, err)

	_, err = s.NotificationSettings().GetByIdentity(ctx, owner.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	list, err := s.Todos().ListByIdentityAndDate(ctx, keep.ID, "2026-10-15")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		i := domain.Identity{LocalKey: domain.Ptr("ghost"), DisplayName: "Ghost"}
		if err := tx.Identities().Create(ctx, &i); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Identities().GetByLocalKey(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTx_NestedNotSupported(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Tx(ctx)
		require.ErrorIs(t, err, sql.ErrTxDone)
		return tx.WithTx(ctx, func(store.Tx) error { return nil })
	})
	require.ErrorIs(t, err, sql.ErrTxDone)
}

func TestWithTx_MockRollbackOnDeleteFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := sqlite.NewStoreFromDB(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM todos`).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM notification_settings`).WithArgs(int64(7)).WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = s.WithTx(ctx, func(tx store.Tx) error {
		return tx.DeleteOwnedBy(ctx, 7)
	})
	require.ErrorContains(t, err, "delete notification settings")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_MockCommit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := sqlite.NewStoreFromDB(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM identities`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Identities().Delete(ctx, 3)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
