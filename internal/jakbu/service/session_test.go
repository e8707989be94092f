package service_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
	"github.com/jakbu/jakbu/internal/jakbu/federation"
	"github.com/jakbu/jakbu/internal/jakbu/service"
	"github.com/jakbu/jakbu/internal/jakbu/store"
	"github.com/jakbu/jakbu/pkg/jwtx"
)

func TestSignupThenLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	signed, err := h.sessions.Signup(ctx, "alice", "password1", "Alice")
	require.NoError(t, err)
	require.NotZero(t, signed.IdentityID)
	require.Equal(t, "Alice", signed.DisplayName)
	require.NotEmpty(t, signed.AccessToken)
	require.NotEmpty(t, signed.RefreshToken)

	logged, err := h.sessions.Login(ctx, "alice", "password1")
	require.NoError(t, err)
	require.Equal(t, signed.IdentityID, logged.IdentityID)

	id, err := h.tokens.Validate(logged.AccessToken, jwtx.TypeAccess)
	require.NoError(t, err)
	require.Equal(t, logged.IdentityID, id)
}

func TestSignup_DuplicateKey(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.sessions.Signup(ctx, "alice", "password1", "Alice")
	require.NoError(t, err)

	_, err = h.sessions.Signup(ctx, "alice", "password2", "Another")
	require.ErrorIs(t, err, service.ErrDuplicateKey)
}

func TestSignup_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name, key, password, display, field string
	}{
		{"short key", "ab", "password1", "A", "accountId"},
		{"short password", "alice", "12345", "A", "password"},
		{"blank name", "alice", "password1", "   ", "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.sessions.Signup(ctx, tt.key, tt.password, tt.display)
			var ve *service.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestLogin_FailuresLookTheSame(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.sessions.Signup(ctx, "alice", "password1", "Alice")
	require.NoError(t, err)

	_, wrongPassword := h.sessions.Login(ctx, "alice", "nope-nope")
	_, unknownKey := h.sessions.Login(ctx, "nobody", "password1")

	require.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
	require.ErrorIs(t, unknownKey, service.ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownKey.Error())
}

func TestLogin_FederatedOnlyIdentityHasNoPassword(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	i := domain.Identity{LocalKey: domain.Ptr("kim"), DisplayName: "Kim", ProviderSubjectID: domain.Ptr("5")}
	require.NoError(t, h.store.Identities().Create(ctx, &i))

	_, err := h.sessions.Login(ctx, "kim", "anything")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRefresh_RepeatableWithoutRotation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	s, err := h.sessions.Signup(ctx, "alice", "password1", "Alice")
	require.NoError(t, err)

	for range 3 {
		got, err := h.sessions.Refresh(ctx, s.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, s.RefreshToken, got.RefreshToken)
		require.Equal(t, s.IdentityID, got.IdentityID)
		require.NotEmpty(t, got.AccessToken)
	}
}

func TestRefresh_SupersededTokenFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.sessions.Signup(ctx, "alice", "password1", "Alice")
	require.NoError(t, err)
	second, err := h.sessions.Login(ctx, "alice", "password1")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = h.sessions.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = h.sessions.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestRefresh_RejectsAccessTokenAndGarbage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	s, err := h.sessions.Signup(ctx, "alice", "password1", "Alice")
	require.NoError(t, err)

	_, err = h.sessions.Refresh(ctx, s.AccessToken)
	require.ErrorIs(t, err, service.ErrInvalidToken)
	_, err = h.sessions.Refresh(ctx, "not-a-token")
	require.ErrorIs(t, err, service.ErrInvalidToken)
	_, err = h.sessions.Refresh(ctx, "")
	require.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestRefresh_ExpiredStoredTokenIsCleared(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	s, err := h.sessions.Signup(ctx, "alice", "password1", "Alice")
	require.NoError(t, err)

	// Same store, but a verifier that believes the refresh TTL has passed.
	expired := *h.tokens
	expired.Verifier = expired.Verifier.(*jwtx.EdDSAVerifier).WithClock(func() time.Time {
		return time.Now().Add(2 * time.Hour)
	})
	sessions := *h.sessions
	sessions.Tokens = &expired

	_, err = sessions.Refresh(ctx, s.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidToken)

	i, err := h.store.Identities().GetByID(ctx, s.IdentityID)
	require.NoError(t, err)
	require.Nil(t, i.RefreshTokenHash)

	_, err = h.sessions.Refresh(ctx, s.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestRefresh_RejectedTokenDoesNotClearNewerLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	s, err := h.sessions.Signup(ctx, "alice", "password1", "Alice")
	require.NoError(t, err)

	// A login lands between the lookup of the old token and its rejection.
	var fresh *domain.Session
	hooked := &hookedStore{Store: h.store}
	hooked.afterRefreshLookup = func() {
		fresh, err = h.sessions.Login(ctx, "alice", "password1")
		require.NoError(t, err)
	}

	expired := *h.tokens
	expired.Verifier = expired.Verifier.(*jwtx.EdDSAVerifier).WithClock(func() time.Time {
		return time.Now().Add(2 * time.Hour)
	})
	sessions := *h.sessions
	sessions.Store = hooked
	sessions.Tokens = &expired

	_, err = sessions.Refresh(ctx, s.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidToken)
	require.NotNil(t, fresh)

	refreshed, err := h.sessions.Refresh(ctx, fresh.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, s.IdentityID, refreshed.IdentityID)
}

func TestLogin_IdentityDeletedAfterPasswordCheck(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	s, err := h.sessions.Signup(ctx, "alice", "password1", "Alice")
	require.NoError(t, err)

	hooked := &hookedStore{Store: h.store}
	hooked.afterLocalKeyLookup = func() {
		require.NoError(t, h.sessions.DeleteAccount(ctx, s.IdentityID))
	}
	sessions := *h.sessions
	sessions.Store = hooked

	_, err = sessions.Login(ctx, "alice", "password1")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	s, err := h.sessions.Signup(ctx, "alice", "password1", "Alice")
	require.NoError(t, err)

	require.NoError(t, h.sessions.Logout(ctx, s.IdentityID))
	require.NoError(t, h.sessions.Logout(ctx, s.IdentityID))
	require.NoError(t, h.sessions.Logout(ctx, 424242))

	_, err = h.sessions.Refresh(ctx, s.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestFederatedLogin_CreatesOnceThenReuses(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.provider.register("c1", `{"id":42,"kakao_account":{"email":"a@x.com","profile":{"nickname":"A"}}}`)
	h.provider.register("c2", `{"id":42,"kakao_account":{"email":"a@x.com","profile":{"nickname":"A"}}}`)

	first, err := h.sessions.FederatedLogin(ctx, "c1")
	require.NoError(t, err)
	second, err := h.sessions.FederatedLogin(ctx, "c2")
	require.NoError(t, err)
	require.Equal(t, first.IdentityID, second.IdentityID)

	i, err := h.store.Identities().GetByProviderSubjectID(ctx, "42")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", domain.Deref(i.Email))
	require.Equal(t, "A", i.DisplayName)
}

func TestSignup_ConcurrentSameKey(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	const n = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		ok    int
		dup   int
		other []error
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.sessions.Signup(ctx, "alice", "password1", "Alice")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, service.ErrDuplicateKey):
				dup++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, other)
	require.Equal(t, 1, ok)
	require.Equal(t, n-1, dup)
}

func TestFederatedLogin_ConcurrentSameSubject(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	const n = 8
	for i := range n {
		h.provider.register("c"+strconv.Itoa(i), `{"id":77,"kakao_account":{"profile":{"nickname":"Q"}}}`)
	}

	ids := make([]int64, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := h.sessions.FederatedLogin(ctx, "c"+strconv.Itoa(i))
			errs[i] = err
			if err == nil {
				ids[i] = s.IdentityID
			}
		}()
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		require.Equal(t, ids[0], ids[i])
	}
	require.NotZero(t, ids[0])
}

func TestFederatedLogin_LinksLocalIdentityByEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	local, err := h.sessions.Signup(ctx, "a@x.com", "password1", "Local A")
	require.NoError(t, err)

	h.provider.register("c1", `{"id":99,"kakao_account":{"email":"a@x.com","profile":{"nickname":"Kakao A"}}}`)
	fed, err := h.sessions.FederatedLogin(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, local.IdentityID, fed.IdentityID)

	i, err := h.store.Identities().GetByID(ctx, local.IdentityID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", domain.Deref(i.LocalKey))
	require.Equal(t, "99", domain.Deref(i.ProviderSubjectID))
	require.Equal(t, "a@x.com", domain.Deref(i.Email))
	require.Equal(t, "Local A", i.DisplayName)

	// Local login still works after linking.
	_, err = h.sessions.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)
}

func TestFederatedLogin_DoesNotRelinkToAnotherSubject(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.provider.register("c1", `{"id":1,"kakao_account":{"email":"a@x.com"}}`)
	h.provider.register("c2", `{"id":2,"kakao_account":{"email":"a@x.com"}}`)

	first, err := h.sessions.FederatedLogin(ctx, "c1")
	require.NoError(t, err)
	second, err := h.sessions.FederatedLogin(ctx, "c2")
	require.NoError(t, err)
	require.NotEqual(t, first.IdentityID, second.IdentityID)

	i, err := h.store.Identities().GetByID(ctx, second.IdentityID)
	require.NoError(t, err)
	require.Nil(t, i.Email, "email already belongs to another identity")
	require.Equal(t, service.DefaultFallbackNamePrefix+"2", i.DisplayName)
}

func TestFederatedLogin_ProviderErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.sessions.FederatedLogin(ctx, "unknown-code")
	require.ErrorIs(t, err, service.ErrFederation)
	fe, ok := federation.AsError(err)
	require.True(t, ok)
	require.Equal(t, federation.ReasonUpstreamRejected, fe.Reason)

	h.provider.fail(http.StatusBadGateway)
	_, err = h.sessions.FederatedLogin(ctx, "c1")
	require.ErrorIs(t, err, service.ErrFederation)

	_, err = h.sessions.FederatedLogin(ctx, "  ")
	var ve *service.ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestReconciler_ResolveIsStable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	r := &service.Reconciler{Store: h.store, FallbackNamePrefix: "user-"}

	remote := federation.RemoteIdentity{SubjectID: "7"}
	a, err := r.Resolve(ctx, remote)
	require.NoError(t, err)
	require.Equal(t, "user-7", a.DisplayName)
	require.Nil(t, a.Email)

	b, err := r.Resolve(ctx, remote)
	require.NoError(t, err)
	require.Equal(t, a.ID, b.ID)

	_, err = r.Resolve(ctx, federation.RemoteIdentity{})
	require.ErrorIs(t, err, service.ErrFederation)
}

func TestDeleteAccount_Cascades(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	s, err := h.sessions.Signup(ctx, "alice", "password1", "Alice")
	require.NoError(t, err)
	todo, err := h.todos.Create(ctx, s.IdentityID, "buy milk", "2026-10-15")
	require.NoError(t, err)
	_, err = h.notify.SaveSetting(ctx, s.IdentityID, "DAILY", true)
	require.NoError(t, err)

	require.NoError(t, h.sessions.DeleteAccount(ctx, s.IdentityID))

	_, err = h.store.Identities().GetByID(ctx, s.IdentityID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = h.store.Todos().GetByID(ctx, todo.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	list, err := h.store.Todos().ListByIdentityAndDate(ctx, s.IdentityID, "2026-10-15")
	require.NoError(t, err)
	require.Empty(t, list)
	_, err = h.notify.GetSetting(ctx, s.IdentityID)
	require.ErrorIs(t, err, service.ErrNotFound)

	require.ErrorIs(t, h.sessions.DeleteAccount(ctx, s.IdentityID), service.ErrNotFound)

	_, err = h.sessions.Login(ctx, "alice", "password1")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}
