package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
	"github.com/jakbu/jakbu/internal/jakbu/federation"
	"github.com/jakbu/jakbu/internal/jakbu/service"
	"github.com/jakbu/jakbu/internal/jakbu/store"
	"github.com/jakbu/jakbu/internal/jakbu/store/drivers/sqlite"
	"github.com/jakbu/jakbu/pkg/cryptox"
	"github.com/jakbu/jakbu/pkg/jwtx"
)

const testIssuer = "jakbu-test"

type harness struct {
	store    *sqlite.Store
	tokens   *service.TokenIssuer
	sessions *service.SessionService
	todos    *service.TodoService
	notify   *service.NotificationService
	provider *fakeProvider
}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(sqlite.FileDSN(filepath.Join(t.TempDir(), "jakbu.db")))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTokenIssuer(t *testing.T) *service.TokenIssuer {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	return &service.TokenIssuer{
		Signer:     signer,
		Verifier:   jwtx.NewVerifierEdDSA(keys, testIssuer),
		Issuer:     testIssuer,
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := newStore(t)
	tokens := newTokenIssuer(t)
	provider := newFakeProvider(t)

	return &harness{
		store:  st,
		tokens: tokens,
		sessions: &service.SessionService{
			Store:      st,
			Tokens:     tokens,
			Federation: provider.client(),
			Reconciler: &service.Reconciler{Store: st},
		},
		todos:    &service.TodoService{Store: st},
		notify:   &service.NotificationService{Store: st},
		provider: provider,
	}
}

// fakeProvider serves the OAuth token and profile endpoints. Each code maps
// to the profile JSON returned for it.
type fakeProvider struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	profiles map[string]string
	status   int
}

func newFakeProvider(t *testing.T) *fakeProvider {
	p := &fakeProvider{t: t, profiles: map[string]string{}, status: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()
		code := r.FormValue("code")
		if p.status != http.StatusOK {
			w.WriteHeader(p.status)
			return
		}
		if _, ok := p.profiles[code]; !ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-` + code + `"}`))
	})
	mux.HandleFunc("GET /v2/user/me", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()
		code := r.Header.Get("Authorization")[len("Bearer tok-"):]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(p.profiles[code]))
	})
	p.srv = httptest.NewServer(mux)
	t.Cleanup(p.srv.Close)
	return p
}

func (p *fakeProvider) register(code, profileJSON string) {
	p.mu.Lock()
	p.profiles[code] = profileJSON
	p.mu.Unlock()
}

func (p *fakeProvider) fail(status int) {
	p.mu.Lock()
	p.status = status
	p.mu.Unlock()
}

func (p *fakeProvider) client() *federation.Client {
	return federation.NewClient(federation.Config{
		ClientID:    "client",
		RedirectURI: "http://localhost/cb",
		TokenURL:    p.srv.URL + "/oauth/token",
		ProfileURL:  p.srv.URL + "/v2/user/me",
		Timeout:     time.Second,
	})
}

// hookedStore runs a callback right after selected identity lookups return,
// so tests can interleave another request between a read and the write that
// depends on it. Each hook fires once.
type hookedStore struct {
	store.Store

	afterRefreshLookup  func()
	afterLocalKeyLookup func()
}

func (s *hookedStore) Identities() store.Identities {
	return &hookedIdentities{Identities: s.Store.Identities(), s: s}
}

type hookedIdentities struct {
	store.Identities
	s *hookedStore
}

func (r *hookedIdentities) GetByRefreshTokenHash(ctx context.Context, hash string) (domain.Identity, error) {
	i, err := r.Identities.GetByRefreshTokenHash(ctx, hash)
	if fn := r.s.afterRefreshLookup; fn != nil {
		r.s.afterRefreshLookup = nil
		fn()
	}
	return i, err
}

func (r *hookedIdentities) GetByLocalKey(ctx context.Context, key string) (domain.Identity, error) {
	i, err := r.Identities.GetByLocalKey(ctx, key)
	if fn := r.s.afterLocalKeyLookup; fn != nil {
		r.s.afterLocalKeyLookup = nil
		fn()
	}
	return i, err
}
