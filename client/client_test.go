package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/finovabank/client-go/banking"
	"github.com/finovabank/client-go/client"
	"github.com/finovabank/client-go/credential"
	"github.com/finovabank/client-go/guard"
	"github.com/finovabank/client-go/session"
	"github.com/finovabank/client-go/users"
)

// testConfig satisfies the internal config interface with fixed values.
type testConfig struct {
	baseURL string
}

func (c testConfig) GetAPIBaseURL() string         { return c.baseURL }
func (c testConfig) GetAppName() string            { return "FinovaBank Test" }
func (c testConfig) GetEnv() string                { return "test" }
func (c testConfig) GetCredentialFile() string     { return "" }
func (c testConfig) GetHTTPTimeout() time.Duration { return 5 * time.Second }
func (c testConfig) GetVerifyOnBootstrap() bool    { return true }

// fakeNavigator records navigation.
type fakeNavigator struct {
	mu      sync.Mutex
	path    string
	history []string
}

func (n *fakeNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = path
	n.history = append(n.history, path)
}

func (n *fakeNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// fakeBackend simulates the FinovaBank API: a login endpoint issuing tokens,
// a verify endpoint, and a protected accounts endpoint that starts returning
// 401 once the token is revoked.
type fakeBackend struct {
	mu     sync.Mutex
	tokens map[string]bool // token -> still valid
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{tokens: map[string]bool{}}
}

func (b *fakeBackend) issue(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = true
}

func (b *fakeBackend) revoke(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = false
}

func (b *fakeBackend) valid(token string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tokens[token]
}

func (b *fakeBackend) handler() http.Handler {
	user := users.User{ID: "user-1", Email: "john.doe@example.com", FirstName: "John", LastName: "Doe"}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"})
			return
		}
		b.issue("t1")
		json.NewEncoder(w).Encode(map[string]any{"token": "t1", "user": user})
	})
	mux.HandleFunc("/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			Token string `json:"token"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]bool{"valid": b.valid(body.Token)})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || !b.valid(token) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Token invalid or expired"})
			return
		}
		json.NewEncoder(w).Encode([]banking.Account{
			{AccountID: "acc-1", AccountType: "CHECKING", Balance: 1250.75, Currency: "USD"},
		})
	})
	return mux
}

type integrationFixture struct {
	backend *fakeBackend
	store   credential.Store
	nav     *fakeNavigator
	client  *client.Client
}

func setupIntegration(t *testing.T) *integrationFixture {
	t.Helper()

	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	store := credential.NewMemoryStore()
	nav := &fakeNavigator{path: guard.RouteHome}

	c, err := client.New(testConfig{baseURL: srv.URL},
		client.WithStore(store),
		client.WithNavigator(nav),
	)
	require.NoError(t, err)

	return &integrationFixture{
		backend: backend,
		store:   store,
		nav:     nav,
		client:  c,
	}
}

func TestGuardShowsLoadingUntilBootstrapResolves(t *testing.T) {
	f := setupIntegration(t)

	snap := f.client.Session().Current()
	require.Equal(t, session.Unknown, snap.State)

	d := f.client.Guard().Check(snap, "/accounts")
	require.Equal(t, guard.ShowLoading, d.Action, "no route decision before bootstrap resolves")

	require.NoError(t, f.client.Start(context.Background()))
	require.Equal(t, session.Unauthenticated, f.client.Session().Current().State)
}

func TestBootstrapRestoresSession(t *testing.T) {
	f := setupIntegration(t)
	f.backend.issue("t1")
	require.NoError(t, f.store.Save(credential.Credential{
		Token: "t1",
		User:  users.User{ID: "user-1", Email: "john.doe@example.com"},
	}))

	require.NoError(t, f.client.Start(context.Background()))

	snap := f.client.Session().Current()
	require.Equal(t, session.Authenticated, snap.State)
	require.Equal(t, "t1", snap.Token)
	require.Equal(t, "user-1", snap.User.ID)
}

func TestBootstrapClearsRevokedCredential(t *testing.T) {
	f := setupIntegration(t)
	f.backend.issue("t1")
	f.backend.revoke("t1")
	require.NoError(t, f.store.Save(credential.Credential{
		Token: "t1",
		User:  users.User{ID: "user-1"},
	}))

	require.NoError(t, f.client.Start(context.Background()))
	require.Equal(t, session.Unauthenticated, f.client.Session().Current().State)

	loaded, err := f.store.Load()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestLoginThenServerInvalidation(t *testing.T) {
	f := setupIntegration(t)
	ctx := context.Background()
	require.NoError(t, f.client.Start(ctx))

	// Bootstrap resolved to logged out; the guard pushed the user to login.
	require.Equal(t, guard.RouteLogin, f.nav.CurrentPath())

	require.NoError(t, f.client.Session().Login(ctx, "john.doe@example.com", "password123"))
	require.Equal(t, session.Authenticated, f.client.Session().Current().State)
	require.Equal(t, guard.RouteHome, f.nav.CurrentPath(), "guard moved off the login page")

	// Authenticated calls carry the token.
	accounts, err := f.client.Banking().Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	// The server revokes the token; the next call gets a 401, which must
	// invalidate the session, clear the store, and land the user on login.
	f.backend.revoke("t1")
	_, err = f.client.Banking().Accounts(ctx)
	var apiErr *banking.APIError
	require.ErrorAs(t, err, &apiErr, "the caller still sees its own failure")
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	snap := f.client.Session().Current()
	require.Equal(t, session.Unauthenticated, snap.State)
	require.True(t, snap.Expired, "server-driven logout is distinguishable from user logout")

	loaded, err := f.store.Load()
	require.NoError(t, err)
	require.Nil(t, loaded)

	require.Equal(t, guard.RouteLogin, f.nav.CurrentPath())
}

func TestFailedLoginDoesNotInvalidate(t *testing.T) {
	f := setupIntegration(t)
	ctx := context.Background()
	require.NoError(t, f.client.Start(ctx))

	err := f.client.Session().Login(ctx, "john.doe@example.com", "wrong-password")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid email or password")

	// The login 401 was a rejection, not an invalidation: state settles in
	// Unauthenticated without passing through Invalidating.
	require.Equal(t, session.Unauthenticated, f.client.Session().Current().State)
	require.False(t, f.client.Session().Current().Expired)
}

func TestLogoutLocalStateWins(t *testing.T) {
	f := setupIntegration(t)
	ctx := context.Background()
	require.NoError(t, f.client.Start(ctx))
	require.NoError(t, f.client.Session().Login(ctx, "john.doe@example.com", "password123"))

	require.NoError(t, f.client.Session().Logout(ctx))
	require.Equal(t, session.Unauthenticated, f.client.Session().Current().State)

	loaded, err := f.store.Load()
	require.NoError(t, err)
	require.Nil(t, loaded)
	require.Equal(t, guard.RouteLogin, f.nav.CurrentPath())
}
