package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/finovabank/client-go/authapi"
	"github.com/finovabank/client-go/credential"
)

// AuthAPI is the remote surface the manager drives. Implemented by
// authapi.Client; faked in tests.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*authapi.AuthResponse, error)
	Register(ctx context.Context, reg authapi.Registration) (*authapi.AuthResponse, error)
	Logout(ctx context.Context) error
	Verify(ctx context.Context, token string) (bool, error)
}

// Listener observes session snapshots. Listeners run synchronously on the
// transition path, after the state has changed; keep them fast and do not
// call back into the manager from inside one.
type Listener func(Snapshot)

// Manager owns the session state machine. It is the sole writer of the
// credential store, and it serializes every transition: an operation
// requested from an incompatible state is rejected with ErrInvalidState,
// never interleaved with the one in flight.
type Manager struct {
	api   AuthAPI
	store credential.Store
	log   zerolog.Logger
	now   func() time.Time

	// verifyOnBootstrap gates the /auth/verify round trip during bootstrap.
	// The web client verified stored tokens, the mobile client trusted them;
	// both behaviors are one flag apart.
	verifyOnBootstrap bool

	mu        sync.Mutex
	snap      Snapshot
	listeners []Listener
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(m *Manager) {
		m.now = nowFunc
	}
}

// WithBootstrapVerification toggles the /auth/verify check on stored
// credentials during bootstrap. Enabled by default.
func WithBootstrapVerification(enabled bool) Option {
	return func(m *Manager) {
		m.verifyOnBootstrap = enabled
	}
}

// NewManager initializes a Manager in the Unknown state.
func NewManager(api AuthAPI, store credential.Store, options ...Option) (*Manager, error) {
	if api == nil {
		return nil, errors.New("[NewManager] auth api is required")
	}
	if store == nil {
		return nil, errors.New("[NewManager] credential store is required")
	}

	m := &Manager{
		api:               api,
		store:             store,
		log:               zerolog.Nop(),
		now:               time.Now,
		verifyOnBootstrap: true,
		snap:              Snapshot{State: Unknown},
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Current returns the latest snapshot.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// OnChange registers a listener invoked synchronously after every
// transition. The route guard registers here so it re-evaluates the moment
// the state changes, never on a stale decision.
func (m *Manager) OnChange(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Bootstrap resolves the stored credential into the first real session
// state. It runs once, before the route guard's first decision; until it
// returns, the state stays Unknown and the guard shows the loading surface.
//
// A storage failure degrades to logged-out rather than crashing the client:
// the outage is logged, not mistaken for a logout verdict.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	if m.snap.State != Unknown {
		m.mu.Unlock()
		m.log.Warn().Stringer("state", m.snap.State).Msg("bootstrap attempted twice")
		return ErrInvalidState
	}
	m.mu.Unlock()

	cred, err := m.store.Load()
	if err != nil {
		m.log.Err(err).Msg("bootstrap: credential store unavailable, starting logged out")
		m.setState(Snapshot{State: Unauthenticated})
		return nil
	}
	if cred == nil {
		m.setState(Snapshot{State: Unauthenticated})
		return nil
	}

	if cred.Expired(m.now()) {
		m.log.Info().Msg("bootstrap: stored credential expired")
		m.clearStore()
		m.setState(Snapshot{State: Unauthenticated})
		return nil
	}

	if m.verifyOnBootstrap {
		valid, err := m.api.Verify(ctx, cred.Token)
		if err != nil || !valid {
			// The server would not vouch for the token. Fail safe to logged
			// out rather than booting a session the first real request
			// would immediately invalidate.
			if err != nil {
				m.log.Warn().Err(err).Msg("bootstrap: token verification failed")
			}
			m.clearStore()
			m.setState(Snapshot{State: Unauthenticated})
			return nil
		}
	}

	u := cred.User
	m.setState(Snapshot{State: Authenticated, User: &u, Token: cred.Token})
	m.log.Info().Str("user", u.ID).Msg("session restored from stored credential")
	return nil
}

// Login exchanges credentials for a session. Precondition: the state is
// Unauthenticated — a concurrent login, or a login while already signed in,
// is rejected with ErrInvalidState. On success the credential store is
// written exactly once; on failure it is not touched.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := validateLogin(email, password); err != nil {
		return err
	}

	if err := m.beginAuth(); err != nil {
		return err
	}
	res, err := m.api.Login(ctx, email, password)
	return m.completeAuth(res, err)
}

// Register validates the sign-up fields, creates the account, and — because
// the server returns a session immediately — authenticates on success
// without a second login. Validation failures never reach the network.
func (m *Manager) Register(ctx context.Context, reg Registration) error {
	if err := reg.Validate(); err != nil {
		return err
	}

	if err := m.beginAuth(); err != nil {
		return err
	}
	res, err := m.api.Register(ctx, authapi.Registration{
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Email:     reg.Email,
		Password:  reg.Password,
	})
	return m.completeAuth(res, err)
}

// Logout ends the session from any state and is idempotent. The remote
// logout is best effort: a failure is logged and local state clears anyway —
// local state always wins.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	hadToken := m.snap.Token != ""
	m.mu.Unlock()

	if hadToken {
		if err := m.api.Logout(ctx); err != nil {
			m.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
		}
	}

	m.mu.Lock()
	m.clearStore()
	m.finishLocked(Snapshot{State: Unauthenticated})
	return nil
}

// Invalidate is the token gateway's entry point for a server-driven logout.
// It no-ops when there is nothing left to invalidate, so repeated 401s
// during the clear-out window cannot re-enter. The resulting snapshots carry
// the Expired marker to distinguish this from a user-initiated logout.
func (m *Manager) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	switch m.snap.State {
	case Unauthenticated, Invalidating, Unknown:
		m.mu.Unlock()
		return nil
	}
	m.finishLocked(Snapshot{State: Invalidating, Expired: true})

	m.log.Info().Msg("session invalidated by server")

	m.mu.Lock()
	m.clearStore()
	m.finishLocked(Snapshot{State: Unauthenticated, Expired: true})
	return nil
}

// beginAuth moves Unauthenticated -> Authenticating, rejecting every other
// starting state.
func (m *Manager) beginAuth() error {
	m.mu.Lock()
	if m.snap.State != Unauthenticated {
		state := m.snap.State
		m.mu.Unlock()
		m.log.Warn().Stringer("state", state).Msg("login/register attempted from incompatible state")
		return ErrInvalidState
	}
	m.finishLocked(Snapshot{State: Authenticating})
	return nil
}

// completeAuth lands the result of a login or register call. If the state is
// no longer Authenticating the server invalidated the session while the call
// was in flight (or a queued logout won); the late result is discarded.
func (m *Manager) completeAuth(res *authapi.AuthResponse, callErr error) error {
	m.mu.Lock()
	if m.snap.State != Authenticating {
		m.mu.Unlock()
		m.log.Warn().Msg("auth call resolved after session was invalidated, discarding result")
		return ErrSessionInvalidated
	}

	if callErr != nil {
		m.finishLocked(Snapshot{State: Unauthenticated})
		return callErr
	}

	cred := credential.New(res.Token, res.User)
	if err := m.store.Save(cred); err != nil {
		// The server issued a session we cannot mirror; a restart would
		// strand it. Treat the attempt as failed.
		m.log.Err(err).Msg("failed to persist credential")
		m.finishLocked(Snapshot{State: Unauthenticated})
		return err
	}

	u := res.User
	m.finishLocked(Snapshot{State: Authenticated, User: &u, Token: res.Token})
	m.log.Info().Str("user", u.ID).Msg("session established")
	return nil
}

// setState records a transition and notifies listeners.
func (m *Manager) setState(snap Snapshot) {
	m.mu.Lock()
	m.finishLocked(snap)
}

// finishLocked stores the snapshot, releases the lock, and notifies
// listeners outside it so a listener may read Current without deadlocking.
// Callers must hold m.mu.
func (m *Manager) finishLocked(snap Snapshot) {
	m.snap = snap
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// clearStore empties the credential mirror. A clear failure is logged and
// never blocks the local transition to logged-out.
func (m *Manager) clearStore() {
	if err := m.store.Clear(); err != nil {
		m.log.Err(err).Msg("failed to clear credential store")
	}
}
