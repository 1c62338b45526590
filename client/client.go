// Package client wires the FinovaBank front-end core together: one
// credential store, one token gateway, one session manager, one route guard.
// Everything is passed by reference from here; there are no ambient
// singletons to reach for.
package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/finovabank/client-go/authapi"
	"github.com/finovabank/client-go/banking"
	"github.com/finovabank/client-go/credential"
	"github.com/finovabank/client-go/gateway"
	"github.com/finovabank/client-go/guard"
	"github.com/finovabank/client-go/internal/config"
	"github.com/finovabank/client-go/session"
)

// Client is the composed application core. Construct with New, then call
// Start exactly once before using the session or making API calls.
type Client struct {
	cfg  config.Config
	log  zerolog.Logger
	nav  guard.Navigator
	base http.RoundTripper

	store   credential.Store
	http    *http.Client
	session *session.Manager
	guard   *guard.Guard
	banking *banking.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger shared by every component.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithStore overrides the credential store chosen from config.
func WithStore(store credential.Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithNavigator connects the platform shell's navigation so the route guard
// can redirect on session changes. Without one the guard is still available
// for explicit Check calls.
func WithNavigator(nav guard.Navigator) Option {
	return func(c *Client) {
		c.nav = nav
	}
}

// WithBaseTransport overrides the underlying HTTP transport (testing,
// platform-specific TLS).
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.base = rt
	}
}

// New builds the component graph. Data flows exactly one way: the store
// seeds the manager at bootstrap, the manager writes the store, the gateway
// reads the store per request and signals the manager on 401, the guard
// reacts to manager state.
func New(cfg config.Config, options ...Option) (*Client, error) {
	c := &Client{
		cfg:  cfg,
		log:  zerolog.Nop(),
		base: http.DefaultTransport,
	}
	for _, opt := range options {
		opt(c)
	}

	if c.store == nil {
		if path := cfg.GetCredentialFile(); path != "" {
			c.store = credential.NewFileStore(path)
		} else {
			c.store = credential.NewMemoryStore()
		}
	}

	transport := gateway.New(c.store,
		gateway.WithBase(c.base),
		gateway.WithLogger(c.log.With().Str("component", "gateway").Logger()),
	)
	c.http = &http.Client{
		Transport: transport,
		Timeout:   cfg.GetHTTPTimeout(),
	}

	api, err := authapi.New(cfg.GetAPIBaseURL(),
		authapi.WithHTTPClient(c.http),
		authapi.WithLogger(c.log.With().Str("component", "authapi").Logger()),
	)
	if err != nil {
		return nil, fmt.Errorf("[client.New] auth api: %w", err)
	}

	mgr, err := session.NewManager(api, c.store,
		session.WithLogger(c.log.With().Str("component", "session").Logger()),
		session.WithBootstrapVerification(cfg.GetVerifyOnBootstrap()),
	)
	if err != nil {
		return nil, fmt.Errorf("[client.New] session manager: %w", err)
	}
	c.session = mgr

	// The gateway exists before the manager so the very first bootstrap
	// request already flows through it; the invalidation path is connected
	// the moment the manager exists.
	transport.SetInvalidator(mgr)

	if c.nav != nil {
		c.guard = guard.New(c.nav,
			guard.WithLogger(c.log.With().Str("component", "guard").Logger()),
		)
		mgr.OnChange(c.guard.OnSessionChange)
	}

	bank, err := banking.New(cfg.GetAPIBaseURL(), c.http)
	if err != nil {
		return nil, fmt.Errorf("[client.New] banking api: %w", err)
	}
	c.banking = bank

	return c, nil
}

// Start runs the bootstrap sequence to completion. Until it returns the
// session state is Unknown and the guard renders the loading surface — this
// is the one place allowed to block first render.
func (c *Client) Start(ctx context.Context) error {
	return c.session.Bootstrap(ctx)
}

// Session returns the session manager. The UI layer talks to this and the
// guard only; it never touches the store or the gateway directly.
func (c *Client) Session() *session.Manager {
	return c.session
}

// Guard returns the route guard, or nil when no navigator was wired.
func (c *Client) Guard() *guard.Guard {
	return c.guard
}

// Banking returns the authenticated banking API surface.
func (c *Client) Banking() *banking.Client {
	return c.banking
}

// HTTP returns the gateway-equipped HTTP client for additional API surfaces.
func (c *Client) HTTP() *http.Client {
	return c.http
}
