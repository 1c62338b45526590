package gateway

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finovabank/client-go/credential"
)

// Invalidator receives the forced-logout signal when the server stops
// honouring the current token. Implemented by session.Manager.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Transport is the single HTTP entry point of the client. It reads the
// credential store on every outbound request and attaches the bearer token
// when one exists, and it watches every inbound response for a 401 on a
// tokened request — the server's way of saying the credential went stale.
//
// Transport never writes the store and never navigates; it only signals the
// invalidator. It works before the session manager is constructed, which
// matters for the very first request issued during bootstrap.
type Transport struct {
	base  http.RoundTripper
	store credential.Store
	log   zerolog.Logger

	mu           sync.RWMutex
	invalidator  Invalidator
	invalidating atomic.Bool
}

var _ http.RoundTripper = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithBase sets the underlying round tripper. Defaults to
// http.DefaultTransport.
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) {
		t.base = rt
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Transport) {
		t.log = log
	}
}

// New creates a Transport reading tokens from store.
func New(store credential.Store, options ...Option) *Transport {
	t := &Transport{
		base:  http.DefaultTransport,
		store: store,
		log:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// SetInvalidator registers the session manager. 401s observed before an
// invalidator exists are passed through without a signal.
func (t *Transport) SetInvalidator(inv Invalidator) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.invalidator = inv
}

// RoundTrip attaches the stored token, forwards the request, and inspects
// the response. The response is always returned to the caller unchanged;
// the caller still handles its own failure.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	cred, err := t.store.Load()
	if err != nil {
		// A storage outage is not "logged out". Sending the request bare
		// could earn a 401 and cascade into a real logout, so the request
		// fails with the storage error instead.
		return nil, err
	}

	out := req.Clone(req.Context())
	out.Header.Set("X-Request-Id", uuid.NewString())

	tokened := false
	if cred != nil {
		out.Header.Set("Authorization", "Bearer "+cred.Token)
		tokened = true
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		// No response received: not an authentication verdict.
		return nil, err
	}

	// Only a definitive 401 on a request that carried a token means the
	// token went stale. A 401 on an untokened request is the server
	// rejecting submitted credentials, which is the caller's problem.
	if resp.StatusCode == http.StatusUnauthorized && tokened {
		t.signalInvalidation(req.Context())
	}
	return resp, nil
}

// signalInvalidation forwards at most one invalidation at a time. Parallel
// 401s arriving during the clear-out window are coalesced; the flag resets
// once the manager finishes clearing state.
func (t *Transport) signalInvalidation(ctx context.Context) {
	t.mu.RLock()
	inv := t.invalidator
	t.mu.RUnlock()
	if inv == nil {
		t.log.Warn().Msg("401 received before session manager registered")
		return
	}

	if !t.invalidating.CompareAndSwap(false, true) {
		return
	}
	defer t.invalidating.Store(false)

	t.log.Info().Msg("server rejected token, invalidating session")
	if err := inv.Invalidate(ctx); err != nil {
		t.log.Err(err).Msg("session invalidation failed")
	}
}
