package guard

import (
	"github.com/rs/zerolog"

	"github.com/finovabank/client-go/session"
)

// Route paths the guard decides between. RouteHome is the default landing
// page for an authenticated session.
const (
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteHome     = "/"
)

// Action is what the shell should do with the requested route.
type Action int

const (
	// Allow renders the requested route.
	Allow Action = iota
	// ShowLoading renders the neutral bootstrap surface; no route decision
	// has been made yet.
	ShowLoading
	// Redirect navigates to Decision.Target instead of the requested route.
	Redirect
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case ShowLoading:
		return "loading"
	case Redirect:
		return "redirect"
	default:
		return "invalid"
	}
}

// Decision is the outcome of evaluating a route against the session state.
type Decision struct {
	Action Action
	Target string
}

// Evaluate maps session state and requested path to a navigation decision.
// It is pure: same inputs, same decision, nothing cached. While the state is
// unresolved or mid-transition the protected surface is never rendered.
func Evaluate(state session.State, path string) Decision {
	switch state {
	case session.Unknown, session.Authenticating, session.Invalidating:
		return Decision{Action: ShowLoading}
	case session.Authenticated:
		if isPublic(path) {
			return Decision{Action: Redirect, Target: RouteHome}
		}
		return Decision{Action: Allow}
	default: // Unauthenticated
		if isPublic(path) {
			return Decision{Action: Allow}
		}
		return Decision{Action: Redirect, Target: RouteLogin}
	}
}

func isPublic(path string) bool {
	return path == RouteLogin || path == RouteRegister
}

// Navigator performs the actual navigation. The web shell swaps the router
// location; the mobile shell resets its navigation stack.
type Navigator interface {
	Navigate(path string)
	CurrentPath() string
}

// Guard re-evaluates the current route whenever the session changes.
// Navigation lives here and only here: the token gateway signals
// invalidation but never touches routing.
type Guard struct {
	nav Navigator
	log zerolog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Guard) {
		g.log = log
	}
}

// New creates a Guard driving nav.
func New(nav Navigator, options ...Option) *Guard {
	g := &Guard{
		nav: nav,
		log: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// OnSessionChange re-evaluates the current path against the new snapshot.
// Register it with session.Manager.OnChange so it runs synchronously on
// every transition.
func (g *Guard) OnSessionChange(snap session.Snapshot) {
	path := g.nav.CurrentPath()
	d := Evaluate(snap.State, path)
	if d.Action != Redirect {
		return
	}
	g.log.Debug().
		Stringer("state", snap.State).
		Str("from", path).
		Str("to", d.Target).
		Bool("expired", snap.Expired).
		Msg("route guard redirect")
	g.nav.Navigate(d.Target)
}

// Check evaluates an explicit navigation attempt against the current
// snapshot, for shells that ask before rendering.
func (g *Guard) Check(snap session.Snapshot, path string) Decision {
	return Evaluate(snap.State, path)
}
