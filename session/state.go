package session

import "github.com/finovabank/client-go/users"

// State is the session lifecycle position. Exactly one state holds at any
// instant; transitions are the only legal mutation path.
type State int

const (
	// Unknown means bootstrap has not resolved yet. The route guard renders
	// a neutral loading surface while the state is Unknown.
	Unknown State = iota
	// Unauthenticated means no credential is held.
	Unauthenticated
	// Authenticating means a login or register call is in flight.
	Authenticating
	// Authenticated means a credential is held and mirrored in the store.
	Authenticated
	// Invalidating means a server-driven logout is clearing state.
	Invalidating
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Invalidating:
		return "invalidating"
	default:
		return "invalid"
	}
}

// Snapshot is the read model handed to the route guard and UI. User and
// Token are set only while Authenticated.
type Snapshot struct {
	State State
	User  *users.User
	Token string

	// Expired marks a session that ended because the server rejected the
	// token, as opposed to a user-initiated logout, so the UI can say
	// "your session expired" instead of silently landing on the login page.
	Expired bool
}

// IsAuthenticated reports whether the snapshot allows the protected surface.
func (s Snapshot) IsAuthenticated() bool {
	return s.State == Authenticated
}
