package credential

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/finovabank/client-go/users"
)

// Credential is the persisted proof of an authenticated session: the bearer
// token plus the profile it was issued for. A credential is saved and
// cleared as one unit; a reader never observes a token without its user.
type Credential struct {
	Token     string     `json:"token"`
	User      users.User `json:"user"`
	ExpiresAt time.Time  `json:"expiresAt,omitzero"`
}

// New builds a credential from a login or register response, peeking at the
// token for a best-effort expiry.
func New(token string, user users.User) Credential {
	return Credential{Token: token, User: user, ExpiresAt: TokenExpiry(token)}
}

// Expired reports whether the credential's best-effort expiry has passed.
// Credentials without a readable expiry never report expired; the server is
// the authority either way.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}

// TokenExpiry reads the exp claim of a JWT without verifying the signature.
// The client never validates tokens, it only uses the expiry to avoid
// bootstrapping a session from a token that is already dead. Returns the
// zero time for opaque or claimless tokens.
func TokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
