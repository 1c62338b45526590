package session

import "errors"

var (
	// ErrInvalidState is returned when an operation is attempted from a
	// state the lifecycle does not allow, e.g. a second login while one is
	// already in flight. It indicates a UI wiring bug, not a user error.
	ErrInvalidState = errors.New("operation not allowed in current session state")

	// ErrSessionInvalidated is returned to an in-flight login or register
	// whose result was discarded because the server invalidated the session
	// while the call ran. Invalidation always wins.
	ErrSessionInvalidated = errors.New("session invalidated by server")
)

// ValidationError reports the first client-side rule a login or register
// submission violates, before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
