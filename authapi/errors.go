package authapi

// RejectedError is a definitive server verdict on submitted credentials: a
// failed login or register. The message is the server's own and is surfaced
// to the user verbatim. It is not the same thing as a 401 on an
// authenticated request, which means the current token went stale.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string { return e.Message }

// NetworkError wraps a transport failure where no response was received.
// The server gave no verdict, so a NetworkError never changes session state
// on its own.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "auth api: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }
