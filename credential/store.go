package credential

import (
	"errors"
	"fmt"
)

// Store is the durable mirror of an authenticated session. The session
// manager is its single writer; the token gateway only reads it, once per
// outbound request.
type Store interface {
	// Save overwrites any previously stored credential as one unit.
	Save(cred Credential) error

	// Load returns the stored credential, or nil when nothing is stored.
	Load() (*Credential, error)

	// Clear removes the stored credential. Clearing an empty store is not
	// an error.
	Clear() error
}

// StorageError reports an underlying persistence failure. It is distinct
// from an absent credential: a storage outage must never read as "logged
// out".
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("credential store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorageError reports whether err is, or wraps, a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
