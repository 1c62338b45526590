package credential

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FileStore persists the credential as a JSON file on disk. It is the
// analogue of the mobile client's device storage: the credential survives
// process restarts until it is cleared.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store backed by the file at path. The file is
// created on first Save; a missing file reads as an absent credential.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the credential atomically: marshal, write to a temp file in
// the same directory, rename over the target. A reader never sees a token
// without its user.
func (s *FileStore) Save(cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(cred)
	if err != nil {
		return &StorageError{Op: "save", Err: errors.Wrap(err, "marshal credential")}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return &StorageError{Op: "save", Err: errors.Wrap(err, "create temp file")}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Op: "save", Err: errors.Wrap(err, "write temp file")}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "save", Err: errors.Wrap(err, "close temp file")}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "save", Err: errors.Wrap(err, "replace credential file")}
	}
	return nil
}

// Load reads the credential from disk. A missing file is an absent
// credential, not an error; an unreadable or partial file is a StorageError.
func (s *FileStore) Load() (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Op: "load", Err: err}
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, &StorageError{Op: "load", Err: errors.Wrap(err, "unmarshal credential")}
	}

	// A credential is fully present or fully absent. Half a record means the
	// file was corrupted, and that is a storage problem, not a logout.
	if cred.Token == "" || cred.User.ID == "" {
		return nil, &StorageError{Op: "load", Err: errors.New("partial credential on disk")}
	}
	return &cred, nil
}

// Clear removes the credential file. Clearing an already-empty store is not
// an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}
