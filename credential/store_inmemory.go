package credential

import "sync"

// MemoryStore keeps the credential in process memory. It is the analogue of
// the web client's session-scoped storage: the credential lives exactly as
// long as the process does.
type MemoryStore struct {
	mu   sync.RWMutex
	cred *Credential
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save stores a copy of the credential, replacing any previous value.
func (s *MemoryStore) Save(cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := cred
	s.cred = &c
	return nil
}

// Load returns a copy of the stored credential, or nil when empty.
func (s *MemoryStore) Load() (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cred == nil {
		return nil, nil
	}
	c := *s.cred
	return &c, nil
}

// Clear removes the stored credential.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = nil
	return nil
}
