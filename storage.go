package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/goliatone/go-errors"
)

// Storage keys. The token and resume URL are stored under standalone keys
// for fast access outside the combined snapshot; the snapshot itself lives
// under the session storage key (default "auth-storage").
const (
	StorageKeyToken     = "token"
	StorageKeyResumeURL = "resumeUrl"

	// DefaultSessionStorageKey holds the combined persisted snapshot.
	DefaultSessionStorageKey = "auth-storage"
)

// PersistedSession is the exact subset of session state that survives a
// process restart. The initialization flag is deliberately excluded: it
// always starts false and must be re-resolved by Initialize.
type PersistedSession struct {
	Token               string    `json:"token,omitempty"`
	User                *Identity `json:"user,omitempty"`
	ResumeURL           string    `json:"resumeUrl,omitempty"`
	AutoSendStatusEmail bool      `json:"autoSendStatusEmail,omitempty"`
}

func encodePersisted(p PersistedSession) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to encode persisted session")
	}
	return string(raw), nil
}

func decodePersisted(raw string) (PersistedSession, error) {
	p := PersistedSession{}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return PersistedSession{}, errors.Wrap(err, errors.CategoryBadInput, "failed to decode persisted session")
	}
	return p, nil
}

// MemoryStorage is a volatile Storage used in tests and as a fallback when
// no durable path is configured.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: map[string]string{}}
}

// Get implements Storage.
func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Storage.
func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

// Delete implements Storage.
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Clear implements Storage.
func (m *MemoryStorage) Clear(_ context.Context) error {
	m.mu.Lock()
	m.data = map[string]string{}
	m.mu.Unlock()
	return nil
}
