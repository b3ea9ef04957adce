package session

import (
	"sync"
)

// Snapshot is a point-in-time copy of the session state, safe to hand to the
// access gate or to serialize without holding the store's lock.
type Snapshot struct {
	User                *Identity
	Token               string
	Initialized         bool
	ResumeURL           string
	AutoSendStatusEmail bool
}

// Store holds the authenticated identity, bearer token, and initialization
// flag. Mutating the token or user pushes the bearer credential into the
// CredentialSetter synchronously, before the mutator returns, so a caller
// issued request never observes a stale credential.
type Store struct {
	mu sync.RWMutex

	creds CredentialSetter

	user                *Identity
	token               string
	initialized         bool
	resumeURL           string
	autoSendStatusEmail bool
}

// NewStore returns an empty session store wired to the given credential
// setter.
func NewStore(creds CredentialSetter) *Store {
	return &Store{creds: creds}
}

// SetToken stores the bearer token and commits it to the adapter's default
// headers. An empty token removes the credential.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	if token != "" {
		s.creds.SetBearerToken(token)
	} else {
		s.creds.ClearBearerToken()
		// token absent implies user absent
		s.user = nil
	}
	s.mu.Unlock()
}

// SetUser replaces the identity and derives the resume URL from it.
func (s *Store) SetUser(user *Identity) {
	s.mu.Lock()
	s.user = user
	if user != nil {
		s.resumeURL = user.ResumeURL
	} else {
		s.resumeURL = ""
	}
	s.mu.Unlock()
}

// SetInitialized marks the end (or restart) of the bootstrap window.
func (s *Store) SetInitialized(v bool) {
	s.mu.Lock()
	s.initialized = v
	s.mu.Unlock()
}

// SetResumeURL overrides the derived resume URL.
func (s *Store) SetResumeURL(url string) {
	s.mu.Lock()
	s.resumeURL = url
	s.mu.Unlock()
}

// SetAutoSendStatusEmail toggles the persisted status-email preference.
func (s *Store) SetAutoSendStatusEmail(v bool) {
	s.mu.Lock()
	s.autoSendStatusEmail = v
	s.mu.Unlock()
}

// User returns the current identity, nil when unauthenticated.
func (s *Store) User() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Initialized reports whether the first rehydration attempt has resolved.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// ResumeURL returns the resume URL derived from the identity.
func (s *Store) ResumeURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resumeURL
}

// AutoSendStatusEmail returns the status-email preference.
func (s *Store) AutoSendStatusEmail() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoSendStatusEmail
}

// Snapshot returns a consistent copy of the full session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		User:                s.user,
		Token:               s.token,
		Initialized:         s.initialized,
		ResumeURL:           s.resumeURL,
		AutoSendStatusEmail: s.autoSendStatusEmail,
	}
}

// Reset clears every field, including the initialization flag, and removes
// the bearer credential from the adapter.
func (s *Store) Reset() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.initialized = false
	s.resumeURL = ""
	s.autoSendStatusEmail = false
	s.creds.ClearBearerToken()
	s.mu.Unlock()
}
