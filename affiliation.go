package session

import "sync"

// Affiliation is a user's company membership and company-scoped role. It is
// a pure function of the latest Identity: recomputed every time the identity
// changes and never independently persisted.
type Affiliation struct {
	CompanyID   string
	CompanyRole CompanyRole
}

// Empty reports whether the user has no company membership.
func (a Affiliation) Empty() bool {
	return a.CompanyID == ""
}

// AffiliationStore holds the current affiliation, kept separate from the
// session store so it can be cleared and refreshed independently.
type AffiliationStore struct {
	mu      sync.RWMutex
	current Affiliation
}

// NewAffiliationStore returns an empty affiliation store.
func NewAffiliationStore() *AffiliationStore {
	return &AffiliationStore{}
}

// Set replaces the affiliation.
func (s *AffiliationStore) Set(companyID string, role CompanyRole) {
	s.mu.Lock()
	s.current = Affiliation{CompanyID: companyID, CompanyRole: role}
	s.mu.Unlock()
}

// Reset clears the affiliation.
func (s *AffiliationStore) Reset() {
	s.mu.Lock()
	s.current = Affiliation{}
	s.mu.Unlock()
}

// Current returns the affiliation value.
func (s *AffiliationStore) Current() Affiliation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
