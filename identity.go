package session

// Identity is the authenticated user's profile record as returned by
// GET /auth/me. Company carries the affiliation identifier; CompanyName is
// flattened onto the payload so clients can display it without a second
// lookup.
type Identity struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        Role        `json:"role"`
	Company     string      `json:"company,omitempty"`
	CompanyName string      `json:"companyName,omitempty"`
	CompanyRole CompanyRole `json:"companyRole,omitempty"`
	ResumeURL   string      `json:"resumeUrl,omitempty"`
}

// HasAffiliation reports whether the identity carries a company membership.
func (i *Identity) HasAffiliation() bool {
	return i != nil && i.Company != "" && i.CompanyRole != ""
}
