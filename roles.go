package session

// Role is the global platform role carried on an Identity.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

// CompanyRole is a company-scoped role, distinct from the global Role.
type CompanyRole string

const (
	CompanyRoleAdmin     CompanyRole = "admin"
	CompanyRoleRecruiter CompanyRole = "recruiter"
	CompanyRoleEmployee  CompanyRole = "employee"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleCandidate, RoleRecruiter:
		return true
	default:
		return false
	}
}

// IsValid checks if the company role is one of the predefined valid roles
func (r CompanyRole) IsValid() bool {
	switch r {
	case CompanyRoleAdmin, CompanyRoleRecruiter, CompanyRoleEmployee:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.IsValid()
}

// ParseCompanyRole safely parses a string into a CompanyRole
func ParseCompanyRole(s string) (CompanyRole, bool) {
	role := CompanyRole(s)
	return role, role.IsValid()
}

// In reports whether the role is a member of the given set. Membership is
// an exact match; no hierarchy or implication is applied.
func (r Role) In(allowed []Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// In reports whether the company role is a member of the given set.
func (r CompanyRole) In(allowed []CompanyRole) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
