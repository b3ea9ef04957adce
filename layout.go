package session

// Layout identifies which UI shell should frame a page. This is
// presentation routing, not gating: the access gate decides whether a page
// renders at all, the layout only decides how it is framed.
type Layout string

const (
	LayoutCandidate Layout = "candidate"
	LayoutRecruiter Layout = "recruiter"
	LayoutSidebar   Layout = "sidebar"
)

// CandidateHomePath is where company employees are framed and redirected.
const CandidateHomePath = "/candidate/home"

// SelectLayout chooses a shell from the identity and affiliation. A company
// role of employee demotes a recruiter to the candidate experience; when
// the page requires the recruiter shell, that demotion becomes a redirect
// instead. The returned path is empty unless a redirect applies.
func SelectLayout(user *Identity, aff Affiliation, requiresRecruiterRole bool) (Layout, string) {
	employee := aff.CompanyRole == CompanyRoleEmployee ||
		(user != nil && user.CompanyRole == CompanyRoleEmployee)

	if requiresRecruiterRole && employee {
		return LayoutCandidate, CandidateHomePath
	}

	if user == nil || user.Role != RoleRecruiter {
		return LayoutCandidate, ""
	}

	if employee {
		return LayoutCandidate, ""
	}

	role := aff.CompanyRole
	if role == "" {
		role = user.CompanyRole
	}

	if role == CompanyRoleAdmin || role == CompanyRoleRecruiter {
		return LayoutSidebar, ""
	}

	// recruiter with no company role yet
	return LayoutRecruiter, ""
}
