package session

// Navigation targets used by gate decisions.
const (
	LoginPath        = "/auth/login"
	UnauthorizedPath = "/unauthorized"
)

// Requirement declares what a protected navigation needs. Role checks are
// exact membership tests; no role hierarchy or implication is applied, so a
// recruiter is not implicitly an admin.
type Requirement struct {
	NeedsAuth           bool
	AllowedRoles        []Role
	AllowedCompanyRoles []CompanyRole
}

// DecisionKind is the outcome of a gate evaluation.
type DecisionKind int

const (
	// DecisionLoading blocks rendering until initialization completes.
	DecisionLoading DecisionKind = iota
	// DecisionRedirect sends the user to Decision.Path.
	DecisionRedirect
	// DecisionRender allows the protected content through.
	DecisionRender
)

// Decision is the result of evaluating a Requirement against the session.
// ReturnTo carries the original location on a login redirect so the login
// flow can send the user back afterward.
type Decision struct {
	Kind     DecisionKind
	Path     string
	ReturnTo string
}

// Gate is the declarative guard evaluated on every protected navigation.
// It only reads the two stores; all mutation goes through the controller.
type Gate struct {
	store        *Store
	affiliations *AffiliationStore
}

// NewGate returns a gate reading from the given stores.
func NewGate(store *Store, affiliations *AffiliationStore) *Gate {
	return &Gate{store: store, affiliations: affiliations}
}

// Evaluate decides whether the navigation at currentPath may proceed. The
// initialization check always runs first: no role decision may be made
// while the user could still be stale or absent mid-bootstrap.
func (g *Gate) Evaluate(currentPath string, req Requirement) Decision {
	snap := g.store.Snapshot()

	if !snap.Initialized {
		return Decision{Kind: DecisionLoading}
	}

	if req.NeedsAuth && snap.User == nil {
		return Decision{Kind: DecisionRedirect, Path: LoginPath, ReturnTo: currentPath}
	}

	if len(req.AllowedRoles) > 0 {
		if snap.User == nil || !snap.User.Role.In(req.AllowedRoles) {
			return Decision{Kind: DecisionRedirect, Path: UnauthorizedPath}
		}
	}

	if len(req.AllowedCompanyRoles) > 0 {
		current := g.affiliations.Current().CompanyRole
		if current == "" || !current.In(req.AllowedCompanyRoles) {
			return Decision{Kind: DecisionRedirect, Path: UnauthorizedPath}
		}
	}

	return Decision{Kind: DecisionRender}
}
