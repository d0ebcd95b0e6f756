package access

// State is the resolution state of a verdict.
type State int

const (
	StateUnresolved State = iota
	StateLoading
	StateUnauthenticated
	StateAuthoritativeAdmin
	StateFallbackRole
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthoritativeAdmin:
		return "authoritative_admin"
	case StateFallbackRole:
		return "fallback_role"
	default:
		return "unresolved"
	}
}

// Verdict is the resolved privilege level of a principal.
type Verdict struct {
	IsAdmin   bool  `json:"isAdmin"`
	IsManager bool  `json:"isManager"`
	IsStaff   bool  `json:"isStaff"`
	Role      *Role `json:"role"`
	IsLoading bool  `json:"isLoading"`

	State State `json:"-"`
	// PrincipalID tags the verdict with the principal it was computed for.
	PrincipalID string `json:"-"`
	// Stale is set when the verifier rejected the session's credentials.
	Stale bool `json:"-"`
}

// Authenticated reports whether the verdict belongs to a signed-in principal.
func (v Verdict) Authenticated() bool {
	return v.State == StateAuthoritativeAdmin || v.State == StateFallbackRole
}

// RoleName returns the role as text, or an empty string when there is none.
func (v Verdict) RoleName() string {
	if v.Role == nil {
		return ""
	}
	return string(*v.Role)
}

func loadingVerdict() Verdict {
	return Verdict{IsLoading: true, State: StateLoading}
}

func unauthenticatedVerdict(principalID string) Verdict {
	return Verdict{State: StateUnauthenticated, PrincipalID: principalID}
}

func staleVerdict(principalID string) Verdict {
	v := unauthenticatedVerdict(principalID)
	v.Stale = true
	return v
}

func authoritativeAdmin(principalID string) Verdict {
	role := RoleAdmin
	return Verdict{IsAdmin: true, Role: &role, State: StateAuthoritativeAdmin, PrincipalID: principalID}
}

func fallbackVerdict(principalID string, role Role) Verdict {
	v := Verdict{Role: &role, State: StateFallbackRole, PrincipalID: principalID}
	switch role {
	case RoleAdmin:
		v.IsAdmin = true
	case RoleManager:
		v.IsManager = true
	case RoleStaff:
		v.IsStaff = true
	case RoleCustomer:
	}
	return v
}
