package navguard

// DecisionKind is the outcome class of a navigation evaluation.
type DecisionKind uint8

const (
	// DecisionAllow renders the requested route.
	DecisionAllow DecisionKind = iota
	// DecisionRedirect renders a different route and applies the
	// decision's truncation policy to the back stack first.
	DecisionRedirect
	// DecisionDefer renders a neutral loading state: the session exists
	// but its profile has not resolved, so neither Allow nor a redirect
	// can be decided yet. The back stack is untouched.
	DecisionDefer
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionAllow:
		return "allow"
	case DecisionRedirect:
		return "redirect"
	default:
		return "defer"
	}
}

// TruncatePolicy tells the router what to do with the back stack before
// pushing a redirect target. The policy is part of the decision, not of the
// router: which screens stay reachable after a denial is an authorization
// concern.
type TruncatePolicy uint8

const (
	// TruncateNone leaves the stack alone. Used for wrong-role redirects:
	// the subject is authenticated and their history stays valid.
	TruncateNone TruncatePolicy = iota
	// TruncateAll clears the stack. Used when the session is gone; back
	// navigation must not reach anything that assumed one.
	TruncateAll
	// TruncateToRoot keeps only the root entry. Used for the disabled
	// interstitial.
	TruncateToRoot
	// TruncateToVerificationEntry drops entries above the verification
	// entry point, or clears the stack when it is not present.
	TruncateToVerificationEntry
)

func (p TruncatePolicy) String() string {
	switch p {
	case TruncateAll:
		return "all"
	case TruncateToRoot:
		return "to_root"
	case TruncateToVerificationEntry:
		return "to_verification_entry"
	default:
		return "none"
	}
}

// DenyReason records why a redirect was issued. DenyNone marks decisions
// that are not denials (Allow, Defer, post-login dispatch).
type DenyReason uint8

const (
	DenyNone DenyReason = iota
	DenyNoSession
	DenyStatusInactive
	DenyStatusBlocked
	DenyStatusPending
	DenyUnknownRole
	DenyWrongRole
	DenyRouteNotFound
)

func (r DenyReason) String() string {
	switch r {
	case DenyNoSession:
		return "no_session"
	case DenyStatusInactive:
		return "status_inactive"
	case DenyStatusBlocked:
		return "status_blocked"
	case DenyStatusPending:
		return "status_pending_verification"
	case DenyUnknownRole:
		return "unknown_role"
	case DenyWrongRole:
		return "wrong_role"
	case DenyRouteNotFound:
		return "route_not_found"
	default:
		return "none"
	}
}

// Decision is the value a Guard evaluation reduces to. Route and Path name
// the destination to render: the requested route on Allow, the redirect
// target on Redirect, the requested route on Defer (so the router can retry
// it once the profile resolves).
type Decision struct {
	Kind     DecisionKind
	Route    string
	Path     string
	Truncate TruncatePolicy
	Reason   DenyReason
}

// Denied reports whether the decision is a denial redirect.
func (d Decision) Denied() bool {
	return d.Kind == DecisionRedirect && d.Reason != DenyNone
}
