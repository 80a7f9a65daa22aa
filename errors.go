package navguard

import "errors"

// Sentinel errors returned by Guard and Builder methods. Expected navigation
// denials are not errors — they surface as Decision values. Errors are for
// misuse (unregistered routes referenced from config, unknown roles at
// dispatch) and for backend unavailability the caller must know about.
var (
	// ErrGuardNotReady is returned when a Guard method is called before
	// Build completed or on a zero Guard.
	ErrGuardNotReady = errors.New("guard not initialized")

	// ErrAlreadyBuilt is returned by Builder methods invoked after Build.
	ErrAlreadyBuilt = errors.New("builder already built")

	// ErrRedisRequired is returned by Build when no Redis client was set.
	ErrRedisRequired = errors.New("redis client required")

	// ErrRoutesRequired is returned by Build when no route table was set
	// or the table is empty.
	ErrRoutesRequired = errors.New("route table required")

	// ErrProfileProviderRequired is returned by Build when no profile
	// provider was set.
	ErrProfileProviderRequired = errors.New("profile provider required")

	// ErrRouteNotFound is returned when configuration names a route that
	// is not registered in the table.
	ErrRouteNotFound = errors.New("route not found")

	// ErrUnknownRole is returned by PostLoginDestination when the role
	// identifier classifies as RoleUnknown. There is no destination for an
	// unknown role.
	ErrUnknownRole = errors.New("unknown role identifier")

	// ErrSubjectRequired is returned when an operation needs a non-empty
	// subject identifier.
	ErrSubjectRequired = errors.New("subject id required")

	// ErrTokenInvalid is returned when a session credential fails
	// signature or claim validation.
	ErrTokenInvalid = errors.New("invalid session credential")

	// ErrSessionUnavailable is returned when the session backend cannot
	// be reached for an operation that must not degrade silently
	// (StartSession, LogoutAllForSubject).
	ErrSessionUnavailable = errors.New("session backend unavailable")

	// ErrAccountInactive, ErrAccountBlocked and ErrAccountPending are the
	// status gates expressed as errors, for callers that need an error
	// form of the interstitial outcome (StatusError).
	ErrAccountInactive = errors.New("account inactive")
	ErrAccountBlocked  = errors.New("account blocked")
	ErrAccountPending  = errors.New("account pending verification")
)

// StatusError maps an account status onto its gate error. StatusActive maps
// to nil. Unrecognized statuses fail closed as ErrAccountBlocked.
func StatusError(status AccountStatus) error {
	switch status {
	case StatusActive:
		return nil
	case StatusInactive:
		return ErrAccountInactive
	case StatusPendingVerification:
		return ErrAccountPending
	default:
		return ErrAccountBlocked
	}
}
