package navguard

import (
	"github.com/safezone-app/navguard/profile"
	"github.com/safezone-app/navguard/route"
)

// Role is the classified role of an authenticated subject. The backend
// expresses roles as small integers; ClassifyRole maps them onto this enum
// and everything past that point works with the enum only. RoleUnknown is
// terminal: it is never routed, only failed closed.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleRegularUser
	RoleAdmin
	RoleModerator
	RoleAssociationAgent
)

// ClassifyRole maps a backend role identifier onto a Role. Any value outside
// the known contract classifies as RoleUnknown. The mapping is total and
// stable for the lifetime of the process.
func ClassifyRole(roleID int) Role {
	switch roleID {
	case 1:
		return RoleRegularUser
	case 2:
		return RoleAdmin
	case 3:
		return RoleModerator
	case 4:
		return RoleAssociationAgent
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleRegularUser:
		return "regular_user"
	case RoleAdmin:
		return "admin"
	case RoleModerator:
		return "moderator"
	case RoleAssociationAgent:
		return "association_agent"
	default:
		return "unknown"
	}
}

// Bit reports the role's position in a route.RoleSet mask.
func (r Role) Bit() int {
	return int(r)
}

// RoleSetOf builds a route.RoleSet from the given roles. RoleUnknown is
// ignored; it can never be a member of an access set.
func RoleSetOf(roles ...Role) route.RoleSet {
	var set route.RoleSet
	for _, r := range roles {
		if r == RoleUnknown {
			continue
		}
		set.Add(r.Bit())
	}
	return set
}

// AccountStatus is the classified account status of a subject. Only
// StatusActive permits role-based routing; every other status short-circuits
// the decision before roles are considered.
type AccountStatus uint8

const (
	StatusUnknown AccountStatus = iota
	StatusActive
	StatusInactive
	StatusPendingVerification
	StatusBlocked
)

// ClassifyStatus maps a backend status identifier onto an AccountStatus.
// Unrecognized values classify as StatusUnknown, which the guard treats
// exactly like StatusBlocked.
func ClassifyStatus(statusID int) AccountStatus {
	switch statusID {
	case 1:
		return StatusActive
	case 2:
		return StatusInactive
	case 3:
		return StatusPendingVerification
	case 4:
		return StatusBlocked
	default:
		return StatusUnknown
	}
}

func (s AccountStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	case StatusPendingVerification:
		return "pending_verification"
	case StatusBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Profile is re-exported so callers wiring a provider do not need to import
// the profile package for the common case.
type Profile = profile.Profile

// ProfileProvider is the interface the host application implements to fetch
// subject profiles from its backend.
type ProfileProvider = profile.Provider

// Snapshot is the complete input to a navigation decision. It is resolved
// once per Evaluate call; the decision logic itself never touches Redis or
// the network.
//
// ProfileReady distinguishes "no profile yet" from "profile says role 0":
// while false, RoleID and StatusID are meaningless and protected routes
// defer instead of rendering.
type Snapshot struct {
	HasSession   bool
	SubjectID    string
	SessionID    string
	ProfileReady bool
	RoleID       int
	StatusID     int
}
