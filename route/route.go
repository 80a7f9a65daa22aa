package route

import (
	"fmt"
	"strings"
)

// Policy is the access class of a route.
type Policy uint8

const (
	// Public routes render for anyone, including callers holding a live
	// session. Login and registration stay reachable for re-auth flows.
	Public Policy = iota
	// AuthenticatedAny requires an active session with any known role.
	AuthenticatedAny
	// AuthenticatedRole requires an active session whose role is a member
	// of the route's RoleSet.
	AuthenticatedRole
)

func (p Policy) String() string {
	switch p {
	case Public:
		return "public"
	case AuthenticatedAny:
		return "authenticated_any"
	case AuthenticatedRole:
		return "authenticated_role"
	default:
		return "invalid"
	}
}

// RoleSet is a bitmask of role bits. Bits are assigned by the root package's
// Role.Bit; the mask itself is agnostic about what the bits mean. A uint8 is
// wide enough for the role space and keeps set membership a single AND.
type RoleSet uint8

// Add sets the given bit. Bits outside 0..7 are ignored.
func (s *RoleSet) Add(bit int) {
	if bit < 0 || bit > 7 {
		return
	}
	*s |= 1 << uint(bit)
}

// Has reports whether the given bit is set.
func (s RoleSet) Has(bit int) bool {
	if bit < 0 || bit > 7 {
		return false
	}
	return s&(1<<uint(bit)) != 0
}

// Empty reports whether no bit is set.
func (s RoleSet) Empty() bool {
	return s == 0
}

// Route is one registered destination. Path is a template whose {param}
// segments are substituted by Expand at navigation time.
type Route struct {
	Name   string
	Path   string
	Policy Policy
	Roles  RoleSet
}

// Expand substitutes {param} placeholders in a path template. A placeholder
// with no matching key is an error: rendering a half-expanded path would
// leak the template into the UI.
func Expand(path string, params map[string]string) (string, error) {
	if !strings.Contains(path, "{") {
		return path, nil
	}

	var out strings.Builder
	rest := path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return "", fmt.Errorf("unterminated placeholder in path %q", path)
		}
		closing += open

		out.WriteString(rest[:open])
		key := rest[open+1 : closing]
		if key == "" {
			return "", fmt.Errorf("empty placeholder in path %q", path)
		}
		value, ok := params[key]
		if !ok {
			return "", fmt.Errorf("missing path parameter %q", key)
		}
		out.WriteString(value)
		rest = rest[closing+1:]
	}
}
