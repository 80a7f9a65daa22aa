package route

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrFrozen is returned by Register after Freeze.
	ErrFrozen = errors.New("route table frozen")
	// ErrNotFrozen is returned by consumers that require a frozen table.
	ErrNotFrozen = errors.New("route table not frozen")
)

// Table is the navigation registry. Registration happens during startup from
// a single goroutine; Freeze then makes the table immutable and safe for
// concurrent lookups on the hot path.
type Table struct {
	mu     sync.RWMutex
	routes map[string]Route
	frozen bool
}

// NewTable returns an empty, unfrozen table.
func NewTable() *Table {
	return &Table{routes: make(map[string]Route)}
}

// Register adds a route. It rejects duplicates, empty names or paths, and
// role-gated routes with an empty role set (a route nobody can reach is a
// configuration mistake, not a lockdown).
func (t *Table) Register(r Route) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen {
		return ErrFrozen
	}
	if r.Name == "" {
		return errors.New("route name required")
	}
	if r.Path == "" {
		return errors.New("route path required")
	}
	if r.Policy > AuthenticatedRole {
		return fmt.Errorf("invalid policy for route %q", r.Name)
	}
	if r.Policy == AuthenticatedRole && r.Roles.Empty() {
		return fmt.Errorf("route %q is role-gated with an empty role set", r.Name)
	}
	if r.Policy != AuthenticatedRole && !r.Roles.Empty() {
		return fmt.Errorf("route %q carries roles without a role policy", r.Name)
	}
	if _, exists := t.routes[r.Name]; exists {
		return fmt.Errorf("route %q already registered", r.Name)
	}

	t.routes[r.Name] = r
	return nil
}

// Freeze makes the table immutable. Idempotent.
func (t *Table) Freeze() {
	t.mu.Lock()
	t.frozen = true
	t.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (t *Table) Frozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frozen
}

// Lookup returns the route registered under name.
func (t *Table) Lookup(name string) (Route, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.routes[name]
	return r, ok
}

// Count returns the number of registered routes.
func (t *Table) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.routes)
}

// Names returns the registered route names in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.routes))
	for name := range t.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
