package route

import (
	"errors"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	table := NewTable()

	var mods RoleSet
	mods.Add(3)

	if err := table.Register(Route{Name: "login", Path: "login", Policy: Public}); err != nil {
		t.Fatalf("register login: %v", err)
	}
	if err := table.Register(Route{Name: "moderation", Path: "moderation", Policy: AuthenticatedRole, Roles: mods}); err != nil {
		t.Fatalf("register moderation: %v", err)
	}

	if table.Count() != 2 {
		t.Fatalf("expected 2 routes, got %d", table.Count())
	}
	r, ok := table.Lookup("moderation")
	if !ok || !r.Roles.Has(3) {
		t.Fatalf("lookup moderation: ok=%v route=%+v", ok, r)
	}
	if _, ok := table.Lookup("nope"); ok {
		t.Fatal("unregistered name must not resolve")
	}
}

func TestRegisterRejectsInvalidRoutes(t *testing.T) {
	var mods RoleSet
	mods.Add(3)

	cases := []struct {
		name  string
		route Route
	}{
		{"empty name", Route{Path: "x", Policy: Public}},
		{"empty path", Route{Name: "x", Policy: Public}},
		{"role policy without roles", Route{Name: "x", Path: "x", Policy: AuthenticatedRole}},
		{"roles without role policy", Route{Name: "x", Path: "x", Policy: Public, Roles: mods}},
		{"invalid policy", Route{Name: "x", Path: "x", Policy: Policy(9)}},
	}
	for _, tc := range cases {
		table := NewTable()
		if err := table.Register(tc.route); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	table := NewTable()
	r := Route{Name: "login", Path: "login", Policy: Public}
	if err := table.Register(r); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := table.Register(r); err == nil {
		t.Fatal("duplicate must be rejected")
	}
}

func TestFreezeBlocksRegistration(t *testing.T) {
	table := NewTable()
	if err := table.Register(Route{Name: "login", Path: "login", Policy: Public}); err != nil {
		t.Fatalf("register: %v", err)
	}

	table.Freeze()
	table.Freeze() // idempotent

	if !table.Frozen() {
		t.Fatal("table must report frozen")
	}
	err := table.Register(Route{Name: "late", Path: "late", Policy: Public})
	if !errors.Is(err, ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
	if _, ok := table.Lookup("login"); !ok {
		t.Fatal("lookup must keep working after freeze")
	}
}

func TestRoleSetBounds(t *testing.T) {
	var set RoleSet
	set.Add(-1)
	set.Add(8)
	if !set.Empty() {
		t.Fatal("out-of-range bits must be ignored")
	}
	set.Add(0)
	set.Add(7)
	if !set.Has(0) || !set.Has(7) {
		t.Fatal("in-range bits must be set")
	}
	if set.Has(-1) || set.Has(8) {
		t.Fatal("out-of-range membership must be false")
	}
}

func TestExpand(t *testing.T) {
	got, err := Expand("home/{id}", map[string]string{"id": "u1"})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != "home/u1" {
		t.Fatalf("expected home/u1, got %q", got)
	}

	got, err = Expand("reports/{kind}/{id}", map[string]string{"kind": "noise", "id": "42"})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != "reports/noise/42" {
		t.Fatalf("expected reports/noise/42, got %q", got)
	}

	if got, err := Expand("login", nil); err != nil || got != "login" {
		t.Fatalf("plain path must pass through, got %q err=%v", got, err)
	}
}

func TestExpandErrors(t *testing.T) {
	if _, err := Expand("home/{id}", nil); err == nil {
		t.Fatal("missing param must error")
	}
	if _, err := Expand("home/{id", map[string]string{"id": "u1"}); err == nil {
		t.Fatal("unterminated placeholder must error")
	}
	if _, err := Expand("home/{}", map[string]string{"": "u1"}); err == nil {
		t.Fatal("empty placeholder must error")
	}
}
