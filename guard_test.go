package navguard

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/safezone-app/navguard/profile"
	"github.com/safezone-app/navguard/route"
)

type staticProvider struct {
	profiles map[string]Profile
	err      error
	calls    int
}

func (p *staticProvider) FetchProfile(ctx context.Context, subjectID string) (Profile, error) {
	p.calls++
	if p.err != nil {
		return Profile{}, p.err
	}
	prof, ok := p.profiles[subjectID]
	if !ok {
		return Profile{}, profile.ErrNotFound
	}
	return prof, nil
}

func testRoutes(t *testing.T) *route.Table {
	t.Helper()
	table := route.NewTable()
	for _, r := range []route.Route{
		{Name: "login", Path: "login", Policy: route.Public},
		{Name: "verify_email", Path: "verify_email", Policy: route.Public},
		{Name: "account_disabled", Path: "account_disabled", Policy: route.AuthenticatedAny},
		{Name: "settings", Path: "settings", Policy: route.AuthenticatedAny},
		{Name: "user_home", Path: "home/{id}", Policy: route.AuthenticatedRole, Roles: RoleSetOf(RoleRegularUser)},
		{Name: "admin_dashboard", Path: "admin", Policy: route.AuthenticatedRole, Roles: RoleSetOf(RoleAdmin)},
		{Name: "admin_users", Path: "admin/users", Policy: route.AuthenticatedRole, Roles: RoleSetOf(RoleAdmin)},
		{Name: "admin_categories", Path: "admin/categories", Policy: route.AuthenticatedRole, Roles: RoleSetOf(RoleAdmin)},
		{Name: "moderator_dashboard", Path: "moderation", Policy: route.AuthenticatedRole, Roles: RoleSetOf(RoleModerator)},
		{Name: "association_reports", Path: "association/reports", Policy: route.AuthenticatedRole, Roles: RoleSetOf(RoleAssociationAgent)},
		{Name: "report_review", Path: "reports/review", Policy: route.AuthenticatedRole, Roles: RoleSetOf(RoleModerator, RoleAssociationAgent)},
	} {
		if err := table.Register(r); err != nil {
			t.Fatalf("register %s: %v", r.Name, err)
		}
	}
	return table
}

func testConfig(t *testing.T) Config {
	t.Helper()
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate keys: %v", err)
	}
	cfg := defaultConfig()
	cfg.Token.PrivateKey = private
	cfg.Token.PublicKey = public
	cfg.Token.Issuer = "navguard-test"
	return cfg
}

func newTestGuard(t *testing.T, provider *staticProvider, mutate func(*Config)) (*Guard, *miniredis.Miniredis) {
	t.Helper()

	mini := miniredis.RunT(t)
	cfg := testConfig(t)
	if mutate != nil {
		mutate(&cfg)
	}

	builder := New().
		WithConfig(cfg).
		WithRedis(redis.NewClient(&redis.Options{Addr: mini.Addr()})).
		WithRoutes(testRoutes(t)).
		WithProfileProvider(provider)

	guard, err := builder.Build()
	if err != nil {
		t.Fatalf("build guard: %v", err)
	}
	t.Cleanup(guard.Close)
	return guard, mini
}

func activeProvider() *staticProvider {
	return &staticProvider{profiles: map[string]Profile{
		"u1": {ID: "u1", DisplayName: "Sana", RoleID: 1, StatusID: 1},
		"a1": {ID: "a1", DisplayName: "Rim", RoleID: 2, StatusID: 1},
		"m1": {ID: "m1", DisplayName: "Yas", RoleID: 3, StatusID: 1},
		"g1": {ID: "g1", DisplayName: "Nour", RoleID: 4, StatusID: 1},
	}}
}

func login(t *testing.T, g *Guard, p Profile) string {
	t.Helper()
	cred, err := g.StartSession(context.Background(), p)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return cred
}

func TestPublicRouteAllowsWithoutSession(t *testing.T) {
	g, _ := newTestGuard(t, activeProvider(), nil)

	d, err := g.Evaluate(context.Background(), "", "login", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Kind != DecisionAllow || d.Route != "login" {
		t.Fatalf("expected allow on login, got %s route=%s", d.Kind, d.Route)
	}
}

func TestPublicRouteAllowsWithLiveSession(t *testing.T) {
	provider := activeProvider()
	g, _ := newTestGuard(t, provider, nil)
	cred := login(t, g, provider.profiles["u1"])

	d, err := g.Evaluate(context.Background(), cred, "login", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Kind != DecisionAllow {
		t.Fatalf("re-auth must stay reachable, got %s reason=%s", d.Kind, d.Reason)
	}
}

func TestProtectedRouteWithoutSessionRedirectsToLogin(t *testing.T) {
	g, _ := newTestGuard(t, activeProvider(), nil)

	d, err := g.Evaluate(context.Background(), "", "admin_users", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Kind != DecisionRedirect || d.Route != "login" {
		t.Fatalf("expected redirect to login, got %s route=%s", d.Kind, d.Route)
	}
	if d.Truncate != TruncateAll {
		t.Fatalf("expected TruncateAll, got %s", d.Truncate)
	}
	if d.Reason != DenyNoSession {
		t.Fatalf("expected no_session, got %s", d.Reason)
	}
}

func TestUnregisteredRouteFailsClosed(t *testing.T) {
	provider := activeProvider()
	g, _ := newTestGuard(t, provider, func(cfg *Config) { cfg.Metrics.Enabled = true })
	cred := login(t, g, provider.profiles["a1"])

	d, err := g.Evaluate(context.Background(), cred, "definitely_not_a_route", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Kind != DecisionRedirect || d.Route != "login" || d.Truncate != TruncateAll {
		t.Fatalf("unregistered route must behave like unauthorized, got %+v", d)
	}
	if d.Reason != DenyRouteNotFound {
		t.Fatalf("expected route_not_found, got %s", d.Reason)
	}
	if got := g.MetricsSnapshot().Counters[MetricRouteNotFound]; got != 1 {
		t.Fatalf("expected route-not-found metric 1, got %d", got)
	}
}

func TestInactiveStatusDominatesRolePolicy(t *testing.T) {
	provider := activeProvider()
	provider.profiles["a1"] = Profile{ID: "a1", RoleID: 2, StatusID: 2}
	g, _ := newTestGuard(t, provider, nil)
	cred := login(t, g, provider.profiles["a1"])

	d, err := g.Evaluate(context.Background(), cred, "admin_dashboard", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Route != "account_disabled" || d.Truncate != TruncateToRoot {
		t.Fatalf("inactive admin must land on interstitial, got %+v", d)
	}
	if d.Reason != DenyStatusInactive {
		t.Fatalf("expected status_inactive, got %s", d.Reason)
	}
}

func TestBlockedStatusDominatesRolePolicy(t *testing.T) {
	provider := activeProvider()
	provider.profiles["u1"] = Profile{ID: "u1", RoleID: 1, StatusID: 4}
	g, _ := newTestGuard(t, provider, nil)
	cred := login(t, g, provider.profiles["u1"])

	d, err := g.Evaluate(context.Background(), cred, "user_home", map[string]string{"id": "u1"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Route != "account_disabled" || d.Reason != DenyStatusBlocked || d.Truncate != TruncateToRoot {
		t.Fatalf("blocked user must land on interstitial, got %+v", d)
	}
}

func TestUnrecognizedStatusTreatedAsBlocked(t *testing.T) {
	provider := activeProvider()
	provider.profiles["u1"] = Profile{ID: "u1", RoleID: 1, StatusID: 9}
	g, _ := newTestGuard(t, provider, nil)
	cred := login(t, g, provider.profiles["u1"])

	d, err := g.Evaluate(context.Background(), cred, "settings", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Reason != DenyStatusBlocked {
		t.Fatalf("unrecognized status must fail closed as blocked, got %s", d.Reason)
	}
}

func TestPendingVerificationRedirectsAdmin(t *testing.T) {
	provider := activeProvider()
	provider.profiles["a1"] = Profile{ID: "a1", RoleID: 2, StatusID: 3}
	g, _ := newTestGuard(t, provider, nil)
	cred := login(t, g, provider.profiles["a1"])

	d, err := g.Evaluate(context.Background(), cred, "admin_dashboard", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Route != "verify_email" || d.Truncate != TruncateToVerificationEntry {
		t.Fatalf("pending admin must land on verification, got %+v", d)
	}
	if d.Reason != DenyStatusPending {
		t.Fatalf("expected status_pending_verification, got %s", d.Reason)
	}
}

func TestRegularUserOnAdminDashboardLandsOnOwnHome(t *testing.T) {
	provider := activeProvider()
	g, _ := newTestGuard(t, provider, nil)
	cred := login(t, g, provider.profiles["u1"])

	d, err := g.Evaluate(context.Background(), cred, "admin_dashboard", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Kind != DecisionRedirect || d.Route != "user_home" {
		t.Fatalf("wrong-role redirect must target the role home, got %+v", d)
	}
	if d.Route == "login" {
		t.Fatal("authenticated subject must never be bounced to login for a role mismatch")
	}
	if d.Path != "home/u1" {
		t.Fatalf("home path must expand the subject id, got %q", d.Path)
	}
	if d.Truncate != TruncateNone {
		t.Fatalf("wrong-role redirect must keep history, got %s", d.Truncate)
	}
	if d.Reason != DenyWrongRole {
		t.Fatalf("expected wrong_role, got %s", d.Reason)
	}
}

func TestSharedRouteAdmitsEveryListedRole(t *testing.T) {
	provider := activeProvider()
	g, _ := newTestGuard(t, provider, nil)

	for _, subject := range []string{"m1", "g1"} {
		cred := login(t, g, provider.profiles[subject])
		d, err := g.Evaluate(context.Background(), cred, "report_review", nil)
		if err != nil {
			t.Fatalf("evaluate for %s: %v", subject, err)
		}
		if d.Kind != DecisionAllow {
			t.Fatalf("%s must be allowed on report_review, got %s reason=%s", subject, d.Kind, d.Reason)
		}
	}
}

func TestAssociationAgentOnAdminRouteLandsOnAssociationHome(t *testing.T) {
	provider := activeProvider()
	g, _ := newTestGuard(t, provider, nil)
	cred := login(t, g, provider.profiles["g1"])

	d, err := g.Evaluate(context.Background(), cred, "admin_categories", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Route != "association_reports" || d.Reason != DenyWrongRole {
		t.Fatalf("expected association home redirect, got %+v", d)
	}
}

func TestUnknownRoleFailsClosedToLogin(t *testing.T) {
	provider := activeProvider()
	provider.profiles["u1"] = Profile{ID: "u1", RoleID: 99, StatusID: 1}
	g, _ := newTestGuard(t, provider, func(cfg *Config) { cfg.Metrics.Enabled = true })
	cred := login(t, g, provider.profiles["u1"])

	d, err := g.Evaluate(context.Background(), cred, "settings", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Route != "login" || d.Truncate != TruncateAll || d.Reason != DenyUnknownRole {
		t.Fatalf("unknown role must fail closed to login, got %+v", d)
	}
	if got := g.MetricsSnapshot().Counters[MetricUnknownRole]; got != 1 {
		t.Fatalf("expected unknown-role metric 1, got %d", got)
	}
}

func TestPostLoginDestinationPerRole(t *testing.T) {
	g, _ := newTestGuard(t, activeProvider(), nil)

	cases := []struct {
		roleID int
		want   string
	}{
		{1, "user_home"},
		{2, "admin_dashboard"},
		{3, "moderator_dashboard"},
		{4, "association_reports"},
	}
	for _, tc := range cases {
		d, err := g.PostLoginDestination(context.Background(), tc.roleID, "u1")
		if err != nil {
			t.Fatalf("role %d: %v", tc.roleID, err)
		}
		if d.Route != tc.want {
			t.Fatalf("role %d: expected %s, got %s", tc.roleID, tc.want, d.Route)
		}
	}

	d, err := g.PostLoginDestination(context.Background(), 1, "u1")
	if err != nil {
		t.Fatalf("user destination: %v", err)
	}
	if d.Path != "home/u1" {
		t.Fatalf("user home path must expand the subject id, got %q", d.Path)
	}
}

func TestPostLoginDestinationUnknownRole(t *testing.T) {
	g, _ := newTestGuard(t, activeProvider(), nil)

	d, err := g.PostLoginDestination(context.Background(), 99, "x1")
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if d != (Decision{}) {
		t.Fatalf("unknown role must yield no destination, got %+v", d)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	provider := activeProvider()
	g, _ := newTestGuard(t, provider, nil)
	cred := login(t, g, provider.profiles["u1"])

	ctx := context.Background()
	if err := g.Logout(ctx, cred); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if err := g.Logout(ctx, cred); err != nil {
		t.Fatalf("second logout must succeed: %v", err)
	}
	if g.HasActiveSession(ctx, cred) {
		t.Fatal("session must be gone after logout")
	}
}

func TestLogoutAllEndsEverySession(t *testing.T) {
	provider := activeProvider()
	g, _ := newTestGuard(t, provider, nil)
	ctx := context.Background()

	first := login(t, g, provider.profiles["u1"])
	second := login(t, g, provider.profiles["u1"])

	if err := g.LogoutAllForSubject(ctx, "u1"); err != nil {
		t.Fatalf("logout all: %v", err)
	}
	if g.HasActiveSession(ctx, first) || g.HasActiveSession(ctx, second) {
		t.Fatal("all sessions must be gone after logout-all")
	}
}

func TestProfileFailureDefersProtectedRoute(t *testing.T) {
	provider := activeProvider()
	g, _ := newTestGuard(t, provider, nil)
	cred := login(t, g, provider.profiles["u1"])

	provider.err = errors.New("backend down")
	d, err := g.Evaluate(context.Background(), cred, "user_home", map[string]string{"id": "u1"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Kind != DecisionDefer {
		t.Fatalf("unresolved profile must defer, got %s reason=%s", d.Kind, d.Reason)
	}
	if d.Route != "user_home" {
		t.Fatalf("defer must keep the requested route for retry, got %s", d.Route)
	}
}

func TestSessionBackendOutageDegradesToNoSession(t *testing.T) {
	provider := activeProvider()
	g, mini := newTestGuard(t, provider, nil)
	cred := login(t, g, provider.profiles["u1"])

	mini.SetError("connection refused")
	d, err := g.Evaluate(context.Background(), cred, "settings", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Kind != DecisionRedirect || d.Reason != DenyNoSession {
		t.Fatalf("backend outage must fail closed to login, got %+v", d)
	}
}

func TestPublicRouteSkipsSessionResolution(t *testing.T) {
	provider := activeProvider()
	g, mini := newTestGuard(t, provider, func(cfg *Config) { cfg.Metrics.Enabled = true })
	cred := login(t, g, provider.profiles["u1"])

	// With the backend down, a public navigation must still allow without
	// touching the session store.
	mini.SetError("connection refused")

	d, err := g.Evaluate(context.Background(), cred, "login", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Kind != DecisionAllow {
		t.Fatalf("expected allow on login, got %s reason=%s", d.Kind, d.Reason)
	}

	snap := g.MetricsSnapshot()
	if got := snap.Counters[MetricSessionLookupFailure]; got != 0 {
		t.Fatalf("public navigation must not record a session lookup failure, got %d", got)
	}
	if got := snap.Counters[MetricProfileLoadFailure]; got != 0 {
		t.Fatalf("public navigation must not record a profile load failure, got %d", got)
	}
}

func TestDeniedNavigationEmitsAuditEvent(t *testing.T) {
	provider := activeProvider()
	sink := NewChannelSink(16)

	mini := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Audit.Enabled = true

	g, err := New().
		WithConfig(cfg).
		WithRedis(redis.NewClient(&redis.Options{Addr: mini.Addr()})).
		WithRoutes(testRoutes(t)).
		WithProfileProvider(provider).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build guard: %v", err)
	}

	ctx := WithClientIP(context.Background(), "203.0.113.7")
	cred := login(t, g, provider.profiles["u1"])

	if _, err := g.Evaluate(ctx, cred, "admin_dashboard", nil); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	g.Close()

	var denied *AuditEvent
	for {
		select {
		case event := <-sink.C:
			if event.EventType == auditEventNavigationDenied {
				denied = &event
			}
			continue
		default:
		}
		break
	}
	if denied == nil {
		t.Fatal("expected a navigation_denied audit event")
	}
	if denied.Route != "admin_dashboard" {
		t.Fatalf("audit must carry the requested route, got %q", denied.Route)
	}
	if denied.Metadata["reason"] != "wrong_role" {
		t.Fatalf("audit must carry the denial reason, got %q", denied.Metadata["reason"])
	}
	if denied.IP != "203.0.113.7" {
		t.Fatalf("audit must carry the client IP, got %q", denied.IP)
	}
}

func TestStartSessionRequiresSubject(t *testing.T) {
	g, _ := newTestGuard(t, activeProvider(), nil)

	if _, err := g.StartSession(context.Background(), Profile{}); !errors.Is(err, ErrSubjectRequired) {
		t.Fatalf("expected ErrSubjectRequired, got %v", err)
	}
}

func TestZeroGuardFailsClosed(t *testing.T) {
	var g *Guard
	if _, err := g.Evaluate(context.Background(), "", "login", nil); !errors.Is(err, ErrGuardNotReady) {
		t.Fatalf("expected ErrGuardNotReady, got %v", err)
	}
	if g.HasActiveSession(context.Background(), "x") {
		t.Fatal("zero guard must report no session")
	}
}
