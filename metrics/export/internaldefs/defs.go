package internaldefs

import (
	navguard "github.com/safezone-app/navguard"
)

// CounterDef binds a MetricID to its exported name and help text.
type CounterDef struct {
	ID   navguard.MetricID
	Name string
	Help string
}

// HistogramDef binds a HistogramID to its exported name and help text.
type HistogramDef struct {
	ID   navguard.HistogramID
	Name string
	Help string
}

// CounterDefs lists every exported counter.
var CounterDefs = []CounterDef{
	{ID: navguard.MetricNavigationAllowed, Name: "navguard_navigation_allowed_total", Help: "Navigation requests that rendered their destination."},
	{ID: navguard.MetricNavigationDeferred, Name: "navguard_navigation_deferred_total", Help: "Navigation requests deferred on an unresolved profile."},
	{ID: navguard.MetricRedirectLogin, Name: "navguard_redirect_login_total", Help: "Redirects to login for missing sessions."},
	{ID: navguard.MetricRedirectDisabled, Name: "navguard_redirect_disabled_total", Help: "Redirects to the account-disabled interstitial."},
	{ID: navguard.MetricRedirectVerification, Name: "navguard_redirect_verification_total", Help: "Redirects to the verification entry point."},
	{ID: navguard.MetricRedirectRoleHome, Name: "navguard_redirect_role_home_total", Help: "Wrong-role redirects to the subject's own home."},
	{ID: navguard.MetricRouteNotFound, Name: "navguard_route_not_found_total", Help: "Navigation requests naming unregistered routes."},
	{ID: navguard.MetricUnknownRole, Name: "navguard_unknown_role_total", Help: "Evaluations that classified an unknown role."},
	{ID: navguard.MetricSessionStarted, Name: "navguard_session_started_total", Help: "Started sessions."},
	{ID: navguard.MetricSessionEnded, Name: "navguard_session_ended_total", Help: "Single-session logouts."},
	{ID: navguard.MetricLogoutAll, Name: "navguard_logout_all_total", Help: "Logout-all operations."},
	{ID: navguard.MetricSessionLookupFailure, Name: "navguard_session_lookup_failure_total", Help: "Session lookups degraded by backend unavailability."},
	{ID: navguard.MetricProfileLoadFailure, Name: "navguard_profile_load_failure_total", Help: "Profile fetches that failed and deferred navigation."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: navguard.HistogramEvaluateLatency, Name: "navguard_evaluate_latency_seconds", Help: "Evaluate latency histogram."},
}

// HistogramBounds are the textual upper bounds, aligned with the collector's
// fixed buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are the bound spellings usable inside instrument
// names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// CumulativeBuckets converts per-bucket counts into the cumulative form the
// exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
