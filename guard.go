package navguard

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/safezone-app/navguard/internal"
	"github.com/safezone-app/navguard/profile"
	"github.com/safezone-app/navguard/route"
	"github.com/safezone-app/navguard/session"
	"github.com/safezone-app/navguard/token"
)

// Guard is the navigation authorization engine. Construct it through
// Builder; a zero Guard returns ErrGuardNotReady from every method.
type Guard struct {
	config   Config
	routes   *route.Table
	sessions *session.Store
	tokens   *token.Manager
	profiles *profile.Cache
	audit    *auditDispatcher
	metrics  *Metrics
	built    bool
}

// Routes returns the frozen route table.
func (g *Guard) Routes() *route.Table {
	if g == nil {
		return nil
	}
	return g.routes
}

// Close stops background workers (the audit dispatcher), draining buffered
// events first. Idempotent.
func (g *Guard) Close() {
	if g == nil {
		return
	}
	g.audit.Close()
}

// AuditDropped returns the number of audit events lost to a full buffer.
func (g *Guard) AuditDropped() uint64 {
	if g == nil {
		return 0
	}
	return g.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (g *Guard) MetricsSnapshot() MetricsSnapshot {
	if g == nil {
		return MetricsSnapshot{}
	}
	return g.metrics.Snapshot()
}

// StartSession records a session for an already-authenticated subject and
// returns the signed credential the client holds. Identity verification
// happened elsewhere; this method trusts its caller. The session is recorded
// regardless of account status — status gating happens on every navigation,
// so a pending or disabled account logs in and immediately lands on its
// interstitial.
func (g *Guard) StartSession(ctx context.Context, p Profile) (string, error) {
	if g == nil || !g.built {
		return "", ErrGuardNotReady
	}
	if p.ID == "" {
		return "", ErrSubjectRequired
	}

	sid, err := internal.NewSessionID()
	if err != nil {
		return "", err
	}

	now := time.Now()
	sess := &session.Session{
		SessionID: sid.String(),
		SubjectID: p.ID,
		RoleID:    clampID(p.RoleID),
		StatusID:  clampID(p.StatusID),
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(g.config.Session.AbsoluteLifetime).Unix(),
	}

	if err := g.sessions.Save(ctx, sess, g.config.Session.AbsoluteLifetime); err != nil {
		g.emitAudit(ctx, auditEventSessionStarted, false, p.ID, "", "", "", ErrSessionUnavailable, nil)
		return "", errors.Join(ErrSessionUnavailable, err)
	}

	credential, err := g.tokens.Create(p.ID, sess.SessionID, sess.RoleID, sess.StatusID)
	if err != nil {
		// Best effort: do not leave an orphaned record behind.
		if delErr := g.sessions.Delete(ctx, sess.SessionID); delErr != nil {
			log.Print("navguard: failed to roll back session after signing error: ", delErr)
		}
		return "", err
	}

	g.metrics.Inc(MetricSessionStarted)
	g.emitAudit(ctx, auditEventSessionStarted, true, p.ID, sess.SessionID, "", "", nil, nil)
	return credential, nil
}

// Logout ends the session bound to the credential. Idempotent: logging out
// an already-ended session succeeds. An unparseable credential also returns
// nil — there is nothing to end and nothing to tell an attacker.
func (g *Guard) Logout(ctx context.Context, credential string) error {
	if g == nil || !g.built {
		return ErrGuardNotReady
	}

	claims, err := g.tokens.Parse(credential)
	if err != nil {
		g.emitAudit(ctx, auditEventLogoutSession, false, "", "", "", "", ErrTokenInvalid, nil)
		return nil
	}

	if err := g.sessions.Delete(ctx, claims.SID); err != nil {
		g.emitAudit(ctx, auditEventLogoutSession, false, claims.UID, claims.SID, "", "", ErrSessionUnavailable, nil)
		return errors.Join(ErrSessionUnavailable, err)
	}

	if err := g.profiles.Invalidate(ctx, claims.UID); err != nil {
		log.Print("navguard: profile invalidate on logout failed: ", err)
	}

	g.metrics.Inc(MetricSessionEnded)
	g.emitAudit(ctx, auditEventLogoutSession, true, claims.UID, claims.SID, "", "", nil, nil)
	return nil
}

// LogoutAllForSubject ends every session of a subject, for remote revocation
// after a role or status change.
func (g *Guard) LogoutAllForSubject(ctx context.Context, subjectID string) error {
	if g == nil || !g.built {
		return ErrGuardNotReady
	}
	if subjectID == "" {
		return ErrSubjectRequired
	}

	if err := g.sessions.DeleteAllForSubject(ctx, subjectID); err != nil {
		g.emitAudit(ctx, auditEventLogoutAll, false, subjectID, "", "", "", ErrSessionUnavailable, nil)
		return errors.Join(ErrSessionUnavailable, err)
	}

	if err := g.profiles.Invalidate(ctx, subjectID); err != nil {
		log.Print("navguard: profile invalidate on logout-all failed: ", err)
	}

	g.metrics.Inc(MetricLogoutAll)
	g.emitAudit(ctx, auditEventLogoutAll, true, subjectID, "", "", "", nil, nil)
	return nil
}

// HasActiveSession reports whether the credential maps to a live session.
func (g *Guard) HasActiveSession(ctx context.Context, credential string) bool {
	if g == nil || !g.built {
		return false
	}
	return g.resolveSession(ctx, credential) != nil
}

// InvalidateProfile drops the cached profile so the next navigation re-reads
// role and status from the provider. Call it after profile edits.
func (g *Guard) InvalidateProfile(ctx context.Context, subjectID string) error {
	if g == nil || !g.built {
		return ErrGuardNotReady
	}
	return g.profiles.Invalidate(ctx, subjectID)
}

// resolveSession turns a credential into its live session record, or nil.
// Every failure along the way — bad signature, missing record, Redis down,
// subject mismatch — degrades to nil: the guard treats the caller as
// unauthenticated rather than guessing.
func (g *Guard) resolveSession(ctx context.Context, credential string) *session.Session {
	if credential == "" {
		return nil
	}

	claims, err := g.tokens.Parse(credential)
	if err != nil {
		return nil
	}

	sess, err := g.sessions.Get(ctx, claims.SID, g.config.Session.AbsoluteLifetime)
	if err != nil {
		if errors.Is(err, session.ErrRedisUnavailable) {
			log.Print("navguard: session lookup degraded to no-session: ", err)
			g.metrics.Inc(MetricSessionLookupFailure)
			g.emitAudit(ctx, auditEventSessionLookupFailure, false, claims.UID, claims.SID, "", "", ErrSessionUnavailable, nil)
		}
		return nil
	}

	if sess.SubjectID != claims.UID {
		// Credential and record disagree about who this is. Fail closed.
		return nil
	}

	return sess
}

// ResolveSnapshot resolves the decision inputs for a credential: session
// presence, then the profile's current role and status. Profile fetch
// failure leaves ProfileReady false, which defers protected routes.
func (g *Guard) ResolveSnapshot(ctx context.Context, credential string) Snapshot {
	if g == nil || !g.built {
		return Snapshot{}
	}

	sess := g.resolveSession(ctx, credential)
	if sess == nil {
		return Snapshot{}
	}

	snap := Snapshot{
		HasSession: true,
		SubjectID:  sess.SubjectID,
		SessionID:  sess.SessionID,
	}

	p, err := g.profiles.FetchProfile(ctx, sess.SubjectID)
	if err != nil {
		g.metrics.Inc(MetricProfileLoadFailure)
		g.emitAudit(ctx, auditEventProfileLoadFailure, false, sess.SubjectID, sess.SessionID, "", "", err, nil)
		return snap
	}

	snap.ProfileReady = true
	snap.RoleID = p.RoleID
	snap.StatusID = p.StatusID
	return snap
}

// Evaluate is the single navigation decision point: it resolves the
// snapshot for the credential, decides, and records the outcome in metrics
// and audit. params feeds path template expansion of the requested route.
func (g *Guard) Evaluate(ctx context.Context, credential, routeName string, params map[string]string) (Decision, error) {
	if g == nil || !g.built {
		return Decision{}, ErrGuardNotReady
	}

	start := time.Now()

	// Public destinations render for anyone; resolving the session would
	// only cost backend reads and, with Redis down, emit failure noise for
	// a decision that cannot use the result.
	var snap Snapshot
	if rt, ok := g.routes.Lookup(routeName); !ok || rt.Policy != route.Public {
		snap = g.ResolveSnapshot(ctx, credential)
	}

	d, err := g.Decide(snap, routeName, params)
	if err != nil {
		return Decision{}, err
	}

	g.recordDecision(ctx, snap, routeName, d)
	g.metrics.Observe(HistogramEvaluateLatency, time.Since(start))
	return d, nil
}

// Decide is the pure decision core. The ordering is the contract:
//
//  1. Unregistered route: fail closed, identical to unauthorized.
//  2. Public policy: Allow, session or not.
//  3. No session: redirect to login, clear the stack.
//  4. Profile unresolved: Defer.
//  5. Status gates, strictly before roles: inactive/blocked/unknown to the
//     disabled interstitial, pending to verification.
//  6. Role: unknown fails closed to login; otherwise Allow when the policy
//     admits the role, else redirect to the role's own home.
//
// An error return means the Allow path template could not be expanded with
// the given params, which is caller misuse, not a denial.
func (g *Guard) Decide(snap Snapshot, routeName string, params map[string]string) (Decision, error) {
	if g == nil || !g.built {
		return Decision{}, ErrGuardNotReady
	}

	rt, ok := g.routes.Lookup(routeName)
	if !ok {
		return g.redirect(g.config.Guard.LoginRoute, TruncateAll, DenyRouteNotFound, nil), nil
	}

	if rt.Policy == route.Public {
		return g.allow(rt, params)
	}

	if !snap.HasSession {
		return g.redirect(g.config.Guard.LoginRoute, TruncateAll, DenyNoSession, nil), nil
	}

	if !snap.ProfileReady {
		return Decision{Kind: DecisionDefer, Route: routeName}, nil
	}

	switch ClassifyStatus(snap.StatusID) {
	case StatusActive:
	case StatusInactive:
		return g.redirect(g.config.Guard.DisabledRoute, TruncateToRoot, DenyStatusInactive, nil), nil
	case StatusPendingVerification:
		return g.redirect(g.config.Guard.VerificationRoute, TruncateToVerificationEntry, DenyStatusPending, nil), nil
	default:
		// Blocked, and anything unrecognized.
		return g.redirect(g.config.Guard.DisabledRoute, TruncateToRoot, DenyStatusBlocked, nil), nil
	}

	role := ClassifyRole(snap.RoleID)
	if role == RoleUnknown {
		return g.redirect(g.config.Guard.LoginRoute, TruncateAll, DenyUnknownRole, nil), nil
	}

	if rt.Policy == route.AuthenticatedAny || rt.Roles.Has(role.Bit()) {
		return g.allow(rt, params)
	}

	return g.redirect(g.roleHome(role), TruncateNone, DenyWrongRole, homeParams(snap.SubjectID)), nil
}

// PostLoginDestination returns the redirect that lands a freshly
// authenticated subject on their role's home. RoleUnknown has no
// destination: the caller gets ErrUnknownRole and must not navigate.
func (g *Guard) PostLoginDestination(ctx context.Context, roleID int, subjectID string) (Decision, error) {
	if g == nil || !g.built {
		return Decision{}, ErrGuardNotReady
	}

	role := ClassifyRole(roleID)
	if role == RoleUnknown {
		g.metrics.Inc(MetricUnknownRole)
		g.emitAudit(ctx, auditEventNavigationUnknownRole, false, subjectID, "", "", "", ErrUnknownRole, func() map[string]string {
			return map[string]string{"role_id": strconv.Itoa(roleID)}
		})
		return Decision{}, ErrUnknownRole
	}

	return g.redirect(g.roleHome(role), TruncateAll, DenyNone, homeParams(subjectID)), nil
}

func (g *Guard) allow(rt route.Route, params map[string]string) (Decision, error) {
	path, err := route.Expand(rt.Path, params)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Kind: DecisionAllow, Route: rt.Name, Path: path}, nil
}

func (g *Guard) redirect(name string, policy TruncatePolicy, reason DenyReason, params map[string]string) Decision {
	d := Decision{Kind: DecisionRedirect, Route: name, Truncate: policy, Reason: reason}
	if rt, ok := g.routes.Lookup(name); ok {
		if path, err := route.Expand(rt.Path, params); err == nil {
			d.Path = path
		} else {
			d.Path = rt.Path
		}
	} else {
		d.Path = name
	}
	return d
}

func (g *Guard) roleHome(role Role) string {
	if home, ok := g.config.Guard.RoleHomes[role]; ok {
		return home
	}
	return g.config.Guard.LoginRoute
}

func (g *Guard) recordDecision(ctx context.Context, snap Snapshot, requested string, d Decision) {
	switch d.Kind {
	case DecisionAllow:
		g.metrics.Inc(MetricNavigationAllowed)
		return
	case DecisionDefer:
		g.metrics.Inc(MetricNavigationDeferred)
		return
	}

	requestID := uuid.NewString()
	metadata := func() map[string]string {
		return map[string]string{
			"reason": d.Reason.String(),
			"target": d.Route,
		}
	}

	switch d.Reason {
	case DenyRouteNotFound:
		g.metrics.Inc(MetricRouteNotFound)
		g.emitAudit(ctx, auditEventRouteNotFound, false, snap.SubjectID, snap.SessionID, requestID, requested, ErrRouteNotFound, metadata)
	case DenyNoSession:
		g.metrics.Inc(MetricRedirectLogin)
		g.emitAudit(ctx, auditEventNavigationDenied, false, snap.SubjectID, snap.SessionID, requestID, requested, nil, metadata)
	case DenyStatusInactive:
		g.metrics.Inc(MetricRedirectDisabled)
		g.emitAudit(ctx, auditEventNavigationDenied, false, snap.SubjectID, snap.SessionID, requestID, requested, ErrAccountInactive, metadata)
	case DenyStatusBlocked:
		g.metrics.Inc(MetricRedirectDisabled)
		g.emitAudit(ctx, auditEventNavigationDenied, false, snap.SubjectID, snap.SessionID, requestID, requested, ErrAccountBlocked, metadata)
	case DenyStatusPending:
		g.metrics.Inc(MetricRedirectVerification)
		g.emitAudit(ctx, auditEventNavigationDenied, false, snap.SubjectID, snap.SessionID, requestID, requested, ErrAccountPending, metadata)
	case DenyUnknownRole:
		g.metrics.Inc(MetricUnknownRole)
		g.emitAudit(ctx, auditEventNavigationUnknownRole, false, snap.SubjectID, snap.SessionID, requestID, requested, ErrUnknownRole, func() map[string]string {
			md := metadata()
			md["role_id"] = strconv.Itoa(snap.RoleID)
			return md
		})
	case DenyWrongRole:
		g.metrics.Inc(MetricRedirectRoleHome)
		g.emitAudit(ctx, auditEventNavigationDenied, false, snap.SubjectID, snap.SessionID, requestID, requested, nil, metadata)
	}
}

func homeParams(subjectID string) map[string]string {
	return map[string]string{"id": subjectID}
}

func clampID(v int) uint8 {
	if v < 0 || v > 255 {
		return 0
	}
	return uint8(v)
}
