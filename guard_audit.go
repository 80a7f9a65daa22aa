package navguard

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventSessionStarted        = "session_started"
	auditEventLogoutSession         = "logout_session"
	auditEventLogoutAll             = "logout_all"
	auditEventNavigationDenied      = "navigation_denied"
	auditEventNavigationUnknownRole = "navigation_unknown_role"
	auditEventRouteNotFound         = "navigation_route_not_found"
	auditEventSessionLookupFailure  = "session_lookup_failure"
	auditEventProfileLoadFailure    = "profile_load_failure"
)

// emitAudit builds and enqueues one audit event. metadataBuilder runs only
// when a dispatcher exists, so denial hot paths pay nothing for metadata
// when auditing is disabled.
func (g *Guard) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	subjectID string,
	sessionID string,
	requestID string,
	routeName string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if g.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		RequestID: requestID,
		SubjectID: subjectID,
		SessionID: sessionID,
		Route:     routeName,
		IP:        clientIPFromContext(ctx),
		DeviceID:  deviceIDFromContext(ctx),
		Success:   success,
	}
	if err != nil {
		event.Error = auditErrorCode(err)
	}
	if metadataBuilder != nil {
		event.Metadata = metadataBuilder()
	}

	g.audit.Emit(event)
}

// auditErrorCode maps errors onto stable codes so sinks never depend on
// error message text.
func auditErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrTokenInvalid):
		return "token_invalid"
	case errors.Is(err, ErrSessionUnavailable):
		return "session_unavailable"
	case errors.Is(err, ErrUnknownRole):
		return "unknown_role"
	case errors.Is(err, ErrRouteNotFound):
		return "route_not_found"
	case errors.Is(err, ErrAccountInactive):
		return "account_inactive"
	case errors.Is(err, ErrAccountBlocked):
		return "account_blocked"
	case errors.Is(err, ErrAccountPending):
		return "account_pending_verification"
	case errors.Is(err, ErrSubjectRequired):
		return "subject_required"
	default:
		return "internal_error"
	}
}
