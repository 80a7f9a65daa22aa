package session

// Session is the server-side session record. RoleID and StatusID are the raw
// backend identifiers captured at login; the guard re-reads both from the
// profile on every evaluation, so the stored copies are a fallback and an
// audit aid, not the authorization source of truth.
//
// Sessions are replaced wholesale on change, never mutated in place.
type Session struct {
	SessionID string
	SubjectID string
	RoleID    uint8
	StatusID  uint8
	CreatedAt int64
	ExpiresAt int64
}
