package profile

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no profile exists for a subject.
var ErrNotFound = errors.New("profile not found")

// Profile is the subject record the backend serves. RoleID and StatusID are
// the raw backend identifiers; classification into enums happens in the root
// package so an unknown value can fail closed there.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	RoleID      int    `json:"role_id"`
	StatusID    int    `json:"status_id"`
	PhotoRef    string `json:"photo_ref,omitempty"`
}

// Provider fetches subject profiles from the host application's backend.
// Implementations must treat subjectID as untrusted input and return
// ErrNotFound (possibly wrapped) when the subject does not exist.
type Provider interface {
	FetchProfile(ctx context.Context, subjectID string) (Profile, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, subjectID string) (Profile, error)

func (f ProviderFunc) FetchProfile(ctx context.Context, subjectID string) (Profile, error) {
	return f(ctx, subjectID)
}
