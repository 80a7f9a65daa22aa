package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// SessionID is a 128-bit random session identifier. It travels as an
// unpadded URL-safe base64 string inside credentials and Redis keys.
type SessionID [16]byte

// NewSessionID returns a session ID drawn from crypto/rand.
func NewSessionID() (SessionID, error) {
	var id SessionID
	if _, err := rand.Read(id[:]); err != nil {
		return SessionID{}, err
	}
	return id, nil
}

func (id SessionID) String() string {
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// ParseSessionID decodes the string form of a SessionID.
func ParseSessionID(s string) (SessionID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return SessionID{}, err
	}
	if len(raw) != len(SessionID{}) {
		return SessionID{}, errors.New("invalid session id length")
	}
	var id SessionID
	copy(id[:], raw)
	return id, nil
}
