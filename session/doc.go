// Package session persists navigation sessions in Redis: a compact versioned
// binary codec, sliding expiration with jitter capped by the absolute session
// lifetime, and a per-subject index kept consistent through a Lua delete
// script so logout-all can find every live session.
package session
