// Package token issues and verifies the signed session credential: a compact
// JWT binding a subject to its server-side session record. The credential is
// the only thing the client holds; everything authoritative lives in Redis.
package token
