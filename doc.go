// Package navguard is the role-gated navigation core of the SafeZone client:
// a session-aware authorization guard, a static route table with access
// policies, and decision values that a thin router executes against the back
// stack.
//
// The central type is [Guard], built through [Builder]. Every navigation
// request flows through [Guard.Evaluate], which resolves a session snapshot
// (credential, Redis session record, cached profile) and reduces it to a
// [Decision]: Allow, Redirect with a back-stack truncation policy, or Defer
// while the profile is still loading. The evaluation order is fixed — public
// routes first, then session presence, then account status, then role — so a
// blocked admin can never reach the admin dashboard and an unauthenticated
// request learns nothing about which destinations exist.
//
// navguard never verifies credentials. Identity is established by an external
// authentication provider; [Guard.StartSession] trusts its caller and only
// records the session. Expected denials (no session, wrong role, disabled
// account) are Decision values, not errors — error returns are reserved for
// misuse and backend unavailability.
//
// Concern packages live below the root and never import it back:
//
//   - route/   static route table, frozen at startup
//   - session/ Redis-backed session store with a versioned binary codec
//   - token/   signed session credential (compact JWT)
//   - profile/ profile provider interface plus Redis TTL cache
//   - router/  decision executor with back-stack truncation (imports root)
//
// All Guard methods are safe for concurrent use after Build.
package navguard
