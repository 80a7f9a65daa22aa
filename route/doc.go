// Package route holds the static navigation table: named routes with path
// templates and access policies, registered once at startup and then frozen.
// The table is the single source of truth for which destinations exist; the
// guard fails closed on anything it does not contain.
package route
