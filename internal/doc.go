// Package internal holds helpers shared by navguard packages that are not
// part of the public API surface.
package internal
