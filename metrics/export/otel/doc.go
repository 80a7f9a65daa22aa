// Package otel bridges navguard metrics into an OpenTelemetry meter through
// observable instruments: the collector stays a plain atomic array and the
// meter pulls a snapshot on every collection cycle.
package otel
