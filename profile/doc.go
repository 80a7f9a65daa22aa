// Package profile defines the subject-profile contract and a Redis TTL cache
// in front of the host application's provider. The guard reads role and
// status through this package on every navigation evaluation.
package profile
