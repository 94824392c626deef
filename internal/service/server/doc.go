// Package server hosts the breaker: it owns the single pause state machine,
// serializes transitions, persists snapshots, and exposes the state through
// the JSON control API and an optional gRPC health endpoint whose serving
// status flips with the breaker.
package server
