// Package status implements the breaker-status binary: a one-shot report of
// the breaker state or a polling watch mode.
package status
