// Package common holds helpers shared by the breaker client binaries: actor
// detection for the audit trail and the HTTP client wrapper over the control
// API.
package common
