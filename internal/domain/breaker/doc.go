// Package breaker contains the core circuit-breaker domain: a pause state
// machine an authority can trip to halt normal operation, optionally for a
// bounded duration.
//
// The package owns the packed state word (an 8-bit flag plus a 48-bit
// deadline), the four transitions (Pause, PauseFor, Unpause,
// UnpauseIfDurationElapsed), the guard predicates gated operations consult
// (RequireNotPaused, RequirePaused), and the notification payloads each
// successful transition produces.
//
// A Breaker is not safe for concurrent use on its own. The host component
// owns exactly one Breaker and serializes mutating calls; see the service
// layer for the locked wrapper.
package breaker
