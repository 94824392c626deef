package breaker

import "time"

// Status is the host-facing view of the breaker: the pause queries plus the
// clock reading they were taken against and audit metadata about the last
// transition. The clock instant and mode let dependents interpret the
// deadline field correctly.
type Status struct {
	// Paused reports whether a pause is in force.
	Paused bool
	// Deadline is the raw deadline field, zero if unset.
	Deadline uint64
	// Now is the clock instant the view was taken at.
	Now uint64
	// ClockMode describes the unit of Now and Deadline.
	ClockMode string
	// LastActor is the identity attributed to the last transition, if any.
	LastActor *Actor
	// LastEvent names the last transition, if any.
	LastEvent EventKind
	// UpdatedAt is the wall-clock time of the last transition.
	UpdatedAt time.Time
}
