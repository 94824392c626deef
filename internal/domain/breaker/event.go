package breaker

import "github.com/rs/xid"

// EventKind names a transition notification.
type EventKind string

const (
	// EventPaused is emitted when an indefinite pause is tripped.
	EventPaused EventKind = "paused"
	// EventPausedFor is emitted when a duration-bound pause is tripped.
	EventPausedFor EventKind = "paused_for"
	// EventUnpaused is emitted when a pause of either flavor is lifted.
	EventUnpaused EventKind = "unpaused"
)

// Event is the notification payload produced by a successful transition.
// Delivery is the host's job; failed transitions produce no event.
type Event struct {
	// ID uniquely identifies the transition for audit trails.
	ID string
	// Kind names the transition.
	Kind EventKind
	// Actor is the identity the transition is attributed to.
	Actor *Actor
	// At is the clock instant the transition happened at.
	At uint64
	// Duration is the requested pause duration in seconds.
	// Set only for EventPausedFor.
	Duration uint64
	// Deadline is the computed instant the pause matures at.
	// Set only for EventPausedFor.
	Deadline uint64
}

// newEvent stamps a notification with a fresh ID.
func newEvent(kind EventKind, actor *Actor, at uint64) *Event {
	return &Event{
		ID:    xid.New().String(),
		Kind:  kind,
		Actor: actor.Clone(),
		At:    at,
	}
}
