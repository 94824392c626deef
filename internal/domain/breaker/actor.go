package breaker

import "fmt"

// Actor identifies who triggered a transition. The breaker never compares or
// validates it; the value exists only to be attached to notifications.
type Actor struct {
	// Hostname is the machine name the transition originated from.
	Hostname string
	// Username is the system user who triggered the transition.
	Username string
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// String renders the actor as user@host for logs.
func (a *Actor) String() string {
	if a == nil {
		return "<unknown>"
	}

	return fmt.Sprintf("%s@%s", a.Username, a.Hostname)
}
