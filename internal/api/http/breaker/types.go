package breaker

import (
	"errors"
	"time"

	domain "github.com/oshokin/circuit-breaker/internal/domain/breaker"
)

// ActorPayload is the wire form of the transition actor.
type ActorPayload struct {
	// Hostname is the machine name the call originated from.
	Hostname string `json:"hostname"`
	// Username is the system user who triggered the call.
	Username string `json:"username"`
}

// PauseRequest asks the server to trip the breaker. A nil DurationSeconds
// requests an indefinite pause; a non-nil value requests a duration-bound
// one. The pointer keeps "absent" and "present but zero" distinguishable,
// since a zero duration is a documented no-op rather than an error.
type PauseRequest struct {
	Actor           *ActorPayload `json:"actor"`
	DurationSeconds *uint64       `json:"duration_seconds,omitempty"`
}

// UnpauseRequest asks the server to lift the pause. IfElapsed selects the
// duration-gated path that succeeds only once the deadline has matured.
type UnpauseRequest struct {
	Actor     *ActorPayload `json:"actor"`
	IfElapsed bool          `json:"if_elapsed,omitempty"`
}

// EventPayload is the wire form of a transition notification.
type EventPayload struct {
	ID       string        `json:"id"`
	Kind     string        `json:"kind"`
	Actor    *ActorPayload `json:"actor,omitempty"`
	At       uint64        `json:"at"`
	Duration uint64        `json:"duration,omitempty"`
	Deadline uint64        `json:"deadline,omitempty"`
}

// TransitionResponse reports the outcome of a pause or unpause call. Exactly
// one of NoOp and Event is set.
type TransitionResponse struct {
	NoOp  bool          `json:"no_op,omitempty"`
	Event *EventPayload `json:"event,omitempty"`
}

// StatusResponse is the wire form of the breaker status view.
type StatusResponse struct {
	Paused    bool          `json:"paused"`
	Deadline  uint64        `json:"deadline"`
	Now       uint64        `json:"now"`
	ClockMode string        `json:"clock_mode"`
	LastActor *ActorPayload `json:"last_actor,omitempty"`
	LastEvent string        `json:"last_event,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ErrorResponse carries a machine-readable failure kind alongside the
// human-readable message.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Failure kinds exchanged on the wire.
const (
	KindEnforcedPause           = "enforced_pause"
	KindExpectedPause           = "expected_pause"
	KindPauseDurationNotElapsed = "pause_duration_not_elapsed"
	KindDeadlineOverflow        = "deadline_overflow"
	KindBadRequest              = "bad_request"
	KindInternal                = "internal"
)

// ErrorFromKind maps a wire failure kind back to the domain error so clients
// can test failures with errors.Is.
func ErrorFromKind(kind, message string) error {
	switch kind {
	case KindEnforcedPause:
		return domain.ErrEnforcedPause
	case KindExpectedPause:
		return domain.ErrExpectedPause
	case KindPauseDurationNotElapsed:
		return domain.ErrPauseDurationNotElapsed
	case KindDeadlineOverflow:
		return domain.ErrDeadlineOverflow
	default:
		return errors.New(message)
	}
}

// toDomainActor converts a wire actor to the domain type.
func toDomainActor(actor *ActorPayload) *domain.Actor {
	if actor == nil {
		return nil
	}

	return &domain.Actor{
		Hostname: actor.Hostname,
		Username: actor.Username,
	}
}

// toActorPayload converts a domain actor to the wire type.
func toActorPayload(actor *domain.Actor) *ActorPayload {
	if actor == nil {
		return nil
	}

	return &ActorPayload{
		Hostname: actor.Hostname,
		Username: actor.Username,
	}
}

// toEventPayload converts a transition notification to the wire type.
func toEventPayload(event *domain.Event) *EventPayload {
	if event == nil {
		return nil
	}

	return &EventPayload{
		ID:       event.ID,
		Kind:     string(event.Kind),
		Actor:    toActorPayload(event.Actor),
		At:       event.At,
		Duration: event.Duration,
		Deadline: event.Deadline,
	}
}

// toStatusResponse converts the status view to the wire type.
func toStatusResponse(status *domain.Status) *StatusResponse {
	if status == nil {
		return &StatusResponse{}
	}

	return &StatusResponse{
		Paused:    status.Paused,
		Deadline:  status.Deadline,
		Now:       status.Now,
		ClockMode: status.ClockMode,
		LastActor: toActorPayload(status.LastActor),
		LastEvent: string(status.LastEvent),
		UpdatedAt: status.UpdatedAt,
	}
}
