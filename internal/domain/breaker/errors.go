package breaker

import "errors"

var (
	// ErrEnforcedPause is returned when an operation requires the breaker to
	// be untripped but a pause is in force, including an attempt to pause an
	// already paused breaker.
	ErrEnforcedPause = errors.New("pause is in force")

	// ErrExpectedPause is returned when an operation requires a pause to be
	// in force but the breaker is not tripped, including an attempt to
	// unpause an already unpaused breaker.
	ErrExpectedPause = errors.New("no pause is in force")

	// ErrPauseDurationNotElapsed is returned by the duration-gated unpause
	// path while the current instant is still before the deadline.
	ErrPauseDurationNotElapsed = errors.New("pause duration has not elapsed")

	// ErrDeadlineOverflow is returned when now + duration does not fit the
	// 48-bit deadline field. The state is left untouched.
	ErrDeadlineOverflow = errors.New("pause deadline exceeds the 48-bit range")

	// ErrClockOutOfRange is returned when the time source produces an
	// instant outside the 48-bit range instead of silently truncating it.
	ErrClockOutOfRange = errors.New("clock instant exceeds the 48-bit range")

	// ErrMalformedWord is returned when a persisted state word fails
	// validation during unpacking.
	ErrMalformedWord = errors.New("malformed state word")
)
