package breaker

import (
	"fmt"
	"sync/atomic"
	"time"
)

// ClockMode describes how clock instants and deadlines are to be interpreted
// by dependent components. It is reported alongside the deadline in status
// payloads.
const ClockMode = "unit=seconds"

// Clock supplies the current instant as an unsigned 48-bit count of seconds.
//
// Implementations must be monotonic non-decreasing across calls and must not
// be caller-suppliable: the breaker trusts the instant it is handed.
type Clock interface {
	// Now returns the current instant. It returns ErrClockOutOfRange if the
	// underlying time source produces a value that does not fit 48 bits.
	Now() (uint64, error)
}

// SystemClock is the production Clock backed by the operating system time in
// whole seconds. It latches its last output so a backwards step of the wall
// clock can never make a pause deadline appear already elapsed.
type SystemClock struct {
	// source supplies the raw Unix time. Overridden in tests.
	source func() int64
	// last is the highest instant handed out so far.
	last atomic.Uint64
}

// NewSystemClock returns a SystemClock reading the operating system time.
func NewSystemClock() *SystemClock {
	return &SystemClock{
		source: func() int64 {
			return time.Now().Unix()
		},
	}
}

// Now returns the current instant, failing loudly rather than truncating
// when the source value is outside the 48-bit range.
func (c *SystemClock) Now() (uint64, error) {
	unix := c.source()
	if unix < 0 || uint64(unix) > MaxInstant {
		return 0, fmt.Errorf("%w: unix time %d", ErrClockOutOfRange, unix)
	}

	now := uint64(unix)

	// Latch: never hand out an instant below a previously observed one.
	for {
		last := c.last.Load()
		if now <= last {
			return last, nil
		}

		if c.last.CompareAndSwap(last, now) {
			return now, nil
		}
	}
}
