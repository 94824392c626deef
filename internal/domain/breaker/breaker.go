package breaker

import "fmt"

// Breaker is the pause state machine. It starts unpaused and is mutated only
// by the four transition methods; a failed transition leaves the state
// byte-identical to what it was before the call.
type Breaker struct {
	// clock supplies the current instant for deadline arithmetic and event
	// timestamps.
	clock Clock
	// state is the single pause state this breaker owns.
	state State
}

// New returns an unpaused breaker reading time from the provided clock.
func New(clock Clock) *Breaker {
	return &Breaker{
		clock: clock,
	}
}

// Restore rebuilds a breaker from a persisted state word.
func Restore(clock Clock, word uint64) (*Breaker, error) {
	state, err := FromWord(word)
	if err != nil {
		return nil, err
	}

	return &Breaker{
		clock: clock,
		state: state,
	}, nil
}

// State returns a snapshot of the current pause state.
func (b *Breaker) State() State {
	return b.state
}

// IsPaused reports whether a pause is in force. See State.IsPaused for the
// matured-deadline semantics.
func (b *Breaker) IsPaused() bool {
	return b.state.IsPaused()
}

// PauseDeadline returns the raw deadline field, zero if unset. See
// State.Deadline for why this must not be used to infer pause status.
func (b *Breaker) PauseDeadline() uint64 {
	return b.state.Deadline()
}

// Pause trips the breaker indefinitely. It fails with ErrEnforcedPause if a
// pause of any flavor is already in force.
func (b *Breaker) Pause(actor *Actor) (*Event, error) {
	if b.state.IsPaused() {
		return nil, ErrEnforcedPause
	}

	now, err := b.clock.Now()
	if err != nil {
		return nil, err
	}

	b.state = State{flag: FlagPaused}

	return newEvent(EventPaused, actor, now), nil
}

// PauseFor trips the breaker until now + duration, after which anyone may
// lift it via UnpauseIfDurationElapsed.
//
// It fails with ErrEnforcedPause if already paused and with
// ErrDeadlineOverflow if the deadline does not fit 48 bits. A zero duration
// while unpaused is a silent no-op: no error, no state change, no event —
// both return values are nil.
func (b *Breaker) PauseFor(actor *Actor, duration uint64) (*Event, error) {
	if b.state.IsPaused() {
		return nil, ErrEnforcedPause
	}

	if duration == 0 {
		return nil, nil
	}

	now, err := b.clock.Now()
	if err != nil {
		return nil, err
	}

	if duration > MaxInstant-now {
		return nil, fmt.Errorf("%w: %d + %d", ErrDeadlineOverflow, now, duration)
	}

	deadline := now + duration
	b.state = State{
		flag:     FlagPaused,
		deadline: deadline,
	}

	event := newEvent(EventPausedFor, actor, now)
	event.Duration = duration
	event.Deadline = deadline

	return event, nil
}

// Unpause lifts a pause of either flavor regardless of deadline maturity,
// resetting the whole state word to zero. It fails with ErrExpectedPause if
// no pause is in force.
func (b *Breaker) Unpause(actor *Actor) (*Event, error) {
	if !b.state.IsPaused() {
		return nil, ErrExpectedPause
	}

	now, err := b.clock.Now()
	if err != nil {
		return nil, err
	}

	b.state = State{}

	return newEvent(EventUnpaused, actor, now), nil
}

// UnpauseIfDurationElapsed lifts a duration-bound pause once its deadline
// has matured. The comparison is strict: now < deadline still blocks, the
// deadline instant itself unblocks. An indefinite pause (zero deadline)
// lifts unconditionally.
//
// This path exists so a caller without the pausing authority's cooperation
// can end a time-bounded pause; the host decides which callers to let in.
func (b *Breaker) UnpauseIfDurationElapsed(actor *Actor) (*Event, error) {
	if !b.state.IsPaused() {
		return nil, ErrExpectedPause
	}

	now, err := b.clock.Now()
	if err != nil {
		return nil, err
	}

	if deadline := b.state.Deadline(); deadline != 0 && now < deadline {
		return nil, fmt.Errorf("%w: %d seconds remain", ErrPauseDurationNotElapsed, deadline-now)
	}

	b.state = State{}

	return newEvent(EventUnpaused, actor, now), nil
}
