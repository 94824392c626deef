package breaker

import "fmt"

// Flag is the pause flag stored in the low byte of the packed state word.
type Flag uint8

const (
	// FlagUnpaused marks normal operation.
	FlagUnpaused Flag = 0
	// FlagPaused marks a tripped breaker.
	FlagPaused Flag = 1
)

// Packed word layout: the flag occupies bits [0,8), the deadline bits [8,56),
// and bits [56,64) must be zero. Shifts and masks never leave this file;
// everything else works with the two named fields.
const (
	flagBits     = 8
	deadlineBits = 48

	flagMask     uint64 = 1<<flagBits - 1
	deadlineMask uint64 = 1<<deadlineBits - 1

	// MaxInstant is the largest clock instant or deadline the 48-bit field
	// can represent.
	MaxInstant uint64 = 1<<deadlineBits - 1
)

// State is a snapshot of the breaker's pause state.
type State struct {
	// flag distinguishes a tripped breaker from normal operation.
	flag Flag
	// deadline is the instant at or after which a duration-bound pause may
	// be lifted by anyone. Zero means no duration was set. Only meaningful
	// while flag is FlagPaused: every unpause path clears the whole state.
	deadline uint64
}

// Flag returns the pause flag.
func (s State) Flag() Flag {
	return s.flag
}

// Deadline returns the raw deadline field, zero if unset.
//
// Zero is ambiguous on its own: it can mean never paused, paused with no
// duration, or already cleared. Do not infer pause status from it; that is
// what IsPaused is for.
func (s State) Deadline() uint64 {
	return s.deadline
}

// IsPaused reports whether a pause is in force.
//
// The answer depends only on the flag. A matured deadline does not flip the
// state on its own: the breaker stays formally paused until an explicit
// unpause call, the deadline only decides which unpause path succeeds.
func (s State) IsPaused() bool {
	return s.flag == FlagPaused
}

// Word packs the state into its single-word representation.
func (s State) Word() uint64 {
	return uint64(s.flag) | s.deadline<<flagBits
}

// FromWord unpacks a persisted state word, rejecting anything the pack side
// cannot have produced.
func FromWord(word uint64) (State, error) {
	if word>>(flagBits+deadlineBits) != 0 {
		return State{}, fmt.Errorf("%w: bits above %d set in %#x", ErrMalformedWord, flagBits+deadlineBits, word)
	}

	flag := Flag(word & flagMask)
	if flag != FlagUnpaused && flag != FlagPaused {
		return State{}, fmt.Errorf("%w: unknown flag %#x", ErrMalformedWord, uint64(flag))
	}

	deadline := word >> flagBits & deadlineMask
	if flag == FlagUnpaused && deadline != 0 {
		return State{}, fmt.Errorf("%w: unpaused word carries deadline %d", ErrMalformedWord, deadline)
	}

	return State{
		flag:     flag,
		deadline: deadline,
	}, nil
}
