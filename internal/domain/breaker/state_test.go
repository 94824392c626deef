package breaker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestWordLayout pins the packed representation: flag in bits [0,8),
// deadline in bits [8,56).
func TestWordLayout(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(0), State{}.Word())

	paused := State{flag: FlagPaused}
	require.Equal(t, uint64(1), paused.Word())

	bounded := State{flag: FlagPaused, deadline: 110}
	require.Equal(t, uint64(110)<<8|1, bounded.Word())

	widest := State{flag: FlagPaused, deadline: MaxInstant}
	require.Equal(t, MaxInstant<<8|1, widest.Word())

	// Nothing above bit 56.
	require.Equal(t, uint64(0), widest.Word()>>56)
}

// TestFromWordRoundtrip verifies pack/unpack is lossless for valid words.
func TestFromWordRoundtrip(t *testing.T) {
	t.Parallel()

	states := []State{
		{},
		{flag: FlagPaused},
		{flag: FlagPaused, deadline: 1},
		{flag: FlagPaused, deadline: MaxInstant},
	}

	for _, s := range states {
		got, err := FromWord(s.Word())
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

// TestFromWordRejectsMalformed covers words the pack side cannot produce.
func TestFromWordRejectsMalformed(t *testing.T) {
	t.Parallel()

	// Junk above bit 56.
	_, err := FromWord(1 << 56)
	require.ErrorIs(t, err, ErrMalformedWord)

	// Undefined flag byte.
	_, err = FromWord(2)
	require.ErrorIs(t, err, ErrMalformedWord)

	// Unpaused flag with a leftover deadline: unpausing always clears the
	// whole word, so this combination is unreachable.
	_, err = FromWord(100 << 8)
	require.ErrorIs(t, err, ErrMalformedWord)
}

// TestDeadlineAccessor checks the raw field comes back untouched.
func TestDeadlineAccessor(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(0), State{}.Deadline())
	require.Equal(t, uint64(42), State{flag: FlagPaused, deadline: 42}.Deadline())
}
