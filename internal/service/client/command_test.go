package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	api "github.com/oshokin/circuit-breaker/internal/api/http/breaker"
	domain "github.com/oshokin/circuit-breaker/internal/domain/breaker"
)

// TestDurationSeconds covers the CLI-to-wire duration conversion.
func TestDurationSeconds(t *testing.T) {
	t.Parallel()

	// Non-positive means indefinite.
	d, err := durationSeconds(0)
	require.NoError(t, err)
	require.Nil(t, d)

	d, err = durationSeconds(-time.Second)
	require.NoError(t, err)
	require.Nil(t, d)

	// Whole seconds convert.
	d, err = durationSeconds(90 * time.Second)
	require.NoError(t, err)
	require.NotNil(t, d)
	require.Equal(t, uint64(90), *d)

	// Sub-second precision is rejected rather than silently rounded.
	_, err = durationSeconds(1500 * time.Millisecond)
	require.ErrorIs(t, err, errSubSecondDuration)
}

// TestIsPreconditionFailure separates final rejections from transient ones.
func TestIsPreconditionFailure(t *testing.T) {
	t.Parallel()

	require.True(t, isPreconditionFailure(domain.ErrEnforcedPause))
	require.True(t, isPreconditionFailure(domain.ErrExpectedPause))
	require.True(t, isPreconditionFailure(domain.ErrPauseDurationNotElapsed))
	require.True(t, isPreconditionFailure(domain.ErrDeadlineOverflow))
	require.False(t, isPreconditionFailure(domain.ErrClockOutOfRange))
}

// TestFormatTransition renders each response shape.
func TestFormatTransition(t *testing.T) {
	t.Parallel()

	require.Equal(t, "<nil response>", formatTransition(nil))
	require.Equal(t, "no-op (zero duration)", formatTransition(&api.TransitionResponse{NoOp: true}))

	paused := formatTransition(&api.TransitionResponse{
		Event: &api.EventPayload{
			Kind: string(domain.EventPaused),
			Actor: &api.ActorPayload{
				Hostname: "ops-1",
				Username: "duty-officer",
			},
		},
	})
	require.Contains(t, paused, "paused by duty-officer@ops-1")

	bounded := formatTransition(&api.TransitionResponse{
		Event: &api.EventPayload{
			Kind:     string(domain.EventPausedFor),
			Duration: 10,
			Deadline: 110,
		},
	})
	require.Contains(t, bounded, "until 110")
	require.Contains(t, bounded, "(10s)")
}
