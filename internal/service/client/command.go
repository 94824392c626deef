package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	api "github.com/oshokin/circuit-breaker/internal/api/http/breaker"
	"github.com/oshokin/circuit-breaker/internal/config"
	domain "github.com/oshokin/circuit-breaker/internal/domain/breaker"
	"github.com/oshokin/circuit-breaker/internal/logger"
	"github.com/oshokin/circuit-breaker/internal/service/common"
)

// Action selects the transition a client binary pushes.
type Action int

const (
	// ActionPause trips the breaker.
	ActionPause Action = iota
	// ActionUnpause lifts the pause.
	ActionUnpause
)

// Options configures breaker client behavior for transition operations.
type Options struct {
	// ConfigPath to the YAML settings file, defaults to the standard
	// filename if empty.
	ConfigPath string

	// ServerAddress overrides the server address from config when specified.
	ServerAddress string

	// Action is the transition to push.
	Action Action

	// Duration bounds the pause when positive. Only meaningful for
	// ActionPause; must be a whole number of seconds.
	Duration time.Duration

	// IfElapsed selects the duration-gated unpause path anyone may call
	// once the deadline has matured. Only meaningful for ActionUnpause.
	IfElapsed bool
}

// defaultPushInterval defines the retry delay when the server is unreachable.
const defaultPushInterval = 1 * time.Second

// errSubSecondDuration is returned when the pause duration is not a whole
// number of seconds, since the deadline field counts seconds.
var errSubSecondDuration = errors.New("pause duration must be a whole number of seconds")

// Run pushes the requested transition, retrying while the server is
// unreachable. A precondition rejection from the server is final: retrying
// an already-paused pause or a premature gated unpause cannot succeed on its
// own, so the failure is surfaced immediately.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "breaker-client")

	// Load settings from the configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Use the server address from options if provided, otherwise config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	duration, err := durationSeconds(opts.Duration)
	if err != nil {
		return err
	}

	// Identify the current user and hostname for the audit trail.
	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	client, err := common.Dial(serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Pushing breaker transition",
		"server_address", serverAddress,
		"action", opts.Action,
		"actor", actor,
	)

	// attempt tries once, returning (done, err). A nil error with done
	// false means a transient failure worth retrying.
	attempt := func() (bool, error) {
		response, err := push(ctx, client, actor, opts, duration)
		if err != nil {
			// Precondition rejections are final.
			if isPreconditionFailure(err) {
				return false, err
			}

			logger.ErrorKV(ctx, "Transition push failed", "error", err)

			return false, nil
		}

		logger.Infof(ctx, "Breaker updated: %s", formatTransition(response))

		return true, nil
	}

	// Attempt immediately before starting the retry loop.
	if done, err := attempt(); err != nil {
		return err
	} else if done {
		return nil
	}

	ticker := time.NewTicker(defaultPushInterval)
	defer ticker.Stop()

	// Retry loop until success, a final rejection, or cancellation.
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done, err := attempt()
			if err != nil {
				return err
			}

			if done {
				return nil
			}
		}
	}
}

// push performs the configured transition call.
func push(ctx context.Context, client *common.Client, actor *domain.Actor, opts *Options, duration *uint64) (*api.TransitionResponse, error) {
	if opts.Action == ActionUnpause {
		return client.Unpause(ctx, actor, opts.IfElapsed)
	}

	return client.Pause(ctx, actor, duration)
}

// durationSeconds converts the CLI duration to the wire representation: nil
// for an indefinite pause, a second count otherwise.
func durationSeconds(d time.Duration) (*uint64, error) {
	if d <= 0 {
		return nil, nil
	}

	if d%time.Second != 0 {
		return nil, errSubSecondDuration
	}

	seconds := uint64(d / time.Second)

	return &seconds, nil
}

// isPreconditionFailure reports whether the server rejected the transition
// for a reason retrying cannot fix.
func isPreconditionFailure(err error) bool {
	return errors.Is(err, domain.ErrEnforcedPause) ||
		errors.Is(err, domain.ErrExpectedPause) ||
		errors.Is(err, domain.ErrPauseDurationNotElapsed) ||
		errors.Is(err, domain.ErrDeadlineOverflow)
}

// formatTransition converts a transition response to a readable log message.
func formatTransition(response *api.TransitionResponse) string {
	if response == nil {
		return "<nil response>"
	}

	if response.NoOp {
		return "no-op (zero duration)"
	}

	event := response.Event
	if event == nil {
		return "<no event>"
	}

	switch event.Kind {
	case string(domain.EventPausedFor):
		return fmt.Sprintf("%s until %d (%ds) by %s@%s",
			event.Kind, event.Deadline, event.Duration, actorUsername(event), actorHostname(event))
	default:
		return fmt.Sprintf("%s by %s@%s", event.Kind, actorUsername(event), actorHostname(event))
	}
}

func actorUsername(event *api.EventPayload) string {
	if event.Actor == nil {
		return "<unknown>"
	}

	return event.Actor.Username
}

func actorHostname(event *api.EventPayload) string {
	if event.Actor == nil {
		return "<unknown>"
	}

	return event.Actor.Hostname
}
