package status

import (
	"context"
	"fmt"
	"io"
	"time"

	api "github.com/oshokin/circuit-breaker/internal/api/http/breaker"
	"github.com/oshokin/circuit-breaker/internal/config"
	"github.com/oshokin/circuit-breaker/internal/logger"
	"github.com/oshokin/circuit-breaker/internal/service/common"
)

// Options configures the breaker-status command.
type Options struct {
	// ConfigPath to the YAML settings file, defaults to the standard
	// filename if empty.
	ConfigPath string

	// ServerAddress overrides the server address from config when specified.
	ServerAddress string

	// Watch keeps polling the server at Interval instead of exiting after
	// one report.
	Watch bool

	// Interval between polls in watch mode.
	Interval time.Duration

	// Out receives the formatted reports.
	Out io.Writer
}

// defaultWatchInterval is the poll interval when none is configured.
const defaultWatchInterval = 2 * time.Second

// Run prints the breaker status once, or keeps polling in watch mode until
// the context is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "breaker-status")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	client, err := common.Dial(serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	report := func() error {
		status, err := client.Status(ctx)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(opts.Out, FormatStatus(status))

		return err
	}

	if !opts.Watch {
		return report()
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = defaultWatchInterval
	}

	// Report immediately, then on every tick. Transient poll failures are
	// logged and watching continues.
	if err := report(); err != nil {
		logger.ErrorKV(ctx, "Status poll failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := report(); err != nil {
				logger.ErrorKV(ctx, "Status poll failed", "error", err)
			}
		}
	}
}

// FormatStatus renders a status payload as a single human-readable line.
func FormatStatus(status *api.StatusResponse) string {
	if status == nil {
		return "<nil status>"
	}

	actor := "<unknown>"
	if status.LastActor != nil {
		actor = fmt.Sprintf("%s@%s", status.LastActor.Username, status.LastActor.Hostname)
	}

	if !status.Paused {
		return fmt.Sprintf("unpaused (last change: %s by %s)", lastEvent(status), actor)
	}

	if status.Deadline == 0 {
		return fmt.Sprintf("paused indefinitely by %s", actor)
	}

	if status.Now < status.Deadline {
		return fmt.Sprintf("paused until %d (%ds remaining, %s) by %s",
			status.Deadline, status.Deadline-status.Now, status.ClockMode, actor)
	}

	return fmt.Sprintf("paused until %d (deadline matured, anyone may unpause) by %s",
		status.Deadline, actor)
}

// lastEvent names the last transition, or "none" for a fresh breaker.
func lastEvent(status *api.StatusResponse) string {
	if status.LastEvent == "" {
		return "none"
	}

	return status.LastEvent
}
