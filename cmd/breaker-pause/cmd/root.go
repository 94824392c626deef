package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/circuit-breaker/internal/config"
	"github.com/oshokin/circuit-breaker/internal/service/client"
	"github.com/oshokin/circuit-breaker/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// pauseFor bounds the pause when positive; zero pauses indefinitely.
	pauseFor time.Duration

	// rootCmd represents the base command for tripping the breaker.
	rootCmd = &cobra.Command{
		Use:   "breaker-pause [server-address]",
		Short: "Trip the circuit breaker and halt gated operations.",
		Long: `Trips the circuit breaker so operations gated on it stop proceeding.

By default the pause is indefinite and only breaker-unpause lifts it.
With --for, the pause carries a deadline: once it matures, anyone may lift
the pause with breaker-unpause --if-elapsed, preventing indefinite lockout
if the pausing authority disappears.

The server address can be provided as an argument or loaded from the configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use the server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			return client.Run(ctx, &client.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				Action:        client.ActionPause,
				Duration:      pauseFor,
			})
		},
	}
)

// Execute runs the breaker-pause CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().DurationVarP(&pauseFor, "for", "f", 0, "bound the pause by a duration (whole seconds, e.g. 10m)")
}
