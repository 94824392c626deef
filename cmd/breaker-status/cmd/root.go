package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/circuit-breaker/internal/config"
	"github.com/oshokin/circuit-breaker/internal/service/status"
	"github.com/oshokin/circuit-breaker/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// watch keeps polling instead of exiting after one report.
	watch bool
	// interval between polls in watch mode.
	interval time.Duration

	// rootCmd represents the base command for querying the breaker.
	rootCmd = &cobra.Command{
		Use:   "breaker-status [server-address]",
		Short: "Report the circuit-breaker state.",
		Long: `Prints whether a pause is in force, the deadline of a duration-bound pause,
and who last changed the state.

With --watch the report repeats at the configured interval until interrupted.

The server address can be provided as an argument or loaded from the configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use the server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			err := status.Run(ctx, &status.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				Watch:         watch,
				Interval:      interval,
				Out:           cobraCmd.OutOrStdout(),
			})

			// An interrupted watch is a normal exit.
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		},
	}
)

// Execute runs the breaker-status CLI and exits with non-zero status on error.
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
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling the breaker state")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", 0, "poll interval in watch mode")
}
