package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/circuit-breaker/internal/config"
	"github.com/oshokin/circuit-breaker/internal/service/client"
	"github.com/oshokin/circuit-breaker/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// ifElapsed selects the duration-gated unpause path.
	ifElapsed bool

	// rootCmd represents the base command for lifting the pause.
	rootCmd = &cobra.Command{
		Use:   "breaker-unpause [server-address]",
		Short: "Lift the circuit-breaker pause.",
		Long: `Lifts the pause so gated operations proceed again.

By default this is the authorized path that works regardless of any deadline.
With --if-elapsed, the duration-gated path is taken instead: it succeeds only
once a duration-bound pause's deadline has matured (or immediately for an
indefinite pause), and is intended for callers without the pausing authority.

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
				Action:        client.ActionUnpause,
				IfElapsed:     ifElapsed,
			})
		},
	}
)

// Execute runs the breaker-unpause CLI and exits with non-zero status on error.
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
	rootCmd.Flags().BoolVarP(&ifElapsed, "if-elapsed", "e", false, "take the duration-gated path that requires a matured deadline")
}
