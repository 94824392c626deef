package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/circuit-breaker/internal/config"
	"github.com/oshokin/circuit-breaker/internal/logger"
	"github.com/oshokin/circuit-breaker/internal/service/server"
	"github.com/oshokin/circuit-breaker/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// stateFile path where the breaker snapshot is persisted.
	stateFile string
	// healthAddress is an optional gRPC health endpoint override.
	healthAddress string
	// logLevel controls the minimum level of emitted logs.
	logLevel string

	// rootCmd represents the base command for running the breaker server.
	rootCmd = &cobra.Command{
		Use:   "breaker-server [listen-address]",
		Short: "Run the circuit-breaker server.",
		Long: `Starts the circuit-breaker server that owns the pause state and handles client requests.

The server listens on the specified address or uses settings from the configuration file.
Only the port from the server address config is used for listening (e.g., :8080).
The listen address can be provided as an argument to override config (e.g., :9090, 0.0.0.0:8080).
The pause state is persisted to a JSON file for recovery across restarts.
When a health address is configured, a gRPC health endpoint reports NOT_SERVING while a pause is in force.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use the listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				HealthAddress: healthAddress,
				StateFile:     stateFile,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the breaker-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&stateFile, "state-file", "s", config.DefaultStateFilename, "path to persist the breaker snapshot")
	rootCmd.Flags().StringVar(&healthAddress, "health", "", "gRPC health endpoint listen address override")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "minimum log level (debug, info, warn, error, fatal)")
}
