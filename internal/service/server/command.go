package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	api "github.com/oshokin/circuit-breaker/internal/api/http/breaker"
	"github.com/oshokin/circuit-breaker/internal/config"
	domain "github.com/oshokin/circuit-breaker/internal/domain/breaker"
	"github.com/oshokin/circuit-breaker/internal/logger"
	repository "github.com/oshokin/circuit-breaker/internal/repository/state"
)

// Options controls the breaker-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the
	// HTTP control API.
	ListenAddress string
	// HealthAddress provides an optional listen address override for the
	// gRPC health endpoint.
	HealthAddress string
	// StateFile specifies the path to persist the breaker snapshot.
	StateFile string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// healthServiceName is the gRPC health service name probes ask about.
const healthServiceName = "breaker"

// grpcHealthReporter mirrors the breaker state into the standard gRPC health
// service: SERVING while unpaused, NOT_SERVING while a pause is in force.
type grpcHealthReporter struct {
	// server is the health service implementation shipped with grpc-go.
	server *health.Server
}

// SetServing updates both the named breaker service and the overall status.
func (r *grpcHealthReporter) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}

	r.server.SetServingStatus(healthServiceName, status)
	r.server.SetServingStatus("", status)
}

// Run starts the breaker server and blocks until the context is canceled or
// a listener fails. It serves the JSON control API and, when configured, a
// gRPC health endpoint whose serving status tracks the pause state.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "breaker-server")

	// Load configuration first to get server settings.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Command line options override the config where provided.
	stateFile := cfg.StateFile
	if opts.StateFile != "" {
		stateFile = opts.StateFile
	}

	healthAddress := cfg.HealthAddress
	if opts.HealthAddress != "" {
		healthAddress = opts.HealthAddress
	}

	listenAddress, err := resolveListenAddress(cfg.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	// The health reporter exists only when a health endpoint is configured;
	// the service falls back to a no-op reporter otherwise.
	var (
		healthServer *health.Server
		reporter     HealthReporter
	)

	if healthAddress != "" {
		healthServer = health.NewServer()
		reporter = &grpcHealthReporter{server: healthServer}
	}

	svc, err := newService(ctx, repository.NewFileRepository(stateFile), domain.NewSystemClock(), reporter)
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	router := mux.NewRouter()
	api.NewServer(svc).Register(router)

	httpServer := &http.Server{
		Addr:              listenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.Timeout,
	}

	lc := net.ListenConfig{}

	httpListener, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	// Buffered so a failing listener never blocks on a reader.
	errCh := make(chan error, 2)
	listeners := 1

	go func() {
		errCh <- httpServer.Serve(httpListener)
	}()

	var grpcServer *grpc.Server

	if healthServer != nil {
		healthListener, listenErr := lc.Listen(ctx, "tcp", healthAddress)
		if listenErr != nil {
			shutdown(ctx, httpServer, nil, cfg)
			<-errCh

			return fmt.Errorf("listen on %s: %w", healthAddress, listenErr)
		}

		grpcServer = grpc.NewServer()
		healthpb.RegisterHealthServer(grpcServer, healthServer)
		listeners++

		go func() {
			errCh <- grpcServer.Serve(healthListener)
		}()
	}

	logger.InfoKV(ctx, "Breaker server listening",
		"listen_address", listenAddress,
		"health_address", healthAddress,
		"state_file", stateFile,
	)

	select {
	case <-ctx.Done():
		logger.Info(ctx, "Shutting down breaker server")
	case err = <-errCh:
		listeners--

		logger.ErrorKV(ctx, "Listener failed", "error", err)
	}

	shutdown(ctx, httpServer, grpcServer, cfg)

	// Drain remaining serve results, keeping the first real failure.
	for i := 0; i < listeners; i++ {
		serveErr := <-errCh
		if err == nil {
			err = serveErr
		}
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info(ctx, "Breaker server stopped")

	return nil
}

// shutdown stops both servers gracefully within the configured timeout.
func shutdown(ctx context.Context, httpServer *http.Server, grpcServer *grpc.Server, cfg *config.Config) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorKV(ctx, "HTTP shutdown failed", "error", err)
	}

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
}

// resolveListenAddress determines the listen address for the HTTP server.
// If override is provided, uses it directly. Otherwise extracts the port
// from configAddr so the server binds on all interfaces.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	// Parse the address to extract the port (e.g. "host:8080" -> ":8080").
	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}
