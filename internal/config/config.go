package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds connection parameters shared by the breaker binaries.
type Config struct {
	// ServerAddress is the HTTP control API address clients connect to and
	// the server derives its listen port from.
	ServerAddress string `yaml:"server_addr"`
	// HealthAddress is the optional gRPC health endpoint listen address.
	// Empty disables the health listener.
	HealthAddress string `yaml:"health_addr,omitempty"`
	// StateFile is the path to the JSON file storing the breaker snapshot.
	StateFile string `yaml:"state_file"`
	// Timeout is the duration for network operations and API calls.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for connection settings.
	DefaultConfigFilename = "circuit-breaker-settings.yaml"

	// DefaultStateFilename is the default filename for the breaker snapshot.
	DefaultStateFilename = "circuit-breaker-state.json"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for files the
	// breaker writes.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerAddressRequired is returned when the server address is missing.
	errServerAddressRequired = errors.New("server address must be provided")
)

// Load reads configuration from the provided path and validates essential
// fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling in defaults for optional ones.
func Validate(cfg *Config) error {
	if cfg.ServerAddress == "" {
		return errServerAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.StateFile == "" {
		cfg.StateFile = DefaultStateFilename
	}

	if cfg.HealthAddress == "" {
		return nil
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.HealthAddress); err != nil {
		return fmt.Errorf("invalid health address: %w", err)
	}

	return nil
}
