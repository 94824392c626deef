package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, format validations, and defaulting.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing address.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Bad address.
	cfg = &Config{
		ServerAddress: "bad:address",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Bad health address.
	cfg = &Config{
		ServerAddress: "127.0.0.1:8080",
		HealthAddress: "also:bad",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay, defaults filled in.
	cfg = &Config{
		ServerAddress: "127.0.0.1:8080",
		HealthAddress: "127.0.0.1:8081",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultStateFilename, cfg.StateFile)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back
// correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := &Config{
		ServerAddress: "127.0.0.1:8080",
		HealthAddress: "127.0.0.1:8081",
		StateFile:     "breaker.json",
		Timeout:       10 * time.Second,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

// TestLoadMissingFile surfaces the read error.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
