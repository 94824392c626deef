// Package config loads, validates, and saves the YAML settings shared by the
// breaker binaries: server and health addresses, the snapshot file location,
// and the network timeout.
package config
