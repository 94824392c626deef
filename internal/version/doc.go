// Package version exposes build metadata injected at build time and a cobra
// subcommand that prints it.
package version
