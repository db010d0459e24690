// Package config loads and persists workq configuration from a TOML file.
//
// Configuration is intentionally small: where the queue database lives, how
// the CLI logs, and the default worker identity used when a command does not
// name one explicitly. Load falls back to defaults when no config file
// exists so that workq works out of the box.
package config
