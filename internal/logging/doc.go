// Package logging constructs slog loggers for the CLI.
//
// Two formats are supported: "console" for humans (text handler, lowercase
// levels) and "json" for machine consumption. Log output always goes to the
// writer the caller supplies; workq commands pass stderr so stdout stays
// reserved for data.
package logging
