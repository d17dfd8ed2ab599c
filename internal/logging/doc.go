// Package logging assembles structured slog loggers used across speedpack.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes helpers so pipeline phases tag their log lines with a
// component, run ID, and input source. Pack lists are written to stdout, so
// loggers default to stderr. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
package logging
