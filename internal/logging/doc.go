// Package logging constructs the application's slog loggers: tinted
// console output, optional JSON, and an append-only log file next to the
// configured log directory.
package logging
