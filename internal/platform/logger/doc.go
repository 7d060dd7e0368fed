// Package logger sets up the JSON slog handler used by every component and
// carries request-scoped loggers (with their trace_id) through the context.
package logger
