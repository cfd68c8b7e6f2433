// Package logging assembles structured slog loggers used across synthgrid.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and defines the standardized field keys so engine, batch, and CLI
// code tag log lines consistently. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing.
package logging
