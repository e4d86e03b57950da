// Package logging assembles structured slog loggers and formatting helpers
// used across stave.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attr helpers plus a no-op logger for tests. The
// console handler promotes the "component" attribute into the line prefix so
// scan progress reads naturally on a terminal.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
