// Package logging wraps log/slog with squeeze's logger construction and
// shared attribute helpers.
//
// Loggers are built from config (level, format, optional log file). The
// console format is chosen automatically when stdout is a terminal; JSON
// otherwise. Field name constants keep structured keys consistent across
// components.
package logging
