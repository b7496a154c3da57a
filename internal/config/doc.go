// Package config loads, normalizes, and validates squeeze configuration.
//
// Configuration is TOML with environment overlays: a .env file is applied on
// load, and SQUEEZE_FFMPEG / SQUEEZE_FFPROBE override the encoder binaries.
// Defaults live in defaults.go; every Load result has passed normalize and
// Validate, so downstream code can trust the values without re-checking.
package config
