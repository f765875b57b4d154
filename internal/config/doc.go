// Package config loads, normalizes, and validates cuealign configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and validates every threshold the pipeline
// depends on. The Config type centralizes the full configuration surface:
// frame rate convention, gap seconds, allocation and validation thresholds,
// probe settings, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a checked frame rate, and clear validation errors.
package config
