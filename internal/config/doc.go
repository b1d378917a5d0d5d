// Package config loads, normalizes, and validates m4bforge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs, so staging/output directories and encoding defaults are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical encoding values, and clear validation errors.
package config
