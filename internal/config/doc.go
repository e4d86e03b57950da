// Package config loads, normalizes, and validates stave configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STAVE_LIBRARY_DIR. The Config type centralizes every knob the CLI needs:
// the library root, manifest location, file type recognition, and the
// conflict/rename policies that govern a scan.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical policy names, and clear validation errors.
package config
