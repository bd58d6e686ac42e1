// Package config loads, normalizes, and validates ahn configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// AHN_STOP_TIMEOUT. The Config type centralizes the knobs the lifecycle
// controller and CLI need: pid-file naming, the stop protocol timings, the
// bootstrap entry point, history storage, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
