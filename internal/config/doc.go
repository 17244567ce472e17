// Package config loads, normalizes, and validates stockmeta configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// API_KEYS, API_KEY, STOCKMETA_PROVIDER, and STOCKMETA_MODEL. Command-line
// values are layered on top with Apply, giving the precedence
// flag > environment > file > default.
//
// Always obtain settings through this package so downstream code receives
// trimmed credentials, canonical provider names, and clear validation errors.
package config
