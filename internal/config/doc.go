// Package config loads, normalizes, and validates folio configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the FOLIO_TEMPLATE_PATH
// environment fallback. The Config type centralizes the knobs the CLI and the
// publish pipeline need: where history and logs live, which directories hold
// templates, and which template to use when an album does not name one.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
