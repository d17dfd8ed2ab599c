// Package config loads, normalizes, and validates speedpack configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SPEEDPACK_DAT and SPEEDPACK_SMDB. The Config type centralizes every knob the
// pack-list pipeline needs: input locations, output shaping, extra region
// names, exclusion keywords, and logging.
//
// Command-line flags are layered on top of a loaded Config by the CLI; always
// run Validate (and ValidateInputs before planning) after applying overrides so
// downstream code receives sanitized paths and clear validation errors.
package config
