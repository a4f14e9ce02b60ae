// Package config loads, normalizes, and validates shellsync configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SHELLSYNC_APP_PASSWORD. The Config type centralizes every knob the daemon
// and CLI need: the socket endpoint, the account and its sharing
// capabilities, the synced folders, the journal database and logging.
//
// Always obtain settings through this package so downstream code receives
// slash-form folder roots, an absolute socket path, and clear validation errors.
package config
