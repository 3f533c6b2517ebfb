// Package config loads, normalizes, and validates the TOML configuration that
// drives scanning, validation, and catalog maintenance.
package config
