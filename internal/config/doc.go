// Package config loads, validates, and normalizes gifpress configuration
// from a TOML file, applying repository defaults for anything unset.
package config
