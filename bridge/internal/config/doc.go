// Package config loads and validates the bridge's YAML configuration.
package config
