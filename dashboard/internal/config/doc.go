// Package config loads, validates and hot-reloads the dashboard's YAML
// configuration. Secrets (API keys, webhook URLs) are never stored in the
// file; the config names environment variables that hold them.
package config
