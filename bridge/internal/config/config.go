package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fallbacks used for any field the config file leaves unset.
const (
	DefaultHTTPPort = 5000
	DefaultSeed     = 0 // 0 means seed from the clock
)

// Config holds all bridge-side settings. Fields map 1:1 to the bridge
// section of config.example.yaml.
type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
}

// BridgeConfig configures the bridge HTTP server and its upstreams.
type BridgeConfig struct {
	// HTTPPort is the port the pull API and /metrics listen on.
	HTTPPort int `yaml:"http_port"`

	// ESPEndpoint is the URL of the field radio module's status endpoint.
	// Leave empty to always serve mocked network data.
	ESPEndpoint string `yaml:"esp_endpoint"`

	// Seed fixes the sensor simulation RNG for reproducible runs.
	// Zero seeds from the wall clock.
	Seed int64 `yaml:"seed"`
}

// Load parses the YAML file at path into a validated Config.
// Optional fields that are absent keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults builds the baseline Config that Load unmarshals over.
func defaults() *Config {
	return &Config{
		Bridge: BridgeConfig{
			HTTPPort: DefaultHTTPPort,
			Seed:     DefaultSeed,
		},
	}
}

// validate rejects configs that would misbehave at runtime.
func validate(cfg *Config) error {
	if cfg.Bridge.HTTPPort <= 0 || cfg.Bridge.HTTPPort > 65535 {
		return fmt.Errorf("bridge.http_port %d out of range", cfg.Bridge.HTTPPort)
	}
	return nil
}
