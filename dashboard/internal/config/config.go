package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Fallbacks used for any field the config file leaves unset.
const (
	DefaultHTTPPort          = 8080
	DefaultPollInterval      = 10 * time.Second
	DefaultScrapeInterval    = 15 * time.Second
	DefaultBroadcastInterval = 5 * time.Second
	DefaultFeedCapacity      = 10
	DefaultStaleTTL          = 60 * time.Second
)

// Config holds all dashboard-side settings. Fields map 1:1 to the
// dashboard section of config.example.yaml.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// DashboardConfig configures the dashboard server and its bridge upstream.
type DashboardConfig struct {
	// HTTPPort is the port the REST API, WebSocket hub and /metrics
	// listen on.
	HTTPPort int `yaml:"http_port"`

	// Bridge holds the upstream bridge endpoints.
	Bridge BridgeEndpoints `yaml:"bridge"`

	// PollInterval controls how often the alert endpoint is polled.
	PollInterval time.Duration `yaml:"poll_interval"`

	// ScrapeInterval controls how often the bridge /metrics endpoint is
	// scraped for sensor telemetry.
	ScrapeInterval time.Duration `yaml:"scrape_interval"`

	// BroadcastInterval controls how often the WebSocket hub pushes a
	// fresh snapshot to connected clients.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`

	// FeedCapacity is the number of alert feed entries kept in memory.
	FeedCapacity int `yaml:"feed_capacity"`

	// StaleTTL is how old a telemetry or network reading may be before
	// the API reports it stale.
	StaleTTL time.Duration `yaml:"stale_ttl"`

	// Auth configures REST API authentication.
	Auth AuthConfig `yaml:"auth"`

	// Webhooks is the list of notification delivery targets.
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// BridgeEndpoints names the bridge URLs the dashboard consumes.
type BridgeEndpoints struct {
	// AlertsURL is the alert-status endpoint polled by the alert engine.
	AlertsURL string `yaml:"alerts_url"`

	// NetworkURL is the link-status endpoint.
	NetworkURL string `yaml:"network_url"`

	// MetricsURL is the bridge's Prometheus exposition endpoint, scraped
	// for raw sensor telemetry.
	MetricsURL string `yaml:"metrics_url"`
}

// AuthConfig configures REST API authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable holding the
	// expected API key.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the API key resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable holding the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
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
		Dashboard: DashboardConfig{
			HTTPPort:          DefaultHTTPPort,
			PollInterval:      DefaultPollInterval,
			ScrapeInterval:    DefaultScrapeInterval,
			BroadcastInterval: DefaultBroadcastInterval,
			FeedCapacity:      DefaultFeedCapacity,
			StaleTTL:          DefaultStaleTTL,
		},
	}
}

// validate rejects configs that would misbehave at runtime.
func validate(cfg *Config) error {
	d := cfg.Dashboard
	if d.HTTPPort <= 0 || d.HTTPPort > 65535 {
		return fmt.Errorf("dashboard.http_port %d out of range", d.HTTPPort)
	}
	if d.Bridge.AlertsURL == "" {
		return fmt.Errorf("dashboard.bridge.alerts_url is required")
	}
	if d.PollInterval <= 0 {
		return fmt.Errorf("dashboard.poll_interval must be positive")
	}
	if d.ScrapeInterval <= 0 {
		return fmt.Errorf("dashboard.scrape_interval must be positive")
	}
	if d.BroadcastInterval <= 0 {
		return fmt.Errorf("dashboard.broadcast_interval must be positive")
	}
	if d.FeedCapacity <= 0 {
		return fmt.Errorf("dashboard.feed_capacity must be positive")
	}
	switch d.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("dashboard.auth: unknown mode %q", d.Auth.Mode)
	}
	for i, w := range d.Webhooks {
		switch w.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("webhooks[%d]: unknown type %q", i, w.Type)
		}
		if w.URLEnv == "" {
			return fmt.Errorf("webhooks[%d] %s: url_env is required", i, w.Type)
		}
	}
	return nil
}
