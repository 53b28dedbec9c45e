package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Valid(t *testing.T) {
	yaml := `
dashboard:
  http_port: 9090
  bridge:
    alerts_url: "http://bridge:5000/alerts"
    network_url: "http://bridge:5000/network"
    metrics_url: "http://bridge:5000/metrics"
  poll_interval: 3s
  feed_capacity: 25
  auth:
    mode: apikey
    key_env: DASH_API_KEY
  webhooks:
    - type: slack
      url_env: SLACK_URL
`
	cfg := loadFromString(t, yaml)
	d := cfg.Dashboard

	if d.HTTPPort != 9090 {
		t.Errorf("http_port: got %d", d.HTTPPort)
	}
	if d.Bridge.AlertsURL != "http://bridge:5000/alerts" {
		t.Errorf("alerts_url: got %q", d.Bridge.AlertsURL)
	}
	if d.PollInterval != 3*time.Second {
		t.Errorf("poll_interval: got %v", d.PollInterval)
	}
	if d.FeedCapacity != 25 {
		t.Errorf("feed_capacity: got %d", d.FeedCapacity)
	}
	if d.Auth.Mode != "apikey" {
		t.Errorf("auth mode: got %q", d.Auth.Mode)
	}
	if len(d.Webhooks) != 1 || d.Webhooks[0].Type != "slack" {
		t.Errorf("webhooks: got %+v", d.Webhooks)
	}
}

func TestLoad_Defaults(t *testing.T) {
	yaml := `
dashboard:
  bridge:
    alerts_url: "http://localhost:5000/alerts"
`
	cfg := loadFromString(t, yaml)
	d := cfg.Dashboard

	if d.HTTPPort != DefaultHTTPPort {
		t.Errorf("default http_port: got %d, want %d", d.HTTPPort, DefaultHTTPPort)
	}
	if d.PollInterval != DefaultPollInterval {
		t.Errorf("default poll_interval: got %v, want %v", d.PollInterval, DefaultPollInterval)
	}
	if d.BroadcastInterval != DefaultBroadcastInterval {
		t.Errorf("default broadcast_interval: got %v, want %v", d.BroadcastInterval, DefaultBroadcastInterval)
	}
	if d.FeedCapacity != DefaultFeedCapacity {
		t.Errorf("default feed_capacity: got %d, want %d", d.FeedCapacity, DefaultFeedCapacity)
	}
	if d.StaleTTL != DefaultStaleTTL {
		t.Errorf("default stale_ttl: got %v, want %v", d.StaleTTL, DefaultStaleTTL)
	}
}

func TestLoad_MissingAlertsURL(t *testing.T) {
	if _, err := loadStringErr(t, "dashboard: {}\n"); err == nil {
		t.Fatal("expected error for missing alerts_url, got nil")
	}
}

func TestLoad_UnknownWebhookType(t *testing.T) {
	yaml := `
dashboard:
  bridge:
    alerts_url: "http://localhost:5000/alerts"
  webhooks:
    - type: pigeon
      url_env: PIGEON_URL
`
	if _, err := loadStringErr(t, yaml); err == nil {
		t.Fatal("expected error for unknown webhook type, got nil")
	}
}

func TestLoad_WebhookMissingURLEnv(t *testing.T) {
	yaml := `
dashboard:
  bridge:
    alerts_url: "http://localhost:5000/alerts"
  webhooks:
    - type: slack
`
	if _, err := loadStringErr(t, yaml); err == nil {
		t.Fatal("expected error for missing url_env, got nil")
	}
}

func TestLoad_UnknownAuthMode(t *testing.T) {
	yaml := `
dashboard:
  bridge:
    alerts_url: "http://localhost:5000/alerts"
  auth:
    mode: magictoken
`
	if _, err := loadStringErr(t, yaml); err == nil {
		t.Fatal("expected error for unknown auth mode, got nil")
	}
}

func TestAuthConfig_Key(t *testing.T) {
	t.Setenv("TEST_DASH_KEY", "supersecret")
	a := AuthConfig{Mode: "apikey", KeyEnv: "TEST_DASH_KEY"}
	if got := a.Key(); got != "supersecret" {
		t.Errorf("Key(): got %q, want %q", got, "supersecret")
	}
}

func TestWebhookConfig_URL(t *testing.T) {
	t.Setenv("SLACK_URL", "https://hooks.slack.example/T123")
	w := WebhookConfig{Type: "slack", URLEnv: "SLACK_URL"}
	if got := w.URL(); got != "https://hooks.slack.example/T123" {
		t.Errorf("URL(): got %q", got)
	}
}

func TestWebhookConfig_URL_Empty(t *testing.T) {
	w := WebhookConfig{Type: "slack"}
	if got := w.URL(); got != "" {
		t.Errorf("URL() with no URLEnv: got %q, want empty", got)
	}
}

// loadFromString writes yaml to a temp file and calls Load, failing on error.
func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, content)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return cfg
}

// loadStringErr writes yaml to a temp file and calls Load, returning any error.
func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}
