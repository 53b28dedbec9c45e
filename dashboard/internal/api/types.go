package api

import (
	"encoding/json"

	"github.com/fieldwatch/fieldwatch/dashboard/internal/feed"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/telemetry"
	"github.com/fieldwatch/fieldwatch/pkg/types"
)

// AlertState is the payload for GET /api/v1/alert — the current
// deduplicated alert.
type AlertState struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status          string  `json:"status"` // "ok" | "degraded" | "critical"
	AlertSeverity   string  `json:"alert_severity"`
	BridgeUptimePct float64 `json:"bridge_uptime_pct"`
	TelemetryFresh  bool    `json:"telemetry_fresh"`
	NetworkFresh    bool    `json:"network_fresh"`
	FeedCount       int     `json:"feed_count"`
}

// RescueResponse is the payload for GET/POST /api/v1/rescue.
type RescueResponse struct {
	Survivors int `json:"survivors"`
	Rescuers  int `json:"rescuers"`
}

// rescueRequest is the body for POST /api/v1/rescue.
type rescueRequest struct {
	Count countField `json:"count"`
}

// countField holds the raw survivor count from a request body. Clients send
// it as either a JSON string or a JSON number; any other JSON value decodes
// to the empty string, which the sanitizer maps to zero.
type countField string

func (c *countField) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = countField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*c = countField(n)
		return nil
	}
	*c = ""
	return nil
}

// NetworkResponse is the payload for GET /api/v1/network. RSSISmoothed is
// the Kalman-filtered signal estimate; zero until the first reading.
type NetworkResponse struct {
	types.NetworkStatus
	RSSISmoothed float64 `json:"rssi_smoothed"`
	Fresh        bool    `json:"fresh"`
}

// SensorsResponse is the payload for GET /api/v1/sensors.
type SensorsResponse struct {
	telemetry.Snapshot
	Fresh bool `json:"fresh"`
}

// SnapshotResponse is the payload for GET /api/v1/snapshot and the body of
// every WebSocket broadcast.
type SnapshotResponse struct {
	Alert       AlertState       `json:"alert"`
	Feed        []feed.Entry     `json:"feed"`
	Sensors     SensorsResponse  `json:"sensors"`
	Network     NetworkResponse  `json:"network"`
	Rescue      RescueResponse   `json:"rescue"`
	Diagnostics []DiagnosticHint `json:"diagnostics"`
	GeneratedAt string           `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
