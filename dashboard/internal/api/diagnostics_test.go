package api

import (
	"testing"

	"github.com/fieldwatch/fieldwatch/dashboard/internal/poller"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/telemetry"
	"github.com/fieldwatch/fieldwatch/pkg/types"
)

func hintKeys(hints []DiagnosticHint) []string {
	keys := make([]string, len(hints))
	for i, h := range hints {
		keys[i] = h.Key
	}
	return keys
}

func hasHint(hints []DiagnosticHint, key string) bool {
	for _, h := range hints {
		if h.Key == key {
			return true
		}
	}
	return false
}

func freshSnapshot() SnapshotResponse {
	return SnapshotResponse{
		Alert: AlertState{Severity: types.SeverityGreen, Message: "all clear"},
		Sensors: SensorsResponse{
			Snapshot: telemetry.Snapshot{Temperature: 90, GasPPM: 100, VibrationG: 0.5},
			Fresh:    true,
		},
		Network: NetworkResponse{
			NetworkStatus: types.NetworkStatus{RSSI: -60, Quality: 80},
			Fresh:         true,
		},
	}
}

func TestDiagnosticsAllClear(t *testing.T) {
	hints := computeDiagnostics(freshSnapshot())
	if len(hints) != 1 || hints[0].Key != "all_clear" {
		t.Fatalf("hints = %v, want single all_clear", hintKeys(hints))
	}
	if hints[0].Level != "ok" {
		t.Errorf("all_clear level = %q, want ok", hints[0].Level)
	}
}

func TestDiagnosticsBridgeOfflineShortCircuits(t *testing.T) {
	snap := freshSnapshot()
	snap.Alert = AlertState{Severity: types.SeverityYellow, Message: poller.OfflineMessage}
	snap.Sensors.GasPPM = 200 // would otherwise add a gas hint

	hints := computeDiagnostics(snap)
	if len(hints) != 1 || hints[0].Key != "bridge_offline" {
		t.Fatalf("hints = %v, want single bridge_offline", hintKeys(hints))
	}
	if hints[0].Level != "critical" {
		t.Errorf("level = %q, want critical", hints[0].Level)
	}
}

func TestDiagnosticsWarmingUp(t *testing.T) {
	snap := freshSnapshot()
	snap.Alert = AlertState{Severity: poller.SeverityInitial}

	if hints := computeDiagnostics(snap); !hasHint(hints, "warming_up") {
		t.Errorf("hints = %v, want warming_up", hintKeys(hints))
	}
}

func TestDiagnosticsRedAlert(t *testing.T) {
	snap := freshSnapshot()
	snap.Alert = AlertState{Severity: types.SeverityRed, Message: "fire"}

	hints := computeDiagnostics(snap)
	if !hasHint(hints, "red_alert") {
		t.Fatalf("hints = %v, want red_alert", hintKeys(hints))
	}
	if hints[0].Key != "red_alert" {
		t.Errorf("first hint = %q, want critical red_alert first", hints[0].Key)
	}
}

func TestDiagnosticsSensorThresholds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SnapshotResponse)
		want   string
	}{
		{"elevated gas", func(s *SnapshotResponse) { s.Sensors.GasPPM = 150 }, "gas_elevated"},
		{"elevated temp", func(s *SnapshotResponse) { s.Sensors.Temperature = 99 }, "temp_elevated"},
		{"weak link", func(s *SnapshotResponse) { s.Network.Quality = 20 }, "weak_link"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := freshSnapshot()
			tc.mutate(&snap)
			if hints := computeDiagnostics(snap); !hasHint(hints, tc.want) {
				t.Errorf("hints = %v, want %s", hintKeys(hints), tc.want)
			}
		})
	}
}

func TestDiagnosticsStaleTelemetry(t *testing.T) {
	snap := freshSnapshot()
	snap.Sensors.Fresh = false

	if hints := computeDiagnostics(snap); !hasHint(hints, "telemetry_stale") {
		t.Errorf("hints = %v, want telemetry_stale", hintKeys(hints))
	}
}

func TestDiagnosticsStaleNetworkNoLinkHint(t *testing.T) {
	snap := freshSnapshot()
	snap.Network.Quality = 10
	snap.Network.Fresh = false

	if hints := computeDiagnostics(snap); hasHint(hints, "weak_link") {
		t.Errorf("hints = %v, weak_link should require fresh network data", hintKeys(hints))
	}
}
