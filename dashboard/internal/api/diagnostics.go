package api

import (
	"fmt"

	"github.com/fieldwatch/fieldwatch/dashboard/internal/poller"
	"github.com/fieldwatch/fieldwatch/pkg/types"
)

// UI-level heuristics for diagnostic chips. These are display thresholds,
// deliberately looser than the bridge's alerting thresholds.
const (
	hintGasElevatedPPM  = 120.0
	hintTempElevatedC   = 95.0
	hintWeakLinkQuality = 40
)

// DiagnosticHint is one human-readable insight about the field situation.
// The UI displays these as chips on the status bar; clicking one shows
// Detail — written like an assistant explaining the situation in plain English.
type DiagnosticHint struct {
	// Key is a stable machine-readable identifier (used for dedup/ordering).
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning" | "critical"
	Level string `json:"level"`
	// Title is a short label shown on the chip (≤ 5 words).
	Title string `json:"title"`
	// Detail is the full explanation shown on click/hover.
	Detail string `json:"detail"`
	// Value is an optional numeric value associated with this hint.
	Value *float64 `json:"value,omitempty"`
}

// computeDiagnostics derives human-readable hints from a snapshot.
// Critical conditions come first, then warnings, then info.
func computeDiagnostics(snap SnapshotResponse) []DiagnosticHint {
	var hints []DiagnosticHint

	// ── Bridge offline ────────────────────────────────────────────────────────
	if snap.Alert.Message == poller.OfflineMessage {
		hints = append(hints, DiagnosticHint{
			Key:   "bridge_offline",
			Level: "critical",
			Title: "Bridge offline",
			Detail: "The AI bridge stopped answering alert polls. Everything on this " +
				"dashboard is now running on the last data it sent. Check that the " +
				"bridge process is up and that the field link is alive — the network " +
				"panel below will show whether the radio side is still reachable.",
		})
		return hints // further hints would be built on stale data
	}

	// ── Warming up ────────────────────────────────────────────────────────────
	if snap.Alert.Severity == poller.SeverityInitial {
		hints = append(hints, DiagnosticHint{
			Key:   "warming_up",
			Level: "info",
			Title: "Warming up",
			Detail: "The dashboard hasn't completed its first alert poll yet. " +
				"The alert panel fills in after the next poll cycle. No action needed.",
		})
	}

	// ── Active critical alert ─────────────────────────────────────────────────
	if snap.Alert.Severity == types.SeverityRed {
		hints = append(hints, DiagnosticHint{
			Key:   "red_alert",
			Level: "critical",
			Title: "Critical alert active",
			Detail: fmt.Sprintf(
				"The bridge is reporting a critical condition: \"%s\". "+
					"Treat the area as unsafe until readings drop back below thresholds.",
				snap.Alert.Message,
			),
		})
	}

	// ── Sensor-level warnings (only on fresh telemetry) ──────────────────────
	if snap.Sensors.Fresh {
		if snap.Sensors.GasPPM > hintGasElevatedPPM {
			v := snap.Sensors.GasPPM
			hints = append(hints, DiagnosticHint{
				Key:   "gas_elevated",
				Level: "warning",
				Title: fmt.Sprintf("%.0f ppm gas", v),
				Detail: fmt.Sprintf(
					"Gas concentration is at %.0f ppm, above the %.0f ppm comfort line. "+
						"Watch the trend value — a rising trend means accumulation, not a spike.",
					v, hintGasElevatedPPM,
				),
				Value: &v,
			})
		}
		if snap.Sensors.Temperature > hintTempElevatedC {
			v := snap.Sensors.Temperature
			hints = append(hints, DiagnosticHint{
				Key:   "temp_elevated",
				Level: "warning",
				Title: fmt.Sprintf("%.1f°C", v),
				Detail: fmt.Sprintf(
					"Temperature is at %.1f°C, above the %.0f°C line. Sustained high "+
						"temperature degrades the sensor package itself; cross-check with "+
						"the vibration reading for signs of equipment stress.",
					v, hintTempElevatedC,
				),
				Value: &v,
			})
		}
	} else {
		hints = append(hints, DiagnosticHint{
			Key:   "telemetry_stale",
			Level: "info",
			Title: "Telemetry stale",
			Detail: "The sensor readings shown are older than the freshness window. " +
				"The bridge /metrics endpoint hasn't been scraped successfully recently.",
		})
	}

	// ── Radio link ────────────────────────────────────────────────────────────
	if snap.Network.Fresh && snap.Network.Quality < hintWeakLinkQuality {
		v := float64(snap.Network.Quality)
		hints = append(hints, DiagnosticHint{
			Key:   "weak_link",
			Level: "warning",
			Title: fmt.Sprintf("%d%% link quality", snap.Network.Quality),
			Detail: fmt.Sprintf(
				"Radio link quality is down to %d%% (RSSI %d dBm). Expect delayed or "+
					"dropped updates from the field. If the team is mobile, this usually "+
					"means they are near the edge of radio range.",
				snap.Network.Quality, snap.Network.RSSI,
			),
			Value: &v,
		})
	}

	// ── All clear ─────────────────────────────────────────────────────────────
	if len(hints) == 0 {
		hints = append(hints, DiagnosticHint{
			Key:   "all_clear",
			Level: "ok",
			Title: "All clear",
			Detail: "Bridge reachable, sensor readings inside thresholds, radio link " +
				"healthy. Keep an eye on the gas trend — it is the earliest mover " +
				"when conditions degrade.",
		})
	}

	return hints
}
