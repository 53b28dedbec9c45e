package api

import (
	"time"

	"github.com/fieldwatch/fieldwatch/dashboard/internal/feed"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/poller"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/rescue"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/state"
)

// Deps bundles the dashboard components the API (and the WebSocket hub)
// read from.
type Deps struct {
	Poller *poller.Poller
	Feed   *feed.Feed
	State  *state.Store
}

// BuildSnapshot assembles the full dashboard snapshot from live state.
func BuildSnapshot(d *Deps) SnapshotResponse {
	st := d.Poller.State()
	alert := AlertState{Severity: st.LastSeverity, Message: st.LastMessage}

	sensors, sensorsFresh := d.State.Telemetry()
	network, networkFresh := d.State.Network()
	rssiSmoothed, _ := d.State.SmoothedRSSI()
	survivors := d.State.Survivors()

	snap := SnapshotResponse{
		Alert:   alert,
		Feed:    d.Feed.List(),
		Sensors: SensorsResponse{Snapshot: sensors, Fresh: sensorsFresh},
		Network: NetworkResponse{
			NetworkStatus: network,
			RSSISmoothed:  rssiSmoothed,
			Fresh:         networkFresh,
		},
		Rescue: RescueResponse{
			Survivors: survivors,
			Rescuers:  rescue.Recommend(survivors),
		},
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	snap.Diagnostics = computeDiagnostics(snap)
	return snap
}
