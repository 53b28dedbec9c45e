package state

import (
	"sync"
	"time"

	"github.com/fieldwatch/fieldwatch/dashboard/internal/forecast"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/telemetry"
	"github.com/fieldwatch/fieldwatch/pkg/types"
)

// RSSI filter variances: the link signal moves slowly while individual
// readings jitter by a few dBm.
const (
	rssiProcessNoise     = 0.05
	rssiMeasurementNoise = 4.0
)

// Store holds the dashboard's latest view of the field: sensor telemetry,
// network link status, and the operator's survivor-count override. Each
// section carries its update time so readers can tell fresh data from
// data older than the TTL.
//
// Store is safe for concurrent use.
type Store struct {
	ttl time.Duration
	now func() time.Time // injectable for deterministic tests

	mu          sync.RWMutex
	telemetry   telemetry.Snapshot
	telemetryAt time.Time
	network     types.NetworkStatus
	networkAt   time.Time
	rssiFilter  *forecast.Kalman1D
	survivors   int
	survivorsAt time.Time
}

// New creates a Store with the given staleness TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:        ttl,
		now:        time.Now,
		rssiFilter: forecast.NewKalman1D(rssiProcessNoise, rssiMeasurementNoise),
	}
}

// SetTelemetry stores the latest sensor snapshot.
func (s *Store) SetTelemetry(snap telemetry.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.telemetry = snap
	s.telemetryAt = s.now()
}

// Telemetry returns the latest sensor snapshot and whether it is fresh
// (updated within the TTL). Before the first update it returns the zero
// snapshot and false.
func (s *Store) Telemetry() (telemetry.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.telemetry, s.fresh(s.telemetryAt)
}

// SetNetwork stores the latest link status and folds its RSSI into the
// smoothed signal estimate.
func (s *Store) SetNetwork(st types.NetworkStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.network = st
	s.networkAt = s.now()
	s.rssiFilter.Update(float64(st.RSSI))
}

// Network returns the latest link status and whether it is fresh.
func (s *Store) Network() (types.NetworkStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network, s.fresh(s.networkAt)
}

// SmoothedRSSI returns the Kalman-filtered RSSI estimate in dBm. The
// boolean is false until the first network update seeds the filter.
func (s *Store) SmoothedRSSI() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rssiFilter.Estimate()
}

// SetSurvivors records an operator override of the reported survivor count.
func (s *Store) SetSurvivors(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.survivors = n
	s.survivorsAt = s.now()
}

// Survivors returns the current survivor count override. Overrides never
// go stale — the operator's last word stands until replaced.
func (s *Store) Survivors() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.survivors
}

// fresh reports whether an update time is set and within the TTL.
// Callers hold s.mu.
func (s *Store) fresh(at time.Time) bool {
	if at.IsZero() {
		return false
	}
	return s.now().Sub(at) <= s.ttl
}
