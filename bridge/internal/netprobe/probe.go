package netprobe

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/fieldwatch/fieldwatch/pkg/types"
)

// probeTimeout bounds the upstream fetch. The ESP responds in well under a
// second when reachable; anything slower is treated as unreachable.
const probeTimeout = 2 * time.Second

// Prober fetches link status from the field ESP module, falling back to a
// realistic mock when the device is unreachable.
type Prober struct {
	endpoint string
	client   *http.Client
	rng      *rand.Rand
	now      func() time.Time // injectable for deterministic tests
}

// New creates a Prober for the given ESP endpoint URL. An empty endpoint is
// valid: every Status call then returns mock data.
func New(endpoint string, rng *rand.Rand) *Prober {
	return &Prober{
		endpoint: endpoint,
		client:   &http.Client{Timeout: probeTimeout},
		rng:      rng,
		now:      time.Now,
	}
}

// Status returns the current network strength. It tries the upstream ESP
// first; any failure (unreachable, non-200, bad JSON) degrades silently to
// Mock so the dashboard's network panel never goes blank.
func (p *Prober) Status(ctx context.Context) types.NetworkStatus {
	if p.endpoint == "" {
		return p.Mock()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return p.Mock()
	}
	resp, err := p.client.Do(req)
	if err != nil {
		slog.Debug("netprobe: upstream unreachable, using mock", "endpoint", p.endpoint, "err", err)
		return p.Mock()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return p.Mock()
	}

	var st types.NetworkStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		slog.Debug("netprobe: bad upstream payload, using mock", "err", err)
		return p.Mock()
	}
	if st.Timestamp == 0 {
		st.Timestamp = p.now().Unix()
	}
	return st
}

// Mock returns a synthetic NetworkStatus with RSSI uniform in [-86, -54] dBm
// and quality derived from it on an approximate 0–100 scale.
func (p *Prober) Mock() types.NetworkStatus {
	rssi := -86 + p.rng.Intn(33) // [-86, -54]
	return types.NetworkStatus{
		RSSI:      rssi,
		Quality:   QualityFromRSSI(rssi),
		Timestamp: p.now().Unix(),
	}
}

// QualityFromRSSI maps an RSSI in dBm to an approximate 0–100 quality
// percentage: -100 dBm and below is 0, -50 dBm and above is 100.
func QualityFromRSSI(rssi int) int {
	if rssi < -100 {
		rssi = -100
	}
	if rssi > -50 {
		rssi = -50
	}
	return (rssi + 100) * 2
}
