package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/fieldwatch/fieldwatch/dashboard/internal/forecast"
)

// Bridge gauge names the scraper extracts.
const (
	metricTemperature = "fieldbridge_sensor_temperature_celsius"
	metricGas         = "fieldbridge_sensor_gas_ppm"
	metricVibration   = "fieldbridge_sensor_vibration_g"
)

// uptimeWindow is the number of recent scrape outcomes tracked for uptime %.
const uptimeWindow = 20

const (
	scrapeTimeout = 10 * time.Second
	trendAlpha    = 0.3
)

// Snapshot is the normalized output of one scrape cycle: the raw sensor
// gauges, their smoothed trends, and bridge reachability.
type Snapshot struct {
	Temperature float64 `json:"temperature"`
	GasPPM      float64 `json:"gas_ppm"`
	VibrationG  float64 `json:"vibration_g"`

	// Smoothed trend values; track the raw gauges with noise damped.
	TemperatureTrend float64 `json:"temperature_trend"`
	GasTrend         float64 `json:"gas_trend"`
	VibrationTrend   float64 `json:"vibration_trend"`

	// UptimePct is the percentage of recent scrape cycles that reached
	// the bridge, over a sliding window.
	UptimePct float64 `json:"uptime_pct"`

	// Stale is true when this snapshot carries the previous cycle's
	// values because the latest scrape failed.
	Stale bool `json:"stale"`

	ScrapedAt time.Time `json:"scraped_at"`
}

// Scraper pulls the bridge's Prometheus exposition and reduces it to a
// sensor Snapshot. Scrape failures degrade to a stale snapshot rather
// than an error: the dashboard keeps its last known readings.
//
// Scraper is safe for concurrent use.
type Scraper struct {
	endpoint string
	client   *http.Client

	mu        sync.Mutex
	history   []bool
	tempTrend *forecast.EMA
	gasTrend  *forecast.EMA
	vibTrend  *forecast.EMA
	last      Snapshot
	now       func() time.Time // injectable for deterministic tests
}

// New creates a Scraper for the bridge's /metrics endpoint.
func New(endpoint string) *Scraper {
	return &Scraper{
		endpoint:  endpoint,
		client:    &http.Client{Timeout: scrapeTimeout},
		tempTrend: forecast.NewEMA(trendAlpha),
		gasTrend:  forecast.NewEMA(trendAlpha),
		vibTrend:  forecast.NewEMA(trendAlpha),
		now:       time.Now,
	}
}

// Scrape performs one fetch-parse-extract cycle and returns the resulting
// Snapshot. On failure the previous readings are returned with Stale set.
func (s *Scraper) Scrape(ctx context.Context) Snapshot {
	mfs, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.recordScrape(err == nil)

	if err != nil {
		slog.Warn("telemetry: bridge scrape failed", "endpoint", s.endpoint, "err", err)
		snap := s.last
		snap.Stale = true
		snap.UptimePct = s.uptimePct()
		s.last = snap
		return snap
	}

	snap := Snapshot{
		Temperature: gaugeValue(mfs[metricTemperature]),
		GasPPM:      gaugeValue(mfs[metricGas]),
		VibrationG:  gaugeValue(mfs[metricVibration]),
		UptimePct:   s.uptimePct(),
		ScrapedAt:   s.now().UTC(),
	}
	snap.TemperatureTrend = s.tempTrend.Update(snap.Temperature)
	snap.GasTrend = s.gasTrend.Update(snap.GasPPM)
	snap.VibrationTrend = s.vibTrend.Update(snap.VibrationG)

	s.last = snap
	return snap
}

// Last returns the most recent snapshot, which may be the zero value
// before the first scrape.
func (s *Scraper) Last() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Run scrapes at the given interval until ctx is cancelled, handing each
// snapshot to onSnapshot.
func (s *Scraper) Run(ctx context.Context, interval time.Duration, onSnapshot func(Snapshot)) {
	onSnapshot(s.Scrape(ctx))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			onSnapshot(s.Scrape(ctx))
		}
	}
}

// fetch performs an HTTP GET to the exposition endpoint and returns parsed
// metric families.
func (s *Scraper) fetch(ctx context.Context) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseMetrics(resp.Body)
}

// parseMetrics decodes a Prometheus text exposition from r into metric families.
// A partial result with a non-fatal parse warning is still returned successfully.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// gaugeValue returns the first gauge or untyped value in a MetricFamily,
// or 0 if mf is nil (metric not present in the scrape).
func gaugeValue(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	for _, m := range mf.GetMetric() {
		switch {
		case m.Gauge != nil:
			return m.Gauge.GetValue()
		case m.Untyped != nil:
			return m.Untyped.GetValue()
		}
	}
	return 0
}

func (s *Scraper) recordScrape(success bool) {
	if len(s.history) >= uptimeWindow {
		s.history = s.history[1:]
	}
	s.history = append(s.history, success)
}

func (s *Scraper) uptimePct() float64 {
	if len(s.history) == 0 {
		return 100 // assume up before first observation
	}
	var ok int
	for _, success := range s.history {
		if success {
			ok++
		}
	}
	return float64(ok) / float64(len(s.history)) * 100
}
