package poller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fieldwatch/fieldwatch/pkg/types"
)

// SeverityInitial is the pre-first-poll severity. It is not a real severity:
// it guarantees the first decoded payload always differs from state.
const SeverityInitial = "initial"

// OfflineMessage replaces the live feed when the bridge cannot be reached
// or returns garbage. It flows through the same dedup path as real alerts.
const OfflineMessage = "AI Bridge Server is offline. Data feed compromised."

// Sink receives the poller's output events. Implementations must be safe
// for calls from the poll goroutine; both methods are invoked at most once
// per poll.
type Sink interface {
	// OnAlertChange fires when the alert state transitions to a new
	// (severity, message) pair.
	OnAlertChange(severity, message string)

	// OnNotify fires alongside OnAlertChange with a display-ready title.
	OnNotify(title, body, severity string)
}

// State is the poller's dedup memory: the last severity and message either
// decoded from the bridge or synthesized on a transport failure.
type State struct {
	LastMessage  string
	LastSeverity string
}

// Poller polls the bridge alert endpoint, deduplicates consecutive
// identical payloads, and forwards transitions to its Sink.
//
// Poller is safe for concurrent use; overlapping polls serialize.
type Poller struct {
	endpoint string
	interval time.Duration
	sink     Sink
	client   *http.Client

	mu    sync.Mutex
	state State
}

// New creates a Poller for the given bridge alert endpoint. The HTTP
// client owns the per-request timeout; the poll loop itself never times
// a request out.
func New(endpoint string, interval time.Duration, sink Sink) *Poller {
	return &Poller{
		endpoint: endpoint,
		interval: interval,
		sink:     sink,
		client:   &http.Client{Timeout: 5 * time.Second},
		state:    State{LastSeverity: SeverityInitial},
	}
}

// State returns a copy of the current dedup state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Run polls once immediately, then at the fixed interval until ctx is
// cancelled. Failed polls surface as the offline alert, never as a
// stopped or delayed loop.
func (p *Poller) Run(ctx context.Context) {
	p.Poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs one fetch-decode-compare cycle. Every outcome is handled
// as data: 204 is a quiet field, a decoded payload is compared against
// state, and any transport or decode failure becomes the offline alert.
func (p *Poller) Poll(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		p.failLocked(err)
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.failLocked(err)
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		pollsTotal.WithLabelValues("nocontent").Inc()
		return

	case http.StatusOK:
		var payload types.AlertPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			p.failLocked(err)
			return
		}
		p.applyLocked(payload.Severity, payload.Message)

	default:
		p.failLocked(nil)
		slog.Warn("poller: unexpected status from bridge",
			"endpoint", p.endpoint, "status", resp.StatusCode)
	}
}

// applyLocked compares an incoming (severity, message) pair against state
// and, on any difference, emits exactly one alert-change and one notify
// before overwriting state. Callers hold p.mu.
func (p *Poller) applyLocked(severity, message string) {
	if severity == p.state.LastSeverity && message == p.state.LastMessage {
		pollsTotal.WithLabelValues("nochange").Inc()
		return
	}

	pollsTotal.WithLabelValues("change").Inc()
	transitionsTotal.WithLabelValues(severity).Inc()

	p.sink.OnAlertChange(severity, message)
	p.sink.OnNotify(notifyTitle(severity), message, severity)

	p.state.LastSeverity = severity
	p.state.LastMessage = message
}

// failLocked handles every failure mode — network error, non-200 status,
// undecodable body — with the offline alert. The emission is deduplicated
// against LastMessage only, but state is overwritten unconditionally: a
// genuine payload carrying the offline text after a real failure is
// therefore suppressed. That asymmetry is long-standing observed behavior
// and is kept as is. Callers hold p.mu.
func (p *Poller) failLocked(err error) {
	pollsTotal.WithLabelValues("failure").Inc()
	if err != nil {
		slog.Warn("poller: bridge unreachable", "endpoint", p.endpoint, "err", err)
	}

	if p.state.LastMessage != OfflineMessage {
		transitionsTotal.WithLabelValues(types.SeverityYellow).Inc()
		p.sink.OnAlertChange(types.SeverityYellow, OfflineMessage)
		p.sink.OnNotify(notifyTitle(types.SeverityYellow), OfflineMessage, types.SeverityYellow)
	}

	p.state.LastSeverity = types.SeverityYellow
	p.state.LastMessage = OfflineMessage
}

// notifyTitle renders the notification title for a severity, e.g.
// "RED  ALERT!". The double space is part of the display format.
func notifyTitle(severity string) string {
	return strings.ToUpper(severity) + "  ALERT!"
}
