package httpapi

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldwatch/fieldwatch/bridge/internal/netprobe"
	"github.com/fieldwatch/fieldwatch/pkg/types"
)

func newTestHandler(seed int64) http.Handler {
	rng := rand.New(rand.NewSource(seed))
	prober := netprobe.New("", rand.New(rand.NewSource(seed)))
	return New(prober, rng, func() float64 { return 1750000000.5 })
}

func TestAlertsMethodNotAllowed(t *testing.T) {
	h := newTestHandler(1)
	req := httptest.NewRequest(http.MethodPost, "/alerts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body not JSON: %v", err)
	}
	if body.Error == "" {
		t.Fatal("expected error message in body")
	}
}

// TestAlertsResponses drives enough requests through the simulator to see
// both outcomes: 204 for nominal readings and 200 with a valid payload for
// exceedances.
func TestAlertsResponses(t *testing.T) {
	h := newTestHandler(42)

	var saw200, saw204 bool
	for i := 0; i < 500 && !(saw200 && saw204); i++ {
		req := httptest.NewRequest(http.MethodGet, "/alerts", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		switch rec.Code {
		case http.StatusNoContent:
			saw204 = true
			if rec.Body.Len() != 0 {
				t.Fatalf("204 response has body: %q", rec.Body.String())
			}
		case http.StatusOK:
			saw200 = true
			var p types.AlertPayload
			if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
				t.Fatalf("200 body not an alert payload: %v", err)
			}
			if p.Severity != types.SeverityRed && p.Severity != types.SeverityYellow {
				t.Fatalf("unexpected severity %q", p.Severity)
			}
			if p.Message == "" {
				t.Fatal("empty alert message")
			}
			if p.Timestamp != 1750000000.5 {
				t.Fatalf("timestamp = %v, want injected clock value", p.Timestamp)
			}
		default:
			t.Fatalf("unexpected status %d", rec.Code)
		}
	}
	if !saw200 || !saw204 {
		t.Fatalf("did not observe both outcomes: 200=%v 204=%v", saw200, saw204)
	}
}

func TestNetwork(t *testing.T) {
	h := newTestHandler(7)
	req := httptest.NewRequest(http.MethodGet, "/network", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var st types.NetworkStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("body not a network status: %v", err)
	}
	if st.RSSI < -86 || st.RSSI > -54 {
		t.Fatalf("mock rssi %d out of range", st.RSSI)
	}
}
