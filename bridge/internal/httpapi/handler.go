package httpapi

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"

	"github.com/fieldwatch/fieldwatch/bridge/internal/netprobe"
	"github.com/fieldwatch/fieldwatch/bridge/internal/sensors"
)

// Handler serves the bridge's pull API. Every GET /alerts draws a fresh
// sensor sample, so the endpoint doubles as the simulation tick.
type Handler struct {
	prober *netprobe.Prober
	mux    *http.ServeMux
	now    func() float64 // unix seconds, injectable for tests

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Handler with its own sensor RNG and registers all routes.
func New(prober *netprobe.Prober, rng *rand.Rand, now func() float64) http.Handler {
	h := &Handler{prober: prober, rng: rng, now: now, mux: http.NewServeMux()}

	h.mux.HandleFunc("/alerts", h.alerts)
	h.mux.HandleFunc("/network", h.network)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// alerts serves GET /alerts — one fresh sensor evaluation per request.
// Nominal readings produce 204 No Content; exceedances produce a 200 with
// the alert payload.
func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	h.mu.Lock()
	reading := sensors.Simulate(h.rng)
	h.mu.Unlock()

	payload, ok := sensors.Evaluate(reading)
	if !ok {
		sensors.Record(reading, "")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	sensors.Record(reading, payload.Severity)

	payload.Timestamp = h.now()
	slog.Info("alert raised", "severity", payload.Severity, "message", payload.Message)
	jsonResp(w, http.StatusOK, payload)
}

// network serves GET /network — current link status, mocked when the ESP
// module is unreachable.
func (h *Handler) network(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.prober.Status(r.Context()))
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, struct {
		Error string `json:"error"`
	}{Error: msg})
}
