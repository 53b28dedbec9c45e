package api

import (
	"encoding/json"
	"net/http"

	"github.com/fieldwatch/fieldwatch/dashboard/internal/poller"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/rescue"
	"github.com/fieldwatch/fieldwatch/pkg/types"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads dashboard state through Deps and returns JSON responses.
type Handler struct {
	deps *Deps
	mux  *http.ServeMux
}

// New creates a Handler wired to the given dependencies and registers all routes.
func New(deps *Deps) http.Handler {
	h := &Handler{deps: deps, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/alert", h.alert)
	h.mux.HandleFunc("/api/v1/feed", h.feed)
	h.mux.HandleFunc("/api/v1/rescue", h.rescue)
	h.mux.HandleFunc("/api/v1/network", h.network)
	h.mux.HandleFunc("/api/v1/sensors", h.sensors)
	h.mux.HandleFunc("/api/v1/snapshot", h.snapshot)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — overall dashboard health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	st := h.deps.Poller.State()
	sensors, sensorsFresh := h.deps.State.Telemetry()
	_, networkFresh := h.deps.State.Network()

	resp := HealthResponse{
		AlertSeverity:   st.LastSeverity,
		BridgeUptimePct: sensors.UptimePct,
		TelemetryFresh:  sensorsFresh,
		NetworkFresh:    networkFresh,
		FeedCount:       h.deps.Feed.Len(),
	}
	resp.Status = healthStatus(st, sensorsFresh)
	jsonResp(w, http.StatusOK, resp)
}

// alert returns GET /api/v1/alert — the current deduplicated alert state.
func (h *Handler) alert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	st := h.deps.Poller.State()
	jsonResp(w, http.StatusOK, AlertState{
		Severity: st.LastSeverity,
		Message:  st.LastMessage,
	})
}

// feed returns GET /api/v1/feed — recent alert transitions, newest first.
func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.deps.Feed.List())
}

// rescue serves /api/v1/rescue.
//
//	GET  ?count=<raw> — sanitize the raw count and return a recommendation
//	                    without touching the stored override.
//	POST {"count": <raw>} — sanitize and store the override.
func (h *Handler) rescue(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		survivors := h.deps.State.Survivors()
		if raw := r.URL.Query().Get("count"); raw != "" {
			survivors = rescue.SanitizeCount(raw)
		}
		jsonResp(w, http.StatusOK, RescueResponse{
			Survivors: survivors,
			Rescuers:  rescue.Recommend(survivors),
		})

	case http.MethodPost:
		var req rescueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonErr(w, http.StatusBadRequest, "invalid request body")
			return
		}
		survivors := rescue.SanitizeCount(string(req.Count))
		h.deps.State.SetSurvivors(survivors)
		jsonResp(w, http.StatusOK, RescueResponse{
			Survivors: survivors,
			Rescuers:  rescue.Recommend(survivors),
		})

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// network returns GET /api/v1/network — latest link status.
func (h *Handler) network(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	st, fresh := h.deps.State.Network()
	smoothed, _ := h.deps.State.SmoothedRSSI()
	jsonResp(w, http.StatusOK, NetworkResponse{
		NetworkStatus: st,
		RSSISmoothed:  smoothed,
		Fresh:         fresh,
	})
}

// sensors returns GET /api/v1/sensors — latest scraped telemetry.
func (h *Handler) sensors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap, fresh := h.deps.State.Telemetry()
	jsonResp(w, http.StatusOK, SensorsResponse{Snapshot: snap, Fresh: fresh})
}

// snapshot returns GET /api/v1/snapshot — the full dashboard state.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, BuildSnapshot(h.deps))
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// healthStatus maps alert state and telemetry freshness to a coarse status.
func healthStatus(st poller.State, telemetryFresh bool) string {
	switch {
	case st.LastSeverity == types.SeverityRed:
		return "critical"
	case st.LastMessage == poller.OfflineMessage || !telemetryFresh:
		return "degraded"
	case st.LastSeverity == types.SeverityYellow:
		return "degraded"
	default:
		return "ok"
	}
}
