package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldwatch/fieldwatch/dashboard/internal/api"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/config"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/feed"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/notifier"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/poller"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/state"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/telemetry"
	"github.com/fieldwatch/fieldwatch/dashboard/internal/ws"
	"github.com/fieldwatch/fieldwatch/pkg/types"
)

// sink fans poller events out: transitions land in the feed and wake the
// WebSocket hub, notifications go to the webhook targets.
type sink struct {
	feed     *feed.Feed
	notifier *notifier.Notifier
	hub      *ws.Hub
}

func (s *sink) OnAlertChange(severity, message string) {
	slog.Info("alert state changed", "severity", severity, "message", message)
	s.feed.Append(severity, message)
	if s.hub != nil {
		s.hub.Wake()
	}
}

func (s *sink) OnNotify(title, body, severity string) {
	s.notifier.OnNotify(title, body, severity)
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	uiDir := flag.String("ui-dir", "", "serve the dashboard UI static files from this directory (e.g. ui/dist); leave empty to disable")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("fieldwatch-dashboard starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	d := cfg.Dashboard

	slog.Info("config loaded",
		"http_port", d.HTTPPort,
		"alerts_url", d.Bridge.AlertsURL,
		"poll_interval", d.PollInterval,
		"auth_mode", d.Auth.Mode,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Feed, webhook fan-out, and the poller that drives them. The poller
	// starts only after the hub is attached to the sink below.
	alertFeed := feed.New(d.FeedCapacity)
	notify := notifier.New(d.Webhooks)
	snk := &sink{feed: alertFeed, notifier: notify}
	p := poller.New(d.Bridge.AlertsURL, d.PollInterval, snk)

	// Dashboard state store fed by the telemetry scraper and network poll.
	st := state.New(d.StaleTTL)
	if d.Bridge.MetricsURL != "" {
		scraper := telemetry.New(d.Bridge.MetricsURL)
		go scraper.Run(ctx, d.ScrapeInterval, st.SetTelemetry)
	}
	if d.Bridge.NetworkURL != "" {
		go pollNetwork(ctx, d.Bridge.NetworkURL, d.ScrapeInterval, st)
	}

	// Hot reload: webhook target changes apply without a restart.
	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			notify.SetWebhooks(next.Dashboard.Webhooks)
		})
		if err != nil {
			slog.Error("config watch failed", "err", err)
		}
	}()

	deps := &api.Deps{Poller: p, Feed: alertFeed, State: st}

	// WebSocket hub — broadcasts snapshots to UI clients on the interval
	// and immediately on alert transitions.
	hub := ws.New(deps, d.BroadcastInterval)
	snk.hub = hub
	go hub.Run(ctx)
	go p.Run(ctx)

	// Combined HTTP server: REST API + WebSocket hub + metrics on HTTPPort.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.APIKeyMiddleware(d.Auth.Mode, d.Auth.Key(), api.New(deps)))
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/metrics", promhttp.Handler())

	// Optional: serve the pre-built UI from a local directory.
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *uiDir != "" {
		fs := http.FileServer(http.Dir(*uiDir))
		httpMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			// SPA fallback: if the requested file doesn't exist, serve index.html.
			path := *uiDir + r.URL.Path
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, *uiDir+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", d.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", d.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("fieldwatch-dashboard shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}

// pollNetwork fetches the bridge's link-status endpoint at the given
// interval and stores each reading. Failures leave the previous reading in
// place to age out via the staleness TTL.
func pollNetwork(ctx context.Context, url string, interval time.Duration, st *state.Store) {
	client := &http.Client{Timeout: 5 * time.Second}

	fetch := func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return
		}
		resp, err := client.Do(req)
		if err != nil {
			slog.Warn("network poll failed", "url", url, "err", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			slog.Warn("network poll failed", "url", url, "status", resp.StatusCode)
			return
		}
		var ns types.NetworkStatus
		if err := json.NewDecoder(resp.Body).Decode(&ns); err != nil {
			slog.Warn("network poll: bad payload", "url", url, "err", err)
			return
		}
		st.SetNetwork(ns)
	}

	fetch()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fetch()
		}
	}
}
