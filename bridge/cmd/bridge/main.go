package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldwatch/fieldwatch/bridge/internal/config"
	"github.com/fieldwatch/fieldwatch/bridge/internal/httpapi"
	"github.com/fieldwatch/fieldwatch/bridge/internal/netprobe"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("fieldwatch-bridge starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Bridge.HTTPPort,
		"esp_endpoint", cfg.Bridge.ESPEndpoint,
		"seed", cfg.Bridge.Seed,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	seed := cfg.Bridge.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sensorRNG := rand.New(rand.NewSource(seed))
	probeRNG := rand.New(rand.NewSource(seed + 1))

	prober := netprobe.New(cfg.Bridge.ESPEndpoint, probeRNG)
	now := func() float64 { return float64(time.Now().UnixNano()) / float64(time.Second) }

	mux := http.NewServeMux()
	mux.Handle("/", httpapi.New(prober, sensorRNG, now))
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Bridge.HTTPPort),
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Bridge.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("fieldwatch-bridge shutting down")
	srv.Shutdown(context.Background()) //nolint:errcheck
}
