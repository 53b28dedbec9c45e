// Package api implements the dashboard's REST surface: alert state, the
// live feed, rescue recommendations, sensor telemetry, network status and
// the combined snapshot consumed by the UI and the WebSocket hub.
package api
