// Package telemetry scrapes the bridge's Prometheus exposition endpoint
// and reduces it to the sensor readings shown on the dashboard.
package telemetry
