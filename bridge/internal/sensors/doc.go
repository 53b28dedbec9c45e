// Package sensors simulates the field sensor array (temperature, gas,
// vibration) and classifies readings against critical thresholds. The
// distribution is deliberately biased toward threshold exceedances so the
// alert pipeline stays busy during exercises. Latest readings are exported
// as Prometheus gauges for the dashboard's telemetry scraper.
package sensors
