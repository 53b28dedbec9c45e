package sensors

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges exposing the latest simulated readings on the bridge's /metrics
// endpoint. The dashboard scrapes these for its live sensor panel.
var (
	tempGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fieldbridge_sensor_temperature_celsius",
		Help: "Latest temperature reading in degrees Celsius",
	})
	gasGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fieldbridge_sensor_gas_ppm",
		Help: "Latest gas concentration reading in parts per million",
	})
	vibGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fieldbridge_sensor_vibration_g",
		Help: "Latest vibration reading in g",
	})
	alertResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldbridge_alert_responses_total",
		Help: "Alert responses served, labelled by severity (none = 204)",
	}, []string{"severity"})
)

// Record publishes a Reading to the sensor gauges and counts the alert
// outcome. severity is empty when the reading was nominal.
func Record(r Reading, severity string) {
	tempGauge.Set(r.Temperature)
	gasGauge.Set(r.GasPPM)
	vibGauge.Set(r.VibrationG)
	if severity == "" {
		severity = "none"
	}
	alertResponses.WithLabelValues(severity).Inc()
}
