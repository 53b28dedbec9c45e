package types

// Severity values used on the alert wire. The bridge only ever emits red or
// yellow; green is reserved for an explicit all-clear from a future source.
const (
	SeverityRed    = "red"
	SeverityYellow = "yellow"
	SeverityGreen  = "green"
)

// AlertPayload is the JSON body of a 200 response from the bridge's /alerts
// endpoint. A 204 response carries no payload at all.
type AlertPayload struct {
	Severity  string  `json:"severity"`
	Message   string  `json:"message"`
	Timestamp float64 `json:"timestamp,omitempty"`
}

// NetworkStatus is the JSON body of the bridge's /network endpoint.
// RSSI is in dBm; Quality is an approximate 0–100 percentage derived from it.
type NetworkStatus struct {
	RSSI      int   `json:"rssi"`
	Quality   int   `json:"quality"`
	Timestamp int64 `json:"timestamp"`
}
