// Package state is the dashboard's in-memory snapshot of the field:
// latest telemetry, network status and the survivor-count override,
// each with staleness tracking.
package state
