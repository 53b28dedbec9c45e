// Package poller drives the dashboard's alert intake: it polls the bridge
// alert endpoint on a fixed interval, deduplicates consecutive identical
// payloads, synthesizes an offline alert when the bridge is unreachable,
// and forwards each transition to a Sink exactly once.
package poller
