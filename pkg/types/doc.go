// Package types defines the wire types shared by the bridge and the
// dashboard. These are the canonical representations of the alert and
// network-status payloads exchanged over HTTP between the two halves.
package types
