// Package ws is the WebSocket hub that streams dashboard snapshots to
// connected browser clients.
package ws
