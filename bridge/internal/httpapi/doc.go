// Package httpapi exposes the bridge's pull endpoints: /alerts for sensor
// alert evaluation and /network for link status. The dashboard polls these;
// the bridge never pushes.
package httpapi
