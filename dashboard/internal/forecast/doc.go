// Package forecast provides scalar smoothing filters for noisy sensor
// telemetry: an exponential moving average and a one-dimensional Kalman
// filter.
package forecast
