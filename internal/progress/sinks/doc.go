// Package sinks implements progress consumers: Prometheus collectors for
// run and per-channel fetch metrics, and a structured log sink for debugging.
package sinks
