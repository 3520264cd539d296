// Package metrics defines the sinks that observe a simulation run. Every
// sink records per-tick snapshots; optional recorder interfaces receive
// generated events, physics transitions and the end-of-run summary.
// NewMetricsSink builds sinks from configuration and combines several into
// a MultiSink.
package metrics
