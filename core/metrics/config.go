package metrics

import "github.com/kilianp07/wssim/core/factory"

// Config defines the metrics sinks of a run.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// PrometheusAddr enables the /metrics endpoint when non-empty.
	PrometheusAddr string `json:"prometheus_addr" yaml:"prometheus_addr"`
}
