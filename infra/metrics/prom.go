package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/wssim/core/events"
	coremetrics "github.com/kilianp07/wssim/core/metrics"
	"github.com/kilianp07/wssim/core/model"
)

var powerStates = []string{model.PowerAC.String(), model.PowerDC.String(), model.PowerNone.String()}

// PromSink exposes station state and run counters as Prometheus metrics.
type PromSink struct {
	charge      *prometheus.GaugeVec
	health      *prometheus.GaugeVec
	effective   *prometheus.GaugeVec
	throughput  *prometheus.GaugeVec
	output      *prometheus.GaugeVec
	powerState  *prometheus.GaugeVec
	ticks       *prometheus.CounterVec
	events      *prometheus.CounterVec
	transitions *prometheus.CounterVec
	meanCharge  *prometheus.GaugeVec
}

// NewPromSink registers the simulator metrics on the default registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on reg. A nil registerer
// defaults to the global one. Metrics already registered are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gauge := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "wssim", Name: name, Help: help}, labels)
	}
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wssim", Name: name, Help: help}, labels)
	}

	s := &PromSink{}
	var err error
	if s.charge, err = register(reg, gauge("battery_charge_percent", "Battery state of charge", "station")); err != nil {
		return nil, err
	}
	if s.health, err = register(reg, gauge("battery_health_percent", "Battery state of health", "station")); err != nil {
		return nil, err
	}
	if s.effective, err = register(reg, gauge("battery_effective_capacity_wh", "Effective battery capacity", "station")); err != nil {
		return nil, err
	}
	if s.throughput, err = register(reg, gauge("battery_throughput_wh", "Cumulative energy moved through the battery", "station")); err != nil {
		return nil, err
	}
	if s.output, err = register(reg, gauge("amp_output_watts", "Amplifier output power", "station")); err != nil {
		return nil, err
	}
	if s.powerState, err = register(reg, gauge("power_state", "Active power source (1 for the current state)", "station", "state")); err != nil {
		return nil, err
	}
	if s.ticks, err = register(reg, counter("ticks_total", "Simulated hours", "station")); err != nil {
		return nil, err
	}
	if s.events, err = register(reg, counter("events_total", "Generated events by kind", "station", "kind")); err != nil {
		return nil, err
	}
	if s.transitions, err = register(reg, counter("transitions_total", "Station transitions by type", "station", "type")); err != nil {
		return nil, err
	}
	if s.meanCharge, err = register(reg, gauge("run_mean_charge_percent", "Mean state of charge of the last finished run", "station")); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSnapshot updates the station gauges.
func (s *PromSink) RecordSnapshot(snap model.Snapshot) error {
	st := snap.Workstation
	s.charge.WithLabelValues(st).Set(float64(snap.BatteryPercent))
	s.health.WithLabelValues(st).Set(snap.HealthPercent)
	s.effective.WithLabelValues(st).Set(snap.EffectiveWh)
	s.throughput.WithLabelValues(st).Set(snap.ThroughputWh)
	s.output.WithLabelValues(st).Set(snap.AmpOutputW)
	for _, ps := range powerStates {
		v := 0.0
		if ps == snap.PowerState {
			v = 1
		}
		s.powerState.WithLabelValues(st, ps).Set(v)
	}
	s.ticks.WithLabelValues(st).Inc()
	return nil
}

// RecordEvent counts generated events.
func (s *PromSink) RecordEvent(ev events.Generated) error {
	s.events.WithLabelValues(ev.Station, ev.Event.Kind.String()).Inc()
	return nil
}

// RecordTransition counts transitions.
func (s *PromSink) RecordTransition(tr events.Transition) error {
	s.transitions.WithLabelValues(tr.Station, string(tr.Type)).Inc()
	return nil
}

// RecordSummary publishes the mean charge of the run.
func (s *PromSink) RecordSummary(sum coremetrics.RunSummary) error {
	s.meanCharge.WithLabelValues(sum.Station).Set(sum.MeanCharge)
	return nil
}
