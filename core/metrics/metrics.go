package metrics

import (
	"time"

	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/model"
)

// MetricsSink records the snapshot captured at the end of every tick.
type MetricsSink interface {
	RecordSnapshot(s model.Snapshot) error
}

// EventRecorder records events drawn by the generator.
type EventRecorder interface {
	RecordEvent(ev events.Generated) error
}

// TransitionRecorder records station transitions produced by the physics.
type TransitionRecorder interface {
	RecordTransition(tr events.Transition) error
}

// RunSummary aggregates a completed run.
type RunSummary struct {
	RunID         string
	Station       string
	Ticks         int
	Events        map[string]int
	Cutoffs       int
	// FailUnderLoad counts collapses under load, not ticks spent in the state.
	FailUnderLoad int
	MeanCharge    float64
	MinCharge     float64
	StdCharge     float64
	FinalHealth   float64
	Started       time.Time
	Finished      time.Time
	// Interrupted is set when the run stopped before its last tick.
	Interrupted   bool
}

// SummaryRecorder records the summary of a finished run.
type SummaryRecorder interface {
	RecordSummary(s RunSummary) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordSnapshot(model.Snapshot) error      { return nil }
func (NopSink) RecordEvent(events.Generated) error       { return nil }
func (NopSink) RecordTransition(events.Transition) error { return nil }
func (NopSink) RecordSummary(RunSummary) error           { return nil }
