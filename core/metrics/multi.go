package metrics

import (
	"errors"
	"io"

	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/model"
)

// MultiSink fans records out to several sinks. Optional records are only
// forwarded to sinks implementing the matching recorder.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSnapshot forwards the snapshot to every sink and joins the errors.
func (m *MultiSink) RecordSnapshot(s model.Snapshot) error {
	var errs []error
	for _, sink := range m.Sinks {
		errs = append(errs, sink.RecordSnapshot(s))
	}
	return errors.Join(errs...)
}

// RecordEvent forwards generated events.
func (m *MultiSink) RecordEvent(ev events.Generated) error {
	var errs []error
	for _, sink := range m.Sinks {
		if rec, ok := sink.(EventRecorder); ok {
			errs = append(errs, rec.RecordEvent(ev))
		}
	}
	return errors.Join(errs...)
}

// RecordTransition forwards transitions.
func (m *MultiSink) RecordTransition(tr events.Transition) error {
	var errs []error
	for _, sink := range m.Sinks {
		if rec, ok := sink.(TransitionRecorder); ok {
			errs = append(errs, rec.RecordTransition(tr))
		}
	}
	return errors.Join(errs...)
}

// RecordSummary forwards the run summary.
func (m *MultiSink) RecordSummary(s RunSummary) error {
	var errs []error
	for _, sink := range m.Sinks {
		if rec, ok := sink.(SummaryRecorder); ok {
			errs = append(errs, rec.RecordSummary(s))
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink implementing io.Closer.
func (m *MultiSink) Close() error {
	var errs []error
	for _, sink := range m.Sinks {
		errs = append(errs, CloseSink(sink))
	}
	return errors.Join(errs...)
}

// CloseSink closes s when it holds resources.
func CloseSink(s MetricsSink) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
