package sim

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/metrics"
)

// tally accumulates what a run needs for its summary.
type tally struct {
	charges       []float64
	events        map[string]int
	cutoffs       int
	failUnderLoad int
}

func newTally() *tally { return &tally{events: make(map[string]int)} }

func (t *tally) observe(tr events.Transition) {
	switch tr.Type {
	case events.BatteryCutoff:
		t.cutoffs++
	case events.FailUnderLoad:
		t.failUnderLoad++
	}
}

func (t *tally) fill(s *metrics.RunSummary) {
	s.Ticks = len(t.charges)
	s.Events = make(map[string]int, len(t.events))
	for k, v := range t.events {
		s.Events[k] = v
	}
	s.Cutoffs = t.cutoffs
	s.FailUnderLoad = t.failUnderLoad
	if len(t.charges) == 0 {
		return
	}
	s.MeanCharge, s.StdCharge = stat.MeanStdDev(t.charges, nil)
	if len(t.charges) == 1 {
		s.StdCharge = 0
	}
	s.MinCharge = floats.Min(t.charges)
}
