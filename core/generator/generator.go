// Package generator draws simulation events once per simulated hour.
//
// Three modes are available:
//   - Hourly: each kind fires independently with p = 1 - exp(-λ/24), tested
//     in a fixed priority order; the first success wins, otherwise no event.
//   - Weighted: rates are relative weights and exactly one event is drawn per
//     call.
//   - Scripted: events are replayed from a YAML scenario.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kilianp07/wssim/core/events"
)

// Generator produces at most one event per tick.
type Generator interface {
	// Generate advances the generator by one simulated hour and returns the
	// drawn event, if any.
	Generate() (events.Event, bool)
	// CurrentHour returns the number of hours generated so far.
	CurrentHour() int
}

// IntervalRoller is implemented by generators that pick their own real-time
// wait before the next draw.
type IntervalRoller interface {
	RollNextInterval() time.Duration
}

const (
	ModeHourly   = "hourly"
	ModeWeighted = "weighted"
	ModeScripted = "scripted"
)

// PriorityOrder is the order in which the hourly generator tests kinds.
var PriorityOrder = []events.Kind{events.KindPowerOutage, events.KindAirAlarm}

// Options selects and parameterises a generator.
type Options struct {
	Mode     string
	Rates    map[events.Kind]float64
	Events   events.Options
	Scenario string
	// Script replaces Scenario with an already parsed scenario.
	Script *Scenario
	// MinInterval and MaxInterval bound RollNextInterval in weighted mode.
	// Zero keeps the defaults.
	MinInterval time.Duration
	MaxInterval time.Duration
}

// New builds the generator for opts.Mode seeded by rng.
func New(opts Options, rng *rand.Rand) (Generator, error) {
	factory := events.NewFactory(opts.Events, rng)
	switch opts.Mode {
	case ModeHourly, "":
		return NewHourly(opts.Rates, PriorityOrder, factory, rng)
	case ModeWeighted:
		g, err := NewWeighted(opts.Rates, events.Kinds, factory, rng)
		if err != nil {
			return nil, err
		}
		if opts.MinInterval > 0 {
			g.MinInterval = opts.MinInterval
		}
		if opts.MaxInterval > 0 {
			g.MaxInterval = opts.MaxInterval
		}
		return g, nil
	case ModeScripted:
		sc := opts.Script
		if sc == nil {
			var err error
			if sc, err = LoadScenario(opts.Scenario); err != nil {
				return nil, err
			}
		}
		return NewScripted(sc, opts.Events)
	default:
		return nil, fmt.Errorf("unknown generator mode %s", opts.Mode)
	}
}
