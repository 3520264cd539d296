package events

import (
	"fmt"
	"math/rand"
	"time"
)

// Kind identifies an event variant.
type Kind int

const (
	KindAirAlarm Kind = iota + 1
	KindPowerOutage
)

// Kinds lists every known kind.
var Kinds = []Kind{KindAirAlarm, KindPowerOutage}

// String returns the configuration key of the kind.
func (k Kind) String() string {
	switch k {
	case KindAirAlarm:
		return "air_alarm"
	case KindPowerOutage:
		return "power_outage"
	default:
		return "unknown"
	}
}

// ParseKind converts a configuration key to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// Event is a single disruptive occurrence. It is immutable once built.
type Event struct {
	Kind      Kind
	Name      string
	Duration  time.Duration
	SubEvents []Event
}

// Options controls how events are built.
type Options struct {
	AirAlarmDuration   time.Duration
	OutageMinHours     int
	OutageMaxHours     int
	AlarmOverlapChance float64
}

// DefaultOptions returns the stock event parameters.
func DefaultOptions() Options {
	return Options{
		AirAlarmDuration:   2 * time.Minute,
		OutageMinHours:     3,
		OutageMaxHours:     7,
		AlarmOverlapChance: 0.15,
	}
}

// Factory builds events of a given kind, drawing any randomness from rng.
type Factory struct {
	opts Options
	rng  *rand.Rand
}

// NewFactory returns a Factory using opts and rng.
func NewFactory(opts Options, rng *rand.Rand) *Factory {
	return &Factory{opts: opts, rng: rng}
}

// Supports reports whether New can build events of kind k.
func (f *Factory) Supports(k Kind) bool {
	return k == KindAirAlarm || k == KindPowerOutage
}

// New builds an event of kind k.
func (f *Factory) New(k Kind) (Event, error) {
	switch k {
	case KindAirAlarm:
		return NewAirAlarm(f.opts.AirAlarmDuration), nil
	case KindPowerOutage:
		return f.newOutage(), nil
	default:
		return Event{}, fmt.Errorf("cannot build event of kind %d", int(k))
	}
}

// NewAirAlarm returns an air alarm lasting d.
func NewAirAlarm(d time.Duration) Event {
	return Event{Kind: KindAirAlarm, Name: "Air alarm", Duration: d}
}

// NewPowerOutage returns an outage lasting d with the given nested events.
func NewPowerOutage(d time.Duration, sub ...Event) Event {
	return Event{Kind: KindPowerOutage, Name: "Power outage", Duration: d, SubEvents: sub}
}

func (f *Factory) newOutage() Event {
	hours := f.opts.OutageMinHours
	if span := f.opts.OutageMaxHours - f.opts.OutageMinHours; span > 0 {
		hours += f.rng.Intn(span + 1)
	}
	var sub []Event
	if f.rng.Float64() < f.opts.AlarmOverlapChance {
		sub = append(sub, NewAirAlarm(f.opts.AirAlarmDuration))
	}
	return NewPowerOutage(time.Duration(hours)*time.Hour, sub...)
}
