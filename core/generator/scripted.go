package generator

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/wssim/core/events"
)

// EventDef describes one scripted event.
type EventDef struct {
	Hour            int        `yaml:"hour"`
	Kind            string     `yaml:"kind"`
	DurationMinutes int        `yaml:"duration_minutes"`
	SubEvents       []EventDef `yaml:"sub_events,omitempty"`
}

// Scenario is a replayable list of events keyed by simulated hour.
type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Events      []EventDef `yaml:"events"`
}

// LoadScenario reads a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return nil, fmt.Errorf("scripted mode requires a scenario file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

// ParseScenario decodes a YAML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &sc, nil
}

// Scripted replays a scenario: hours without an entry yield no event.
type Scripted struct {
	byHour map[int]events.Event
	hour   int
}

// NewScripted converts the scenario definitions into events.
func NewScripted(sc *Scenario, opts events.Options) (*Scripted, error) {
	g := &Scripted{byHour: make(map[int]events.Event, len(sc.Events))}
	for _, def := range sc.Events {
		if def.Hour <= 0 {
			return nil, fmt.Errorf("scenario %s: hour must be >= 1", sc.Name)
		}
		if _, dup := g.byHour[def.Hour]; dup {
			return nil, fmt.Errorf("scenario %s: duplicate hour %d", sc.Name, def.Hour)
		}
		ev, err := def.toEvent(opts)
		if err != nil {
			return nil, fmt.Errorf("scenario %s hour %d: %w", sc.Name, def.Hour, err)
		}
		g.byHour[def.Hour] = ev
	}
	return g, nil
}

func (d EventDef) toEvent(opts events.Options) (events.Event, error) {
	k, err := events.ParseKind(d.Kind)
	if err != nil {
		return events.Event{}, err
	}
	dur := time.Duration(d.DurationMinutes) * time.Minute
	var sub []events.Event
	for _, s := range d.SubEvents {
		ev, err := s.toEvent(opts)
		if err != nil {
			return events.Event{}, err
		}
		sub = append(sub, ev)
	}
	switch k {
	case events.KindAirAlarm:
		if dur == 0 {
			dur = opts.AirAlarmDuration
		}
		ev := events.NewAirAlarm(dur)
		ev.SubEvents = sub
		return ev, nil
	default:
		if dur == 0 {
			dur = time.Duration(opts.OutageMinHours) * time.Hour
		}
		return events.NewPowerOutage(dur, sub...), nil
	}
}

// CurrentHour implements Generator.
func (g *Scripted) CurrentHour() int { return g.hour }

// Generate implements Generator.
func (g *Scripted) Generate() (events.Event, bool) {
	g.hour++
	ev, ok := g.byHour[g.hour]
	return ev, ok
}
