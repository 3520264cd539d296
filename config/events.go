package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/wssim/core/events"
)

// EventsConfig holds the occurrence rates and event parameters.
type EventsConfig struct {
	// Rates maps kind keys ("air_alarm", "power_outage") to events per day.
	Rates              map[string]float64 `json:"rates"`
	AirAlarmMinutes    float64            `json:"air_alarm_minutes"`
	OutageMinHours     int                `json:"outage_min_hours"`
	OutageMaxHours     int                `json:"outage_max_hours"`
	AlarmOverlapChance float64            `json:"alarm_overlap_chance"`
}

// DefaultEventsConfig mirrors events.DefaultOptions.
func DefaultEventsConfig() EventsConfig {
	o := events.DefaultOptions()
	return EventsConfig{
		AirAlarmMinutes:    o.AirAlarmDuration.Minutes(),
		OutageMinHours:     o.OutageMinHours,
		OutageMaxHours:     o.OutageMaxHours,
		AlarmOverlapChance: o.AlarmOverlapChance,
	}
}

// Validate checks the rates and the event parameters.
func (c EventsConfig) Validate() error {
	rates, err := c.KindRates()
	if err != nil {
		return err
	}
	for _, k := range events.Kinds {
		if _, err := events.RateFor(rates, k); err != nil {
			return err
		}
	}
	if c.AirAlarmMinutes <= 0 {
		return fmt.Errorf("air_alarm_minutes must be > 0")
	}
	if c.OutageMinHours <= 0 || c.OutageMaxHours < c.OutageMinHours {
		return fmt.Errorf("outage hours must satisfy 0 < min <= max")
	}
	if c.AlarmOverlapChance < 0 || c.AlarmOverlapChance > 1 {
		return fmt.Errorf("alarm_overlap_chance must be in [0,1]")
	}
	return nil
}

// KindRates merges the configured rates over events.DefaultRates.
func (c EventsConfig) KindRates() (map[events.Kind]float64, error) {
	return events.Rates(c.Rates)
}

// AirAlarmDuration converts AirAlarmMinutes.
func (c EventsConfig) AirAlarmDuration() time.Duration {
	return time.Duration(c.AirAlarmMinutes * float64(time.Minute))
}

// Options converts the section to events.Options.
func (c EventsConfig) Options() events.Options {
	return events.Options{
		AirAlarmDuration:   c.AirAlarmDuration(),
		OutageMinHours:     c.OutageMinHours,
		OutageMaxHours:     c.OutageMaxHours,
		AlarmOverlapChance: c.AlarmOverlapChance,
	}
}
