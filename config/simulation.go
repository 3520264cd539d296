package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/wssim/core/generator"
)

// SimulationConfig drives the tick loop.
type SimulationConfig struct {
	Station string `json:"station"`
	Ticks   int    `json:"ticks"`
	// SecondsPerHour is the real-time delay per simulated hour. Zero runs
	// as fast as possible.
	SecondsPerHour  float64 `json:"seconds_per_hour"`
	Seed            int64   `json:"seed"`
	StartTime       string  `json:"start_time"`
	ManualElements  int     `json:"manual_elements"`
	ResetAfterEvent bool    `json:"reset_after_event"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.Station == "" {
		c.Station = "Station 1"
	}
	if c.Ticks == 0 {
		c.Ticks = 24
	}
}

// Validate checks mandatory fields.
func (c SimulationConfig) Validate() error {
	if c.Ticks < 0 {
		return fmt.Errorf("ticks must be >= 0")
	}
	if c.SecondsPerHour < 0 {
		return fmt.Errorf("seconds_per_hour must be >= 0")
	}
	if c.ManualElements < 0 {
		return fmt.Errorf("manual_elements must be >= 0")
	}
	if _, err := c.Start(); err != nil {
		return err
	}
	return nil
}

// Start parses StartTime. An empty value starts at midnight UTC today.
func (c SimulationConfig) Start() (time.Time, error) {
	if c.StartTime == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	t, err := time.Parse(time.RFC3339, c.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("start_time: %w", err)
	}
	return t, nil
}

// Pacing returns the real-time delay per tick.
func (c SimulationConfig) Pacing() time.Duration {
	return time.Duration(c.SecondsPerHour * float64(time.Second))
}

// GeneratorConfig selects the event generator.
type GeneratorConfig struct {
	Mode               string `json:"mode"`
	Scenario           string `json:"scenario"`
	MinIntervalSeconds int    `json:"min_interval_seconds"`
	MaxIntervalSeconds int    `json:"max_interval_seconds"`
}

// SetDefaults applies sane defaults.
func (c *GeneratorConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = generator.ModeHourly
	}
	if c.MinIntervalSeconds == 0 {
		c.MinIntervalSeconds = 20
	}
	if c.MaxIntervalSeconds == 0 {
		c.MaxIntervalSeconds = 40
	}
}

// Validate checks mandatory fields.
func (c GeneratorConfig) Validate() error {
	switch c.Mode {
	case generator.ModeHourly, generator.ModeWeighted:
	case generator.ModeScripted:
		if c.Scenario == "" {
			return fmt.Errorf("scripted mode requires a scenario")
		}
	default:
		return fmt.Errorf("unknown mode %s", c.Mode)
	}
	if c.MinIntervalSeconds < 0 || c.MaxIntervalSeconds < c.MinIntervalSeconds {
		return fmt.Errorf("interval bounds must satisfy 0 <= min <= max")
	}
	return nil
}

// EnvironmentConfig sets the ambient temperature. A non-zero amplitude adds
// a daily sine wave peaking at 15:00.
type EnvironmentConfig struct {
	AmbientTempC      float64 `json:"ambient_temp_c"`
	DiurnalAmplitudeC float64 `json:"diurnal_amplitude_c"`
}
