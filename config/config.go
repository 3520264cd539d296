package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/wssim/core/metrics"
	"github.com/kilianp07/wssim/core/physics"
	"github.com/kilianp07/wssim/core/snapshot"
	"github.com/kilianp07/wssim/infra/mqtt"
)

// Config is the full configuration of a simulation run.
type Config struct {
	Simulation  SimulationConfig      `json:"simulation"`
	Generator   GeneratorConfig       `json:"generator"`
	Events      EventsConfig          `json:"events"`
	Battery     BatteryConfig         `json:"battery"`
	Handlers    physics.HandlerConfig `json:"handlers"`
	Environment EnvironmentConfig     `json:"environment"`
	Logging     LoggingConfig         `json:"logging"`
	Snapshots   snapshot.Config       `json:"snapshots"`
	Metrics     metrics.Config        `json:"metrics"`
	MQTT        mqtt.Config           `json:"mqtt"`
	Sentry      SentryConfig          `json:"sentry"`
}

// Default returns a configuration that runs one simulated day without any
// external sink.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{
			Station:        "Station 1",
			Ticks:          24,
			Seed:           1,
			ManualElements: 8,
		},
		Generator:   GeneratorConfig{Mode: "hourly"},
		Events:      DefaultEventsConfig(),
		Battery:     DefaultBatteryConfig(),
		Handlers:    physics.DefaultHandlerConfig(),
		Environment: EnvironmentConfig{AmbientTempC: 20},
		Logging:     LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads path on top of Default, applies K_ environment overrides and
// validates the result. K_SIMULATION__TICKS=48 overrides simulation.ticks.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// K_SIMULATION__TICKS -> simulation.ticks; single underscores stay inside keys.
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills derived and optional fields of every section.
func (c *Config) SetDefaults() {
	c.Simulation.SetDefaults()
	c.Generator.SetDefaults()
	c.Logging.SetDefaults()
	c.Handlers.DefaultAlarm = c.Events.AirAlarmDuration()
	if c.MQTT.Broker != "" {
		c.MQTT.SetDefaults()
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"simulation", c.Simulation.Validate},
		{"generator", c.Generator.Validate},
		{"events", c.Events.Validate},
		{"battery", c.Battery.Validate},
		{"handlers", c.Handlers.Validate},
		{"logging", c.Logging.Validate},
	}
	for _, ch := range checks {
		if err := ch.fn(); err != nil {
			return fmt.Errorf("%s: %w", ch.name, err)
		}
	}
	if c.MQTT.Broker != "" {
		if err := c.MQTT.Validate(); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	return nil
}
