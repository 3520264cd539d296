package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/wssim/core/generator"
)

// Expected lists the checks of a scenario. Nil fields are not checked.
type Expected struct {
	Transitions  []string `yaml:"transitions,omitempty"`
	Cutoffs      *int     `yaml:"cutoffs,omitempty"`
	FinalCharge  *int     `yaml:"final_charge,omitempty"`
	MinCharge    *int     `yaml:"min_charge,omitempty"`
	FinalPowerOn *bool    `yaml:"final_power_on,omitempty"`
}

// Scenario is a scripted QA run of one station.
type Scenario struct {
	Name          string               `yaml:"name"`
	Description   string               `yaml:"description,omitempty"`
	Ticks         int                  `yaml:"ticks"`
	Seed          int64                `yaml:"seed"`
	AmbientTempC  float64              `yaml:"ambient_temp_c"`
	InitialCharge int                  `yaml:"initial_charge,omitempty"`
	Events        []generator.EventDef `yaml:"events"`
	Expected      Expected             `yaml:"expected"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Ticks <= 0 {
		return nil, fmt.Errorf("scenario %s: ticks must be > 0", sc.Name)
	}
	return &sc, nil
}

// Script converts the scenario events to a generator script.
func (sc *Scenario) Script() *generator.Scenario {
	return &generator.Scenario{Name: sc.Name, Description: sc.Description, Events: sc.Events}
}
