package config

import (
	"fmt"

	"github.com/kilianp07/wssim/core/physics"
)

// DefaultNominalCapacityWh is the stock battery size.
const DefaultNominalCapacityWh = 312.0

// BatteryConfig adds the nominal capacity to the physics parameters.
type BatteryConfig struct {
	NominalCapacityWh float64 `json:"nominal_capacity_wh"`
	physics.Config    `json:",squash"`
}

// DefaultBatteryConfig returns the stock battery.
func DefaultBatteryConfig() BatteryConfig {
	return BatteryConfig{NominalCapacityWh: DefaultNominalCapacityWh, Config: physics.DefaultConfig()}
}

// Validate checks the capacity and the physics parameters.
func (c BatteryConfig) Validate() error {
	if c.NominalCapacityWh <= 0 {
		return fmt.Errorf("nominal_capacity_wh must be > 0")
	}
	return c.Config.Validate()
}
