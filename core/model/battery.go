package model

// BatteryStatus is the operational status of the battery with respect to cutoff.
type BatteryStatus int

const (
	BatteryOk BatteryStatus = iota
	BatteryCutoff
)

// String returns a human-readable representation of the battery status.
func (s BatteryStatus) String() string {
	switch s {
	case BatteryOk:
		return "Ok"
	case BatteryCutoff:
		return "Cutoff"
	default:
		return "unknown"
	}
}

// HealthState describes the battery health derived from its effective capacity.
// FailUnderLoad is injected by the failure-symptom model and is not part of
// the threshold ladder.
type HealthState int

const (
	HealthOk HealthState = iota
	HealthDegraded
	HealthFail
	HealthFailUnderLoad
)

// String returns a human-readable representation of the health state.
func (h HealthState) String() string {
	switch h {
	case HealthOk:
		return "Ok"
	case HealthDegraded:
		return "Degraded"
	case HealthFail:
		return "Fail"
	case HealthFailUnderLoad:
		return "FailUnderLoad"
	default:
		return "unknown"
	}
}

// BatteryTelemetry accumulates what happened to the battery during the
// current tick. The simulation driver resets it at the start of every tick.
type BatteryTelemetry struct {
	VoltageSag      bool
	FailUnderLoad   bool
	TempFactor      float64
	EnergyDeltaWh   float64 // negative when discharging
	CapacityDeltaWh float64 // change of the effective capacity
}

// Battery models the backup battery of a workstation.
type Battery struct {
	ChargePercent       int
	Status              BatteryStatus
	HealthState         HealthState
	NominalCapacityWh   float64
	EffectiveCapacityWh float64
	ThroughputWh        float64
	Telemetry           BatteryTelemetry
}

// NewBattery returns a fully charged battery with no wear.
func NewBattery(nominalWh float64) Battery {
	return Battery{
		ChargePercent:       100,
		Status:              BatteryOk,
		HealthState:         HealthOk,
		NominalCapacityWh:   nominalWh,
		EffectiveCapacityWh: nominalWh,
		Telemetry:           BatteryTelemetry{TempFactor: 1},
	}
}

// HealthPercent returns the state of health in percent.
func (b Battery) HealthPercent() float64 {
	if b.NominalCapacityWh <= 0 {
		return 0
	}
	return b.EffectiveCapacityWh / b.NominalCapacityWh * 100
}

// Viable reports whether the battery can power the station.
func (b Battery) Viable() bool {
	return b.Status == BatteryOk &&
		b.HealthState != HealthFail &&
		b.HealthState != HealthFailUnderLoad &&
		b.ChargePercent > 0
}

// ResetTelemetry clears the per-tick telemetry.
func (b *Battery) ResetTelemetry() {
	b.Telemetry = BatteryTelemetry{TempFactor: 1}
}
