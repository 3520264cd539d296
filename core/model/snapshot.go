package model

import "time"

// Snapshot is a flat, read-only projection of a station at one instant.
type Snapshot struct {
	RunID           string    `json:"run_id,omitempty"`
	SimTime         time.Time `json:"sim_time"`
	Workstation     string    `json:"workstation"`
	McuState        string    `json:"mcu_state"`
	SignalState     string    `json:"signal_state"`
	NetState        string    `json:"net_state"`
	NetPingMs       int       `json:"net_ping_ms"`
	NetRetries      int       `json:"net_retries"`
	AmbientTemp     float64   `json:"ambient_temp"`
	HealthState     string    `json:"battery_health_state"`
	BatteryStatus   string    `json:"battery_status"`
	BatteryPercent  int       `json:"battery_percent"`
	HealthPercent   float64   `json:"battery_health_percent"`
	EffectiveWh     float64   `json:"battery_effective_capacity_wh"`
	ThroughputWh    float64   `json:"battery_throughput_wh"`
	VoltageSag      bool      `json:"battery_voltage_sag"`
	FailUnderLoad   bool      `json:"battery_fail_under_load"`
	TempFactor      float64   `json:"battery_temp_factor"`
	EnergyDeltaWh   float64   `json:"battery_energy_delta_wh"`
	CapacityDeltaWh float64   `json:"battery_effective_capacity_delta_wh"`
	PowerOn         bool      `json:"power_on"`
	AirAlarm        bool      `json:"air_alarm"`
	PowerState      string    `json:"power_state"`
	ManualWorking   int       `json:"manual_working_count"`
	ManualTotal     int       `json:"manual_total_count"`
	AmpOutputW      float64   `json:"amp_output_power_watts"`
}

// Capture builds a snapshot of the station at its current simulated time.
func Capture(s *Station) Snapshot {
	b := s.Battery
	return Snapshot{
		SimTime:         s.SimTime,
		Workstation:     s.Name,
		McuState:        s.MCU.String(),
		SignalState:     s.Signal.String(),
		NetState:        s.Network.State.String(),
		NetPingMs:       s.Network.PingLatencyMs,
		NetRetries:      s.Network.Retries,
		AmbientTemp:     s.AmbientTempC,
		HealthState:     b.HealthState.String(),
		BatteryStatus:   b.Status.String(),
		BatteryPercent:  b.ChargePercent,
		HealthPercent:   b.HealthPercent(),
		EffectiveWh:     b.EffectiveCapacityWh,
		ThroughputWh:    b.ThroughputWh,
		VoltageSag:      b.Telemetry.VoltageSag,
		FailUnderLoad:   b.Telemetry.FailUnderLoad,
		TempFactor:      b.Telemetry.TempFactor,
		EnergyDeltaWh:   b.Telemetry.EnergyDeltaWh,
		CapacityDeltaWh: b.Telemetry.CapacityDeltaWh,
		PowerOn:         s.IsPowerOn,
		AirAlarm:        s.IsAirAlarmActive,
		PowerState:      s.PowerState().String(),
		ManualWorking:   s.WorkingManualElements(),
		ManualTotal:     len(s.ManualElements),
		AmpOutputW:      s.OutputPower(),
	}
}
