package events

import "time"

// TransitionType names a station state change.
type TransitionType string

const (
	PowerOff        TransitionType = "power_off"
	PowerOn         TransitionType = "power_on"
	AlarmOn         TransitionType = "alarm_on"
	AlarmOff        TransitionType = "alarm_off"
	BatteryCutoff   TransitionType = "battery_cutoff"
	BatteryRestored TransitionType = "battery_restored"
	BatteryConsume  TransitionType = "battery_consume"
	BatteryCharge   TransitionType = "battery_charge"
	FailUnderLoad   TransitionType = "fail_under_load"
)

// Transition is published whenever the physics changes a station flag or
// moves energy in or out of the battery.
type Transition struct {
	Station string         `json:"station"`
	Type    TransitionType `json:"type"`
	Reason  string         `json:"reason"`
	SimTime time.Time      `json:"sim_time"`
	Charge  int            `json:"charge_percent"`
}

// Generated is published when the generator draws an event.
type Generated struct {
	Station string
	Hour    int
	Event   Event
	SimTime time.Time
}
