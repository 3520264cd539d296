package model

import "time"

// PowerMode is the configured mode of the power system.
type PowerMode int

const (
	PowerModeOff PowerMode = iota
	PowerModeGridOnly
	PowerModeGridAndCharge
	PowerModeBattery
)

// String returns a human-readable representation of the power mode.
func (m PowerMode) String() string {
	switch m {
	case PowerModeOff:
		return "Off"
	case PowerModeGridOnly:
		return "GridOnly"
	case PowerModeGridAndCharge:
		return "GridAndCharge"
	case PowerModeBattery:
		return "Battery"
	default:
		return "unknown"
	}
}

// PowerState is the derived source currently feeding the station.
type PowerState int

const (
	PowerAC PowerState = iota
	PowerDC
	PowerNone
)

// String returns a human-readable representation of the power state.
func (p PowerState) String() string {
	switch p {
	case PowerAC:
		return "Ac"
	case PowerDC:
		return "Dc"
	case PowerNone:
		return "NoPower"
	default:
		return "unknown"
	}
}

// ComponentState is shared by the MCU, the input signal and manual elements.
type ComponentState int

const (
	ComponentOk ComponentState = iota
	ComponentFail
)

// String returns a human-readable representation of the component state.
func (c ComponentState) String() string {
	if c == ComponentFail {
		return "Fail"
	}
	return "Ok"
}

// NetState describes the network link of the station.
type NetState int

const (
	NetNormal NetState = iota
	NetHighLatency
	NetOffline
	NetControllerFailure
)

// String returns a human-readable representation of the network state.
func (n NetState) String() string {
	switch n {
	case NetNormal:
		return "Normal"
	case NetHighLatency:
		return "HighLatency"
	case NetOffline:
		return "Offline"
	case NetControllerFailure:
		return "ControllerFailure"
	default:
		return "unknown"
	}
}

// NetworkChannel selects the active uplink.
type NetworkChannel int

const (
	ChannelReserve NetworkChannel = iota
	ChannelMain
)

// AmplifierStatus is the operational status of the amplifier.
type AmplifierStatus int

const (
	AmplifierOff AmplifierStatus = iota
	AmplifierOn
	AmplifierFault
)

// PowerSystem holds the mains/backup supply parameters.
type PowerSystem struct {
	Mode          PowerMode
	MainVoltage   float64
	BackupVoltage float64
	FuseOk        bool
}

// NetworkInterface holds the uplink state.
type NetworkInterface struct {
	State         NetState
	ActiveChannel NetworkChannel
	PingLatencyMs int
	Retries       int
}

// Amplifier holds the audio amplifier state.
type Amplifier struct {
	Status             AmplifierStatus
	Broadcasting       bool
	LineCurrent        float64
	TemperatureCelsius float64
	LastErrorCode      int
}

// Storage holds the local storage usage.
type Storage struct {
	TotalSpaceMB int
	UsedSpaceMB  int
}

// UsedPercent returns the rounded share of used space.
func (s Storage) UsedPercent() int {
	if s.TotalSpaceMB <= 0 {
		return 0
	}
	return int(float64(s.UsedSpaceMB)*100/float64(s.TotalSpaceMB) + 0.5)
}

// ManualElement is a manually serviced element that scales amplifier output.
type ManualElement struct {
	State  ComponentState
	Health float64 // 0..1, informational
}

const (
	// DefaultMaxOutputPowerW is the nominal amplifier output.
	DefaultMaxOutputPowerW = 600.0
	// StandbyOutputPowerW is the output while no alarm is active.
	StandbyOutputPowerW = 30.0
	// MinGridVoltage is the lowest mains voltage considered usable.
	MinGridVoltage = 180.0
)

// Station is the full mutable state of a workstation.
type Station struct {
	Name             string
	SimTime          time.Time
	IsPowerOn        bool
	IsAirAlarmActive bool
	AmbientTempC     float64
	MaxOutputPowerW  float64

	Battery        Battery
	PowerSystem    PowerSystem
	Network        NetworkInterface
	Amplifier      Amplifier
	Storage        Storage
	MCU            ComponentState
	Signal         ComponentState
	ManualElements []ManualElement
}

// NewStation creates a powered station with a full battery and the given
// number of healthy manual elements.
func NewStation(name string, nominalWh float64, manualElements int) *Station {
	elems := make([]ManualElement, manualElements)
	for i := range elems {
		elems[i] = ManualElement{State: ComponentOk, Health: 1}
	}
	return &Station{
		Name:            name,
		IsPowerOn:       true,
		AmbientTempC:    20,
		MaxOutputPowerW: DefaultMaxOutputPowerW,
		Battery:         NewBattery(nominalWh),
		PowerSystem: PowerSystem{
			Mode:          PowerModeGridAndCharge,
			MainVoltage:   220,
			BackupVoltage: 12,
			FuseOk:        true,
		},
		Network:        NetworkInterface{State: NetNormal, ActiveChannel: ChannelMain},
		Storage:        Storage{TotalSpaceMB: 1024},
		ManualElements: elems,
	}
}

// WorkingManualElements returns the number of elements in the Ok state.
func (s *Station) WorkingManualElements() int {
	n := 0
	for _, e := range s.ManualElements {
		if e.State == ComponentOk {
			n++
		}
	}
	return n
}

// ManualElementsFactor returns the share of working manual elements, 1 when
// the station has none.
func (s *Station) ManualElementsFactor() float64 {
	if len(s.ManualElements) == 0 {
		return 1
	}
	return float64(s.WorkingManualElements()) / float64(len(s.ManualElements))
}

// GridAvailable reports whether mains power can feed the station.
func (s *Station) GridAvailable() bool {
	return s.IsPowerOn &&
		s.PowerSystem.Mode != PowerModeOff &&
		s.PowerSystem.MainVoltage > MinGridVoltage &&
		s.PowerSystem.FuseOk
}

// PowerState derives the active power source from grid and battery viability.
func (s *Station) PowerState() PowerState {
	if s.GridAvailable() {
		return PowerAC
	}
	if s.Battery.Viable() {
		return PowerDC
	}
	return PowerNone
}

// OutputPower returns the amplifier output in watts given the component states.
func (s *Station) OutputPower() float64 {
	if s.Signal == ComponentFail || s.MCU == ComponentFail {
		return 0
	}
	ps := s.PowerState()
	if ps == PowerNone {
		return 0
	}
	if ps == PowerDC && (s.Battery.Status == BatteryCutoff || s.Battery.HealthState == HealthFail) {
		return 0
	}

	batteryFactor := 1.0
	switch s.Battery.HealthState {
	case HealthDegraded:
		batteryFactor = s.Battery.HealthPercent() / 100
	case HealthFail:
		batteryFactor = 0
	}

	base := StandbyOutputPowerW
	if s.IsAirAlarmActive {
		base = s.MaxOutputPowerW
	}
	return base * s.ManualElementsFactor() * batteryFactor
}

// Status returns the station status as structured fields for logging.
func (s *Station) Status() map[string]any {
	return map[string]any{
		"power_on":        s.IsPowerOn,
		"air_alarm":       s.IsAirAlarmActive,
		"battery_percent": s.Battery.ChargePercent,
		"battery_soh":     s.Battery.HealthPercent(),
		"battery_status":  s.Battery.Status.String(),
		"battery_health":  s.Battery.HealthState.String(),
		"manual_working":  s.WorkingManualElements(),
		"manual_total":    len(s.ManualElements),
		"power_state":     s.PowerState().String(),
		"output_w":        s.OutputPower(),
	}
}
