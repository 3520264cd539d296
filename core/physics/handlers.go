package physics

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/model"
)

// Handler applies the physics of one event kind.
type Handler interface {
	Kind() events.Kind
	Apply(st *model.Station, ev events.Event) error
}

// HandlerConfig holds the power draws used by the event handlers.
type HandlerConfig struct {
	StandbyWatts        float64       `json:"standby_watts"`
	AlarmWatts          float64       `json:"alarm_watts"`
	ChargeWatts         float64       `json:"charge_watts"`
	MinChargeHours      int           `json:"min_charge_hours"`
	MaxChargeHours      int           `json:"max_charge_hours"`
	MaxHoursProbability float64       `json:"max_hours_probability"`
	DefaultAlarm        time.Duration `json:"-"`
}

// DefaultHandlerConfig returns the stock handler parameters.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		StandbyWatts:        10,
		AlarmWatts:          150,
		ChargeWatts:         30,
		MinChargeHours:      1,
		MaxChargeHours:      6,
		MaxHoursProbability: 0.15,
		DefaultAlarm:        2 * time.Minute,
	}
}

// Validate checks the charge roll parameters.
func (c HandlerConfig) Validate() error {
	if c.MinChargeHours < 0 || c.MinChargeHours >= c.MaxChargeHours {
		return fmt.Errorf("min_charge_hours must be in [0, max_charge_hours)")
	}
	if c.MaxHoursProbability <= 0 || c.MaxHoursProbability >= 1 {
		return fmt.Errorf("max_hours_probability must be in (0,1)")
	}
	return nil
}

// AirAlarmHandler drives the amplifier at alarm power for the alarm duration.
type AirAlarmHandler struct {
	cfg     HandlerConfig
	battery *BatteryPhysics
}

// NewAirAlarmHandler returns an AirAlarmHandler.
func NewAirAlarmHandler(cfg HandlerConfig, battery *BatteryPhysics) *AirAlarmHandler {
	return &AirAlarmHandler{cfg: cfg, battery: battery}
}

// Kind implements Handler.
func (h *AirAlarmHandler) Kind() events.Kind { return events.KindAirAlarm }

// Apply implements Handler.
func (h *AirAlarmHandler) Apply(st *model.Station, ev events.Event) error {
	if ev.Kind != events.KindAirAlarm {
		return &TypeMismatchError{Handler: "air_alarm", Want: events.KindAirAlarm, Got: ev.Kind}
	}
	act := h.battery.Actuator()
	act.SetAlarm(st, true, ev.Name)
	h.battery.ConsumeEnergy(st, h.cfg.AlarmWatts, ev.Duration,
		fmt.Sprintf("air alarm (%.0f min)", ev.Duration.Minutes()))
	act.SetAlarm(st, false, "air alarm over")
	return nil
}

// OutageHandler models a mains outage: standby drain, nested alarms, then a
// recharge of random length once the mains return.
type OutageHandler struct {
	cfg     HandlerConfig
	battery *BatteryPhysics
	rng     *rand.Rand
}

// NewOutageHandler returns an OutageHandler drawing charge lengths from rng.
func NewOutageHandler(cfg HandlerConfig, battery *BatteryPhysics, rng *rand.Rand) *OutageHandler {
	return &OutageHandler{cfg: cfg, battery: battery, rng: rng}
}

// Kind implements Handler.
func (h *OutageHandler) Kind() events.Kind { return events.KindPowerOutage }

// Apply implements Handler.
func (h *OutageHandler) Apply(st *model.Station, ev events.Event) error {
	if ev.Kind != events.KindPowerOutage {
		return &TypeMismatchError{Handler: "power_outage", Want: events.KindPowerOutage, Got: ev.Kind}
	}
	act := h.battery.Actuator()
	act.SetPower(st, false, ev.Name)
	h.battery.ConsumeEnergy(st, h.cfg.StandbyWatts, ev.Duration,
		fmt.Sprintf("standby during outage (%.1f h)", ev.Duration.Hours()))

	for _, sub := range ev.SubEvents {
		if sub.Kind != events.KindAirAlarm {
			continue
		}
		d := sub.Duration
		if d == 0 {
			d = h.cfg.DefaultAlarm
		}
		act.SetAlarm(st, true, "air alarm during outage")
		h.battery.ConsumeEnergy(st, h.cfg.AlarmWatts, d,
			fmt.Sprintf("air alarm during outage (%.0f min)", d.Minutes()))
		act.SetAlarm(st, false, "air alarm during outage over")
	}

	act.SetPower(st, true, "mains restored")
	charge := h.RollChargeDuration()
	h.battery.ChargeBattery(st, h.cfg.ChargeWatts, charge,
		fmt.Sprintf("recharge after outage (%.0f h)", charge.Hours()))
	return nil
}

// RollChargeDuration draws a whole number of hours starting at the minimum
// and extending one hour at a time with a continuation probability chosen
// so the maximum is reached with MaxHoursProbability.
func (h *OutageHandler) RollChargeDuration() time.Duration {
	q := math.Pow(h.cfg.MaxHoursProbability, 1/float64(h.cfg.MaxChargeHours-h.cfg.MinChargeHours))
	hours := h.cfg.MinChargeHours
	for hours < h.cfg.MaxChargeHours && h.rng.Float64() < q {
		hours++
	}
	return time.Duration(hours) * time.Hour
}
