package physics

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/logger"
	"github.com/kilianp07/wssim/core/model"
)

// Config holds the battery passport and symptom parameters.
type Config struct {
	PassportCycles    float64 `json:"passport_cycles"`
	SoHEol            float64 `json:"soh_eol"`
	OptimalTempC      float64 `json:"optimal_temp_c"`
	TempSlope         float64 `json:"temp_slope"`
	MinTempFactor     float64 `json:"min_temp_factor"`
	RecoveryPercent   int     `json:"recovery_percent"`
	SagBelowPercent   int     `json:"sag_below_percent"`
	SagProbability    float64 `json:"sag_probability"`
	FailLoadWatts     float64 `json:"fail_load_watts"`
	FailBelowPercent  int     `json:"fail_below_percent"`
	FailProbability   float64 `json:"fail_probability"`
	HealthOkAbove     float64 `json:"health_ok_above"`
	HealthDegradedMin float64 `json:"health_degraded_above"`
	CapacityEpsilonWh float64 `json:"capacity_epsilon_wh"`
}

// DefaultConfig returns the stock passport: 500 full cycles to 80 % SoH.
func DefaultConfig() Config {
	return Config{
		PassportCycles:    500,
		SoHEol:            0.8,
		OptimalTempC:      25,
		TempSlope:         0.03,
		MinTempFactor:     0.3,
		RecoveryPercent:   5,
		SagBelowPercent:   20,
		SagProbability:    0.05,
		FailLoadWatts:     50,
		FailBelowPercent:  15,
		FailProbability:   0.02,
		HealthOkAbove:     70,
		HealthDegradedMin: 30,
		CapacityEpsilonWh: 0.05,
	}
}

// Validate checks the parameter ranges.
func (c Config) Validate() error {
	switch {
	case c.PassportCycles <= 0:
		return fmt.Errorf("passport_cycles must be > 0")
	case c.SoHEol <= 0 || c.SoHEol >= 1:
		return fmt.Errorf("soh_eol must be in (0,1)")
	case c.MinTempFactor <= 0 || c.MinTempFactor > 1:
		return fmt.Errorf("min_temp_factor must be in (0,1]")
	case c.RecoveryPercent < 0 || c.RecoveryPercent >= 100:
		return fmt.Errorf("recovery_percent must be in [0,100)")
	case c.HealthDegradedMin >= c.HealthOkAbove:
		return fmt.Errorf("health_degraded_above must be below health_ok_above")
	}
	return nil
}

// Result describes the outcome of one consume or charge call.
type Result struct {
	EnergyWh      float64
	DeltaPercent  int
	TempFactor    float64
	Skipped       bool
	Cutoff        bool
	Restored      bool
	VoltageSag    bool
	FailUnderLoad bool
}

// BatteryPhysics moves energy in and out of a station battery.
type BatteryPhysics struct {
	cfg Config
	rng *rand.Rand
	log logger.Logger
	act *Actuator
}

// NewBatteryPhysics returns a BatteryPhysics drawing symptoms from rng.
func NewBatteryPhysics(cfg Config, rng *rand.Rand, log logger.Logger, act *Actuator) *BatteryPhysics {
	if log == nil {
		log = logger.NopLogger{}
	}
	if act == nil {
		act = NewActuator(log, nil)
	}
	return &BatteryPhysics{cfg: cfg, rng: rng, log: log, act: act}
}

// Actuator returns the actuator used for station flag changes.
func (p *BatteryPhysics) Actuator() *Actuator { return p.act }

// TemperatureFactor returns the discharge efficiency at tempC.
func (p *BatteryPhysics) TemperatureFactor(tempC float64) float64 {
	if tempC >= p.cfg.OptimalTempC {
		return 1
	}
	return math.Max(p.cfg.MinTempFactor, 1-(p.cfg.OptimalTempC-tempC)*p.cfg.TempSlope)
}

// percentStep rounds a fractional percentage, never dropping a positive one.
func percentStep(pct float64) int {
	delta := int(math.Round(pct))
	if delta <= 0 && pct > 0 {
		delta = 1
	}
	return delta
}

// ConsumeEnergy discharges the battery by watts over d.
func (p *BatteryPhysics) ConsumeEnergy(st *model.Station, watts float64, d time.Duration, reason string) Result {
	b := &st.Battery
	if b.EffectiveCapacityWh <= 0 {
		p.log.Warnf("effective capacity exhausted, cannot supply %.1f W for %q", watts, reason)
		return Result{Skipped: true}
	}

	energyWh := watts * d.Hours()
	b.ThroughputWh += energyWh

	tf := p.TemperatureFactor(st.AmbientTempC)
	delta := percentStep(energyWh / (b.EffectiveCapacityWh * tf) * 100)

	old := b.ChargePercent
	b.ChargePercent = max(0, b.ChargePercent-delta)
	b.Telemetry.TempFactor = tf
	b.Telemetry.EnergyDeltaWh -= energyWh

	res := Result{EnergyWh: energyWh, DeltaPercent: old - b.ChargePercent, TempFactor: tf}
	p.log.Infof("battery consumed %d%% (%.1f Wh) for %q: %d%% -> %d%%",
		res.DeltaPercent, energyWh, reason, old, b.ChargePercent)
	p.act.emit(st, events.BatteryConsume, reason)

	res.VoltageSag, res.FailUnderLoad = p.ApplyFailureSymptoms(st, watts)

	// An empty battery always drops the mains flag, also when a restored grid
	// had switched it back on during cutoff.
	if b.ChargePercent == 0 {
		if b.Status != model.BatteryCutoff {
			b.Status = model.BatteryCutoff
			res.Cutoff = true
			p.log.Warnf("battery cutoff, station de-energised")
			p.act.emit(st, events.BatteryCutoff, "battery depleted")
		}
		if st.IsPowerOn {
			p.act.SetPower(st, false, "battery depleted")
		}
	}

	p.ApplyDegradation(st)
	return res
}

// ChargeBattery charges the battery with watts over d. Charging ignores the
// temperature factor.
func (p *BatteryPhysics) ChargeBattery(st *model.Station, watts float64, d time.Duration, reason string) Result {
	b := &st.Battery
	if b.ChargePercent >= 100 {
		p.log.Debugf("battery already full, skipping charge for %q", reason)
		return Result{Skipped: true, TempFactor: 1}
	}
	if b.EffectiveCapacityWh <= 0 {
		p.log.Warnf("effective capacity exhausted, cannot accept charge for %q", reason)
		return Result{Skipped: true, TempFactor: 1}
	}

	energyWh := watts * d.Hours()
	delta := percentStep(energyWh / b.EffectiveCapacityWh * 100)

	old := b.ChargePercent
	b.ChargePercent = min(100, b.ChargePercent+delta)
	b.ThroughputWh += energyWh
	b.Telemetry.EnergyDeltaWh += energyWh

	res := Result{EnergyWh: energyWh, DeltaPercent: b.ChargePercent - old, TempFactor: 1}
	p.log.Infof("battery charged %d%% (%.1f Wh) for %q: %d%% -> %d%%",
		res.DeltaPercent, energyWh, reason, old, b.ChargePercent)
	p.act.emit(st, events.BatteryCharge, reason)

	if b.Status == model.BatteryCutoff && b.ChargePercent > p.cfg.RecoveryPercent {
		b.Status = model.BatteryOk
		res.Restored = true
		p.act.emit(st, events.BatteryRestored, "battery partially recharged")
		if !st.IsPowerOn {
			p.act.SetPower(st, true, "battery partially recharged")
		}
	}

	if b.ChargePercent == 100 && b.HealthState == model.HealthFailUnderLoad {
		p.log.Infof("full charge clears FailUnderLoad")
		b.HealthState = model.HealthOk
	}

	p.ApplyDegradation(st)
	return res
}

// ApplyDegradation recomputes the effective capacity from the throughput
// and reapplies the health ladder. FailUnderLoad is left untouched.
func (p *BatteryPhysics) ApplyDegradation(st *model.Station) {
	b := &st.Battery
	if b.NominalCapacityWh <= 0 {
		return
	}
	used := b.ThroughputWh / (p.cfg.PassportCycles * b.NominalCapacityWh)
	curve := math.Min(1, 0.7*used+0.3*math.Sqrt(used))
	next := b.NominalCapacityWh * (1 - curve*(1-p.cfg.SoHEol))
	next = math.Max(0, math.Min(next, b.EffectiveCapacityWh))

	old := b.EffectiveCapacityWh
	b.EffectiveCapacityWh = next
	b.Telemetry.CapacityDeltaWh += next - old

	if b.HealthState != model.HealthFailUnderLoad {
		soh := b.HealthPercent()
		switch {
		case soh > p.cfg.HealthOkAbove:
			b.HealthState = model.HealthOk
		case soh > p.cfg.HealthDegradedMin:
			b.HealthState = model.HealthDegraded
		default:
			b.HealthState = model.HealthFail
		}
	}

	if math.Abs(old-next) > p.cfg.CapacityEpsilonWh {
		p.log.Infof("capacity degradation %.1f Wh -> %.1f Wh (SoH=%.1f%%, throughput=%.1f Wh)",
			old, next, b.HealthPercent(), b.ThroughputWh)
	}
}

// ApplyFailureSymptoms draws the voltage sag and fail-under-load symptoms
// for a discharge of watts.
func (p *BatteryPhysics) ApplyFailureSymptoms(st *model.Station, watts float64) (sag, failUnderLoad bool) {
	b := &st.Battery
	if b.ChargePercent < p.cfg.SagBelowPercent && p.rng.Float64() < p.cfg.SagProbability {
		sag = true
		b.Telemetry.VoltageSag = true
		p.log.Warnf("voltage sag: aged battery cannot hold the load")
	}
	if watts > p.cfg.FailLoadWatts && b.ChargePercent < p.cfg.FailBelowPercent && p.rng.Float64() < p.cfg.FailProbability {
		failUnderLoad = true
		b.Telemetry.FailUnderLoad = true
		b.HealthState = model.HealthFailUnderLoad
		p.log.Errorf("battery collapsed under load: FailUnderLoad")
		p.act.emit(st, events.FailUnderLoad, fmt.Sprintf("%.0f W draw at %d%%", watts, b.ChargePercent))
	}
	return sag, failUnderLoad
}
