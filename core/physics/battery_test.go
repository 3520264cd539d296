package physics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/model"
)

func newPhysics(t *testing.T, cfg Config, seed int64) (*BatteryPhysics, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	return NewBatteryPhysics(cfg, rand.New(rand.NewSource(seed)), nil, NewActuator(nil, rec)), rec
}

func newStation(nominalWh float64) *model.Station {
	st := model.NewStation("test", nominalWh, 8)
	st.AmbientTempC = 25
	return st
}

func TestConsumeAlarmFromFull(t *testing.T) {
	p, _ := newPhysics(t, DefaultConfig(), 1)
	st := newStation(312)

	res := p.ConsumeEnergy(st, 150, 2*time.Minute, "alarm")

	assert.Equal(t, 98, st.Battery.ChargePercent)
	assert.Equal(t, 2, res.DeltaPercent)
	assert.InDelta(t, 5.0, res.EnergyWh, 1e-9)
	assert.InDelta(t, 5.0, st.Battery.ThroughputWh, 1e-9)
	assert.Equal(t, 1.0, res.TempFactor)
	assert.Less(t, st.Battery.EffectiveCapacityWh, 312.0)
	assert.InDelta(t, -5.0, st.Battery.Telemetry.EnergyDeltaWh, 1e-9)
}

func TestConsumeNeverDropsPositiveDelta(t *testing.T) {
	p, _ := newPhysics(t, DefaultConfig(), 1)
	st := newStation(312)
	p.ConsumeEnergy(st, 1, time.Minute, "tiny")
	assert.Equal(t, 99, st.Battery.ChargePercent)
}

func TestConsumeToCutoff(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SagProbability = 0
	cfg.FailProbability = 0
	p, rec := newPhysics(t, cfg, 1)
	st := newStation(312)
	st.Battery.ChargePercent = 1

	res := p.ConsumeEnergy(st, 150, 10*time.Minute, "alarm")

	assert.Equal(t, 0, st.Battery.ChargePercent)
	assert.Equal(t, model.BatteryCutoff, st.Battery.Status)
	assert.False(t, st.IsPowerOn)
	assert.True(t, res.Cutoff)
	assert.Equal(t, []events.TransitionType{events.BatteryConsume, events.BatteryCutoff, events.PowerOff}, rec.Types())
	assert.Equal(t, model.PowerNone, st.PowerState())
	assert.Zero(t, st.OutputPower())

	// A second depletion does not repeat the cutoff transitions.
	p.ConsumeEnergy(st, 150, 10*time.Minute, "alarm")
	assert.Len(t, rec.Transitions, 4)
}

func TestDischargeInCutoffDropsRestoredMains(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SagProbability = 0
	cfg.FailProbability = 0
	p, rec := newPhysics(t, cfg, 1)
	st := newStation(312)
	st.Battery.ChargePercent = 0
	st.Battery.Status = model.BatteryCutoff
	st.IsPowerOn = true

	res := p.ConsumeEnergy(st, 150, 2*time.Minute, "alarm")

	assert.Equal(t, 0, st.Battery.ChargePercent)
	assert.Equal(t, model.BatteryCutoff, st.Battery.Status)
	assert.False(t, st.IsPowerOn)
	assert.False(t, res.Cutoff)
	assert.Equal(t, []events.TransitionType{events.BatteryConsume, events.PowerOff}, rec.Types())
}

func TestChargeRecoveryHysteresis(t *testing.T) {
	cases := []struct {
		name      string
		watts     float64
		want      int
		status    model.BatteryStatus
		poweredOn bool
	}{
		{"to six", 6, 6, model.BatteryOk, true},
		{"to five", 5, 5, model.BatteryCutoff, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newPhysics(t, DefaultConfig(), 1)
			st := newStation(100)
			st.Battery.ChargePercent = 0
			st.Battery.Status = model.BatteryCutoff
			st.IsPowerOn = false

			res := p.ChargeBattery(st, tc.watts, time.Hour, "recharge")

			assert.Equal(t, tc.want, st.Battery.ChargePercent)
			assert.Equal(t, tc.status, st.Battery.Status)
			assert.Equal(t, tc.poweredOn, st.IsPowerOn)
			assert.Equal(t, tc.poweredOn, res.Restored)
		})
	}
}

func TestChargeAtFullIsNoop(t *testing.T) {
	p, rec := newPhysics(t, DefaultConfig(), 1)
	st := newStation(312)
	before := st.Battery

	res := p.ChargeBattery(st, 30, 3*time.Hour, "recharge")

	assert.True(t, res.Skipped)
	assert.Equal(t, before, st.Battery)
	assert.Empty(t, rec.Transitions)
}

func TestExhaustedCapacitySkips(t *testing.T) {
	p, _ := newPhysics(t, DefaultConfig(), 1)
	st := newStation(312)
	st.Battery.EffectiveCapacityWh = 0
	st.Battery.ChargePercent = 50

	assert.True(t, p.ConsumeEnergy(st, 150, time.Hour, "alarm").Skipped)
	assert.True(t, p.ChargeBattery(st, 30, time.Hour, "charge").Skipped)
	assert.Equal(t, 50, st.Battery.ChargePercent)
	assert.Zero(t, st.Battery.ThroughputWh)
}

func TestTemperatureFactor(t *testing.T) {
	p, _ := newPhysics(t, DefaultConfig(), 1)
	assert.Equal(t, 1.0, p.TemperatureFactor(30))
	assert.Equal(t, 1.0, p.TemperatureFactor(25))
	assert.InDelta(t, 0.7, p.TemperatureFactor(15), 1e-9)
	assert.InDelta(t, 0.3, p.TemperatureFactor(-40), 1e-9)
}

func TestColdIncreasesDrain(t *testing.T) {
	p, _ := newPhysics(t, DefaultConfig(), 1)
	warm := newStation(312)
	cold := newStation(312)
	cold.AmbientTempC = 5

	p.ConsumeEnergy(warm, 10, 5*time.Hour, "standby")
	p.ConsumeEnergy(cold, 10, 5*time.Hour, "standby")

	assert.Less(t, cold.Battery.ChargePercent, warm.Battery.ChargePercent)
	assert.InDelta(t, 0.4, cold.Battery.Telemetry.TempFactor, 1e-9)
}

func TestDegradationEndOfLife(t *testing.T) {
	p, _ := newPhysics(t, DefaultConfig(), 1)
	st := newStation(100)
	st.Battery.ThroughputWh = 500 * 100

	p.ApplyDegradation(st)

	assert.InDelta(t, 80, st.Battery.EffectiveCapacityWh, 1e-9)
	assert.Equal(t, model.HealthOk, st.Battery.HealthState)
	assert.InDelta(t, -20, st.Battery.Telemetry.CapacityDeltaWh, 1e-9)
}

func TestDegradationLadder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SoHEol = 0.5
	p, _ := newPhysics(t, cfg, 1)
	st := newStation(100)
	st.Battery.ThroughputWh = 500 * 100
	p.ApplyDegradation(st)
	assert.Equal(t, model.HealthDegraded, st.Battery.HealthState)

	cfg.SoHEol = 0.2
	p, _ = newPhysics(t, cfg, 1)
	st = newStation(100)
	st.Battery.ThroughputWh = 500 * 100
	p.ApplyDegradation(st)
	assert.Equal(t, model.HealthFail, st.Battery.HealthState)
	assert.False(t, st.Battery.Viable())
}

func TestFailUnderLoadIsSticky(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SagProbability = 1
	cfg.FailProbability = 1
	p, rec := newPhysics(t, cfg, 1)
	st := newStation(312)
	st.Battery.ChargePercent = 10

	res := p.ConsumeEnergy(st, 150, 2*time.Minute, "alarm")

	assert.True(t, res.VoltageSag)
	assert.True(t, res.FailUnderLoad)
	assert.True(t, st.Battery.Telemetry.VoltageSag)
	assert.Equal(t, model.HealthFailUnderLoad, st.Battery.HealthState)
	assert.Contains(t, rec.Types(), events.FailUnderLoad)
	assert.False(t, st.Battery.Viable())

	// Degradation does not overwrite the symptom state.
	p.ApplyDegradation(st)
	assert.Equal(t, model.HealthFailUnderLoad, st.Battery.HealthState)

	// Partial charge keeps it, a full charge clears it.
	p.ChargeBattery(st, 30, time.Hour, "partial")
	assert.Equal(t, model.HealthFailUnderLoad, st.Battery.HealthState)
	p.ChargeBattery(st, 300, time.Hour, "full")
	assert.Equal(t, 100, st.Battery.ChargePercent)
	assert.Equal(t, model.HealthOk, st.Battery.HealthState)
}

func TestLowDrawDoesNotFailUnderLoad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailProbability = 1
	p, _ := newPhysics(t, cfg, 1)
	st := newStation(312)
	st.Battery.ChargePercent = 10

	res := p.ConsumeEnergy(st, 10, time.Hour, "standby")
	assert.False(t, res.FailUnderLoad)
	assert.NotEqual(t, model.HealthFailUnderLoad, st.Battery.HealthState)
}

func TestBoundsHoldUnderRandomLoad(t *testing.T) {
	p, _ := newPhysics(t, DefaultConfig(), 11)
	st := newStation(312)
	rng := rand.New(rand.NewSource(5))
	lastThroughput := 0.0
	lastEffective := st.Battery.EffectiveCapacityWh

	for i := 0; i < 5000; i++ {
		st.AmbientTempC = float64(rng.Intn(50) - 20)
		d := time.Duration(rng.Intn(300)+1) * time.Minute
		if rng.Intn(2) == 0 {
			p.ConsumeEnergy(st, float64(rng.Intn(200)+1), d, "load")
		} else {
			p.ChargeBattery(st, float64(rng.Intn(60)+1), d, "charge")
		}
		b := st.Battery
		require.GreaterOrEqual(t, b.ChargePercent, 0)
		require.LessOrEqual(t, b.ChargePercent, 100)
		require.GreaterOrEqual(t, b.EffectiveCapacityWh, 0.0)
		require.LessOrEqual(t, b.EffectiveCapacityWh, b.NominalCapacityWh)
		require.LessOrEqual(t, b.EffectiveCapacityWh, lastEffective)
		require.GreaterOrEqual(t, b.ThroughputWh, lastThroughput)
		lastThroughput = b.ThroughputWh
		lastEffective = b.EffectiveCapacityWh
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	cfg := DefaultConfig()
	cfg.SoHEol = 1.2
	assert.Error(t, cfg.Validate())
	cfg = DefaultConfig()
	cfg.HealthDegradedMin = 80
	assert.Error(t, cfg.Validate())
}
