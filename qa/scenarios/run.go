package scenarios

import (
	"context"
	"testing"
	"time"

	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/generator"
	"github.com/kilianp07/wssim/core/model"
	"github.com/kilianp07/wssim/core/physics"
	"github.com/kilianp07/wssim/core/sim"
	"github.com/kilianp07/wssim/infra/logger"
)

// RunScenario replays sc on a fresh station and checks its expectations.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	cfg := sim.Config{
		Station:           "qa",
		Ticks:             sc.Ticks,
		Seed:              sc.Seed,
		Start:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ManualElements:    8,
		NominalCapacityWh: 312,
		Generator: generator.Options{
			Mode:   generator.ModeScripted,
			Events: events.DefaultOptions(),
			Script: sc.Script(),
		},
		Battery:     physics.DefaultConfig(),
		Handlers:    physics.DefaultHandlerConfig(),
		Temperature: sim.StaticTemperature(sc.AmbientTempC),
	}
	rec := &physics.Recorder{}
	s, err := sim.New(cfg, sim.Deps{Log: logger.NopLogger{}, Observer: rec})
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	if sc.InitialCharge > 0 {
		s.Station.Battery.ChargePercent = sc.InitialCharge
	}
	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	exp := sc.Expected
	if exp.Transitions != nil {
		got := rec.Types()
		if len(got) != len(exp.Transitions) {
			t.Fatalf("transitions: got %v, want %v", got, exp.Transitions)
		}
		for i, want := range exp.Transitions {
			if string(got[i]) != want {
				t.Fatalf("transition %d: got %s, want %s", i, got[i], want)
			}
		}
	}
	st := s.Station
	if exp.Cutoffs != nil && summary.Cutoffs != *exp.Cutoffs {
		t.Errorf("cutoffs: got %d, want %d", summary.Cutoffs, *exp.Cutoffs)
	}
	if exp.FinalCharge != nil && st.Battery.ChargePercent != *exp.FinalCharge {
		t.Errorf("final charge: got %d, want %d", st.Battery.ChargePercent, *exp.FinalCharge)
	}
	if exp.MinCharge != nil && int(summary.MinCharge) < *exp.MinCharge {
		t.Errorf("min charge: got %.0f, want >= %d", summary.MinCharge, *exp.MinCharge)
	}
	if exp.FinalPowerOn != nil && st.IsPowerOn != *exp.FinalPowerOn {
		t.Errorf("final power on: got %v, want %v", st.IsPowerOn, *exp.FinalPowerOn)
	}
	if st.Battery.ChargePercent < 0 || st.Battery.ChargePercent > 100 {
		t.Errorf("charge out of bounds: %d", st.Battery.ChargePercent)
	}
	if st.Battery.Status == model.BatteryCutoff && st.IsPowerOn {
		t.Errorf("station powered during cutoff")
	}
}
