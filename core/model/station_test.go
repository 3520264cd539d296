package model

import (
	"testing"
	"time"
)

func TestNewStationDefaults(t *testing.T) {
	s := NewStation("ws1", 312, 8)
	if s.Battery.ChargePercent != 100 || s.Battery.EffectiveCapacityWh != 312 {
		t.Fatalf("unexpected battery %+v", s.Battery)
	}
	if s.PowerState() != PowerAC {
		t.Fatalf("expected Ac got %s", s.PowerState())
	}
	if got := s.OutputPower(); got != StandbyOutputPowerW {
		t.Fatalf("expected standby output got %v", got)
	}
}

func TestPowerStateFallsBackToBattery(t *testing.T) {
	s := NewStation("ws1", 312, 8)
	s.IsPowerOn = false
	if s.PowerState() != PowerDC {
		t.Fatalf("expected Dc got %s", s.PowerState())
	}
	s.Battery.Status = BatteryCutoff
	if s.PowerState() != PowerNone {
		t.Fatalf("expected NoPower got %s", s.PowerState())
	}
	if s.OutputPower() != 0 {
		t.Fatalf("expected no output without power")
	}
}

func TestPowerStateBlownFuse(t *testing.T) {
	s := NewStation("ws1", 312, 0)
	s.PowerSystem.FuseOk = false
	if s.PowerState() != PowerDC {
		t.Fatalf("expected Dc with blown fuse got %s", s.PowerState())
	}
}

func TestOutputPowerFactors(t *testing.T) {
	s := NewStation("ws1", 312, 4)
	s.IsAirAlarmActive = true
	s.ManualElements[0].State = ComponentFail
	if got := s.OutputPower(); got != 450 {
		t.Fatalf("expected 450 got %v", got)
	}
	s.Battery.HealthState = HealthDegraded
	s.Battery.EffectiveCapacityWh = 156
	if got := s.OutputPower(); got != 225 {
		t.Fatalf("expected 225 got %v", got)
	}
	s.Signal = ComponentFail
	if s.OutputPower() != 0 {
		t.Fatalf("expected 0 with failed signal")
	}
	s.Signal = ComponentOk
	s.MCU = ComponentFail
	if s.OutputPower() != 0 {
		t.Fatalf("expected 0 with failed mcu")
	}
}

func TestManualElementsFactorWithoutElements(t *testing.T) {
	s := NewStation("ws1", 312, 0)
	if s.ManualElementsFactor() != 1 {
		t.Fatalf("expected factor 1")
	}
}

func TestStorageUsedPercent(t *testing.T) {
	if (Storage{}).UsedPercent() != 0 {
		t.Fatalf("expected 0 for empty storage")
	}
	if got := (Storage{TotalSpaceMB: 1024, UsedSpaceMB: 256}).UsedPercent(); got != 25 {
		t.Fatalf("expected 25 got %d", got)
	}
}

func TestCapture(t *testing.T) {
	s := NewStation("ws1", 312, 8)
	s.SimTime = time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC)
	s.Battery.Telemetry.VoltageSag = true
	snap := Capture(s)
	if snap.Workstation != "ws1" || !snap.SimTime.Equal(s.SimTime) {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.BatteryPercent != 100 || snap.HealthPercent != 100 || !snap.VoltageSag {
		t.Fatalf("battery fields not captured: %+v", snap)
	}
	if snap.PowerState != "Ac" || snap.ManualTotal != 8 || snap.ManualWorking != 8 {
		t.Fatalf("station fields not captured: %+v", snap)
	}
}
