package snapshot

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/kilianp07/wssim/core/model"
)

// Header is the CSV column order.
var Header = []string{
	"SimTime", "Workstation", "McuState", "SignalState", "NetState", "NetPingMs",
	"NetRetries", "AmbientTemp", "BatteryHealthState", "BatteryStatus",
	"BatteryPercent", "BatteryHealthPercent", "BatteryEffectiveCapacityWh",
	"BatteryThroughputWh", "BatteryVoltageSag", "BatteryFailUnderLoad",
	"BatteryTempFactor", "BatteryEnergyDeltaWh", "BatteryEffectiveCapacityDeltaWh",
	"PowerState", "ManualWorkingCount", "ManualTotalCount", "AmpOutputPowerWatts",
}

// CSVStore appends snapshots to a CSV file. The header is written only when
// the file is empty.
type CSVStore struct {
	mu   sync.Mutex
	path string
	f    *os.File
	w    *csv.Writer
}

// NewCSVStore opens or creates the file at path.
func NewCSVStore(path string) (*CSVStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	s := &CSVStore{path: path, f: f, w: csv.NewWriter(f)}
	if info.Size() == 0 {
		if err := s.w.Write(Header); err != nil {
			_ = f.Close()
			return nil, err
		}
		s.w.Flush()
	}
	return s, nil
}

// Append writes one row and flushes it.
func (s *CSVStore) Append(_ context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Write(Record(snap)); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

// Query reads the file back and filters it.
func (s *CSVStore) Query(_ context.Context, q Query) ([]model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	all, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}
	var out []model.Snapshot
	for _, snap := range all {
		if q.Match(snap) {
			out = append(out, snap)
		}
	}
	return out, nil
}

// Close flushes and closes the file.
func (s *CSVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.f.Close()
		return err
	}
	return s.f.Close()
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func f3(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

// Record renders a snapshot as a CSV row in Header order.
func Record(s model.Snapshot) []string {
	return []string{
		s.SimTime.Format(time.RFC3339Nano),
		s.Workstation,
		s.McuState,
		s.SignalState,
		s.NetState,
		strconv.Itoa(s.NetPingMs),
		strconv.Itoa(s.NetRetries),
		f2(s.AmbientTemp),
		s.HealthState,
		s.BatteryStatus,
		strconv.Itoa(s.BatteryPercent),
		f2(s.HealthPercent),
		f2(s.EffectiveWh),
		f2(s.ThroughputWh),
		flag(s.VoltageSag),
		flag(s.FailUnderLoad),
		f3(s.TempFactor),
		f3(s.EnergyDeltaWh),
		f3(s.CapacityDeltaWh),
		s.PowerState,
		strconv.Itoa(s.ManualWorking),
		strconv.Itoa(s.ManualTotal),
		f2(s.AmpOutputW),
	}
}

// ReadCSV parses rows written by CSVStore. Header rows are skipped.
func ReadCSV(r io.Reader) ([]model.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	var out []model.Snapshot
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if rec[0] == Header[0] {
			continue
		}
		snap, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, snap)
	}
}

type fieldParser struct{ err error }

func (p *fieldParser) int(s string) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(s)
	p.err = err
	return v
}

func (p *fieldParser) float(s string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	p.err = err
	return v
}

func parseRecord(rec []string) (model.Snapshot, error) {
	ts, err := time.Parse(time.RFC3339Nano, rec[0])
	if err != nil {
		return model.Snapshot{}, err
	}
	var p fieldParser
	s := model.Snapshot{
		SimTime:         ts,
		Workstation:     rec[1],
		McuState:        rec[2],
		SignalState:     rec[3],
		NetState:        rec[4],
		NetPingMs:       p.int(rec[5]),
		NetRetries:      p.int(rec[6]),
		AmbientTemp:     p.float(rec[7]),
		HealthState:     rec[8],
		BatteryStatus:   rec[9],
		BatteryPercent:  p.int(rec[10]),
		HealthPercent:   p.float(rec[11]),
		EffectiveWh:     p.float(rec[12]),
		ThroughputWh:    p.float(rec[13]),
		VoltageSag:      rec[14] == "1",
		FailUnderLoad:   rec[15] == "1",
		TempFactor:      p.float(rec[16]),
		EnergyDeltaWh:   p.float(rec[17]),
		CapacityDeltaWh: p.float(rec[18]),
		PowerState:      rec[19],
		ManualWorking:   p.int(rec[20]),
		ManualTotal:     p.int(rec[21]),
		AmpOutputW:      p.float(rec[22]),
	}
	return s, p.err
}
