package export

import (
	"encoding/json"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	coremetrics "github.com/kilianp07/wssim/core/metrics"
	"github.com/kilianp07/wssim/core/model"
)

// Summarize rebuilds a run summary from stored snapshots. Event counts are
// not recoverable from snapshots and are left empty.
func Summarize(snaps []model.Snapshot) coremetrics.RunSummary {
	var s coremetrics.RunSummary
	if len(snaps) == 0 {
		return s
	}
	first, last := snaps[0], snaps[len(snaps)-1]
	s.RunID = first.RunID
	s.Station = first.Workstation
	s.Ticks = len(snaps)
	s.Started = first.SimTime
	s.Finished = last.SimTime
	s.FinalHealth = last.HealthPercent

	charges := make([]float64, len(snaps))
	prevStatus := model.BatteryOk.String()
	for i, snap := range snaps {
		charges[i] = float64(snap.BatteryPercent)
		if snap.BatteryStatus == model.BatteryCutoff.String() && prevStatus != snap.BatteryStatus {
			s.Cutoffs++
		}
		if snap.FailUnderLoad {
			s.FailUnderLoad++
		}
		prevStatus = snap.BatteryStatus
	}
	s.MeanCharge, s.StdCharge = stat.MeanStdDev(charges, nil)
	if len(charges) == 1 {
		s.StdCharge = 0
	}
	s.MinCharge = floats.Min(charges)
	return s
}

// WriteJSON writes the summary to w in JSON format.
func WriteJSON(w io.Writer, s coremetrics.RunSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
