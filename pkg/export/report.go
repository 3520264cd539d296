package export

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	coremetrics "github.com/kilianp07/wssim/core/metrics"
	"github.com/kilianp07/wssim/core/model"
	"github.com/kilianp07/wssim/core/snapshot"
)

const (
	summarySheet   = "summary"
	snapshotsSheet = "snapshots"
)

func summaryRows(s coremetrics.RunSummary) [][2]any {
	return [][2]any{
		{"Station", s.Station},
		{"Run", s.RunID},
		{"From", s.Started.Format(time.RFC3339)},
		{"To", s.Finished.Format(time.RFC3339)},
		{"Ticks", s.Ticks},
		{"Mean charge (%)", round2(s.MeanCharge)},
		{"Min charge (%)", s.MinCharge},
		{"Charge std dev", round2(s.StdCharge)},
		{"Cutoffs", s.Cutoffs},
		{"Fail under load events", s.FailUnderLoad},
		{"Final SoH (%)", round2(s.FinalHealth)},
	}
}

// BuildXLSX renders the summary and every snapshot row.
func BuildXLSX(s coremetrics.RunSummary, snaps []model.Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(snapshotsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Workstation simulation report")
	for i, row := range summaryRows(s) {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+3), row[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+3), row[1])
	}

	if err := f.SetSheetRow(snapshotsSheet, "A1", &snapshot.Header); err != nil {
		return nil, err
	}
	for i, snap := range snaps {
		rec := snapshot.Record(snap)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(snapshotsSheet, cell, &rec); err != nil {
			return nil, err
		}
	}
	_ = f.SetPanes(snapshotsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Sim time", 45}, {"Charge %", 22}, {"SoH %", 22}, {"Status", 25}, {"Power", 22}, {"Symptoms", 18}, {"Output W", 25},
}

// pdfRow formats one snapshot for the hourly table. Symptoms are the ones
// recorded during the tick, since flags such as the air alarm are already
// cleared when the snapshot is taken.
func pdfRow(snap model.Snapshot) []string {
	var symptoms []string
	if snap.VoltageSag {
		symptoms = append(symptoms, "sag")
	}
	if snap.FailUnderLoad {
		symptoms = append(symptoms, "FUL")
	}
	sym := "-"
	if len(symptoms) > 0 {
		sym = strings.Join(symptoms, "+")
	}
	return []string{
		snap.SimTime.Format("2006-01-02 15:04"),
		fmt.Sprintf("%d", snap.BatteryPercent),
		fmt.Sprintf("%.2f", snap.HealthPercent),
		snap.BatteryStatus,
		snap.PowerState,
		sym,
		fmt.Sprintf("%.1f", snap.AmpOutputW),
	}
}

// BuildPDF renders the summary and an hourly battery table.
func BuildPDF(s coremetrics.RunSummary, snaps []model.Snapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Workstation simulation report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	for _, row := range summaryRows(s) {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %v", row[0], row[1]))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 6, c.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, snap := range snaps {
		cells := pdfRow(snap)
		for i, c := range pdfColumns {
			align := "R"
			if i == 0 || i == 3 || i == 4 {
				align = "L"
			}
			pdf.CellFormat(c.width, 5, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
