package export

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	coremetrics "github.com/kilianp07/wssim/core/metrics"
	"github.com/kilianp07/wssim/core/model"
)

// ChartHTML renders charge, state of health and ambient temperature over
// simulated time as a standalone HTML page.
func ChartHTML(s coremetrics.RunSummary, snaps []model.Snapshot) ([]byte, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    s.Station,
			Subtitle: fmt.Sprintf("%d ticks, %d cutoffs", s.Ticks, s.Cutoffs),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Sim time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Top: "bottom"}),
	)

	xAxis := make([]string, 0, len(snaps))
	charge := make([]opts.LineData, 0, len(snaps))
	health := make([]opts.LineData, 0, len(snaps))
	temp := make([]opts.LineData, 0, len(snaps))
	for _, sn := range snaps {
		xAxis = append(xAxis, sn.SimTime.Format("2006-01-02 15:04"))
		charge = append(charge, opts.LineData{Value: sn.BatteryPercent})
		health = append(health, opts.LineData{Value: round2(sn.HealthPercent)})
		temp = append(temp, opts.LineData{Value: round2(sn.AmbientTemp)})
	}
	line.SetXAxis(xAxis).
		AddSeries("Charge", charge).
		AddSeries("SoH", health).
		AddSeries("Ambient °C", temp)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
