package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/wssim/core/metrics"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	data := `simulation:
  ticks: 24
  seed: 5
  start_time: "2024-05-01T00:00:00Z"
logging:
  level: error
snapshots:
  stores:
    - type: csv
      conf:
        path: ` + filepath.Join(dir, "snapshots.csv") + `
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRatesCommand(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())
	out := execute(t, "rates", "-c", cfg)
	assert.Contains(t, out, "power_outage")
	assert.Contains(t, out, "0.01448")
	assert.Contains(t, out, "air_alarm")
	assert.Contains(t, out, "0.02062")
}

func TestRunThenReport(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	summaryFile := filepath.Join(dir, "summary.json")
	execute(t, "run", "-c", cfg, "--summary", summaryFile)

	raw, err := os.ReadFile(summaryFile)
	require.NoError(t, err)
	var summary coremetrics.RunSummary
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.Equal(t, 24, summary.Ticks)
	assert.Equal(t, "Station 1", summary.Station)

	xlsx := filepath.Join(dir, "report.xlsx")
	pdf := filepath.Join(dir, "report.pdf")
	html := filepath.Join(dir, "report.html")
	out := execute(t, "report", "-c", cfg, "-i", filepath.Join(dir, "snapshots.csv"),
		"--xlsx", xlsx, "--pdf", pdf, "--html", html)
	assert.Contains(t, out, "24 snapshots")
	assert.FileExists(t, xlsx)
	assert.FileExists(t, pdf)
	assert.FileExists(t, html)
}
