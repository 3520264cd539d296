package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/wssim/config"
	"github.com/kilianp07/wssim/core/model"
	"github.com/kilianp07/wssim/core/snapshot"
	"github.com/kilianp07/wssim/pkg/export"
)

var reportOpts struct {
	input   string
	runID   string
	station string
	xlsx    string
	pdf     string
	html    string
	json    string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render stored snapshots as XLSX, PDF, HTML chart or JSON",
	Long: `Reads snapshots from a CSV file (--input) or, without --input, from the
first queryable store of the configuration, and renders a report.`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&reportOpts.input, "input", "i", "", "snapshot CSV file")
	f.StringVar(&reportOpts.runID, "run-id", "", "only snapshots of this run (store input only)")
	f.StringVar(&reportOpts.station, "station", "", "only snapshots of this station")
	f.StringVar(&reportOpts.xlsx, "xlsx", "", "XLSX output file")
	f.StringVar(&reportOpts.pdf, "pdf", "", "PDF output file")
	f.StringVar(&reportOpts.html, "html", "", "HTML chart output file")
	f.StringVar(&reportOpts.json, "json", "", "JSON summary output file")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportOpts.xlsx == "" && reportOpts.pdf == "" && reportOpts.html == "" && reportOpts.json == "" {
		return errors.New("at least one of --xlsx, --pdf, --html or --json is required")
	}
	snaps, err := loadSnapshots(cmd.Context())
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return errors.New("no snapshots matched")
	}
	summary := export.Summarize(snaps)

	if reportOpts.xlsx != "" {
		data, err := export.BuildXLSX(summary, snaps)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := os.WriteFile(reportOpts.xlsx, data, 0o644); err != nil {
			return err
		}
	}
	if reportOpts.pdf != "" {
		data, err := export.BuildPDF(summary, snaps)
		if err != nil {
			return fmt.Errorf("pdf: %w", err)
		}
		if err := os.WriteFile(reportOpts.pdf, data, 0o644); err != nil {
			return err
		}
	}
	if reportOpts.html != "" {
		data, err := export.ChartHTML(summary, snaps)
		if err != nil {
			return fmt.Errorf("html: %w", err)
		}
		if err := os.WriteFile(reportOpts.html, data, 0o644); err != nil {
			return err
		}
	}
	if reportOpts.json != "" {
		f, err := os.Create(reportOpts.json)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if err := export.WriteJSON(f, summary); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report: %d snapshots of %s\n", len(snaps), summary.Station)
	return nil
}

func loadSnapshots(ctx context.Context) ([]model.Snapshot, error) {
	q := snapshot.Query{RunID: reportOpts.runID, Station: reportOpts.station}
	if reportOpts.input != "" {
		// CSV rows carry no run id.
		q.RunID = ""
		f, err := os.Open(reportOpts.input)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		all, err := snapshot.ReadCSV(f)
		if err != nil {
			return nil, err
		}
		out := all[:0]
		for _, s := range all {
			if q.Match(s) {
				out = append(out, s)
			}
		}
		return out, nil
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if len(cfg.Snapshots.Stores) == 0 {
		return nil, errors.New("no snapshot store configured, use --input")
	}
	store, err := snapshot.New(cfg.Snapshots.Stores)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()
	querier, ok := store.(snapshot.Querier)
	if !ok {
		return nil, errors.New("configured store cannot be queried")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	return querier.Query(ctx, q)
}
