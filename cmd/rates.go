package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/wssim/config"
	"github.com/kilianp07/wssim/core/generator"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Print the daily rate and hourly probability of every event kind",
	RunE:  runRates,
}

func init() {
	rootCmd.AddCommand(ratesCmd)
}

func runRates(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rates, err := cfg.Events.KindRates()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KIND\tPER DAY\tPER HOUR")
	for _, k := range generator.PriorityOrder {
		_, _ = fmt.Fprintf(tw, "%s\t%.3f\t%.5f\n", k, rates[k], generator.HourlyProbability(rates[k]))
	}
	return tw.Flush()
}
