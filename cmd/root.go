package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/wssim/app"
	"github.com/kilianp07/wssim/config"
	"github.com/kilianp07/wssim/infra/logger"
	"github.com/kilianp07/wssim/pkg/export"
)

var (
	cfgPath     string
	summaryPath string
)

var rootCmd = &cobra.Command{
	Use:   "wssim",
	Short: "Workstation power and battery simulator",
	RunE:  run,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation described by the configuration",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().StringVar(&summaryPath, "summary", "", "write the run summary as JSON to this file")
	}
	rootCmd.AddCommand(runCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	summary, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	if summaryPath == "" {
		return nil
	}
	f, err := os.Create(summaryPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return export.WriteJSON(f, summary)
}
