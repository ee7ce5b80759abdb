package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gyeh/recordstats/internal/exitcode"
	"github.com/gyeh/recordstats/internal/metrics"
	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/pipeline"
	"github.com/gyeh/recordstats/internal/report"
)

var (
	reportOutput  string
	reportNoClean bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an Excel workbook with metrics and cleaning findings",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportOutput, "output", "", "Workbook path (default <out-dir>/report.xlsx)")
	f.BoolVar(&reportNoClean, "no-clean", false, "Skip the Missing and Outliers sheets")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := setup()
	if reportOutput == "" {
		reportOutput = filepath.Join(cfg.OutDir, "report.xlsx")
	}

	ds := mustLoad(log)
	s := metrics.Compute(ds.Encounters, len(ds.Patients), ds.Procedures, cfg.SelfPayPayerID)

	var cs *model.CleanSummary
	if !reportNoClean {
		var err error
		cs, err = pipeline.Plan(context.Background(), log, &cfg)
		if err != nil {
			log.Error().Err(err).Msg("cleaning dry run failed")
			os.Exit(exitcode.CleanError)
		}
	}

	if err := report.Write(reportOutput, s, cs); err != nil {
		log.Error().Err(err).Msg("report failed")
		os.Exit(exitcode.WriteError)
	}
	fmt.Printf("Report written to %s\n", reportOutput)
	return nil
}
