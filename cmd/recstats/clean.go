package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gyeh/recordstats/internal/exitcode"
	"github.com/gyeh/recordstats/internal/pipeline"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the source tables and write audit artifacts",
	RunE:  runClean,
}

func init() {
	f := cleanCmd.Flags()
	f.StringVar(&cfg.UnmappedPrefix, "unmapped-prefix", cfg.UnmappedPrefix, "Gender fill policy for unknown prefixes: leave or fail")
	f.StringVar(&cfg.Placeholder, "placeholder", cfg.Placeholder, "Value written into remaining missing cells")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := pipeline.Run(ctx, log, &cfg)
	if err != nil {
		var pe *pipeline.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("clean failed")
			switch pe.Phase {
			case "load":
				os.Exit(exitcode.LoadError)
			case "write":
				os.Exit(exitcode.WriteError)
			default:
				os.Exit(exitcode.CleanError)
			}
		}
		log.Error().Err(err).Msg("clean failed")
		os.Exit(exitcode.CleanError)
	}

	for _, ts := range summary.Tables {
		fmt.Printf("%-14s %5d in, %4d duplicates, %4d rows with missing cells, %5d out\n",
			ts.Table, ts.RowsIn, ts.Duplicates, ts.MissingRows, ts.RowsOut)
	}
	fmt.Printf("Clean complete: %d tables written to %s (%.1fs)\n",
		len(summary.Tables), summary.OutDir, summary.DurationTotal.Seconds())
	return nil
}
