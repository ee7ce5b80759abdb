package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gyeh/recordstats/internal/exitcode"
	"github.com/gyeh/recordstats/internal/pipeline"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and cleaning stats (no writes)",
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := setup()

	summary, err := pipeline.Plan(context.Background(), log, &cfg)
	if err != nil {
		log.Error().Err(err).Msg("plan failed")
		os.Exit(exitcode.ValidationError)
	}

	fmt.Println("=== recstats plan ===")
	fmt.Printf("Data dir:  %s\n", cfg.DataDir)
	fmt.Printf("Encoding:  %s, delimiter %q\n", cfg.Encoding, cfg.Delimiter)
	fmt.Printf("Prefixes:  %s unmapped\n", cfg.UnmappedPrefix)
	for _, ts := range summary.Tables {
		fmt.Println()
		fmt.Printf("%s: %d rows (%d duplicates)\n", ts.Table, ts.RowsIn, ts.Duplicates)
		for _, mc := range ts.Missing {
			fmt.Printf("  missing  %-22s %6d\n", mc.Column, mc.Count)
		}
		if ts.GenderUnresolved > 0 {
			fmt.Printf("  gender unresolved              %6d\n", ts.GenderUnresolved)
		}
		if ts.DatesCleared > 0 {
			fmt.Printf("  unparseable dates              %6d\n", ts.DatesCleared)
		}
		cols := make([]string, 0, len(ts.Outliers))
		for col := range ts.Outliers {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for _, col := range cols {
			fmt.Printf("  outliers %-22s %6d\n", col, ts.Outliers[col])
		}
	}
	fmt.Println("\nSchema validation: OK")
	return nil
}
