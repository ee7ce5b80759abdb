package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/recordstats/internal/db"
	"github.com/gyeh/recordstats/internal/exitcode"
	"github.com/gyeh/recordstats/internal/metrics"
	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/parquetio"
	"github.com/gyeh/recordstats/internal/warehouse"
)

var (
	statsSnapshot  string
	statsWarehouse bool
	statsJSON      bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute the dashboard metrics",
	Long: "Computes readmissions, average stay, average claim cost and covered procedures " +
		"from --data-dir, from a Parquet snapshot (--snapshot), or reads the latest loaded run (--warehouse).",
	RunE: runStats,
}

func init() {
	f := statsCmd.Flags()
	f.StringVar(&statsSnapshot, "snapshot", "", "Read a snapshot directory written by export")
	f.BoolVar(&statsWarehouse, "warehouse", false, "Print the latest metric snapshot stored in Postgres")
	f.BoolVar(&statsJSON, "json", false, "Print JSON instead of text")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsWarehouse {
		return runStatsWarehouse()
	}
	log := setup()

	var s model.Summary
	if statsSnapshot != "" {
		snap, err := parquetio.ReadSnapshot(statsSnapshot)
		if err != nil {
			log.Error().Err(err).Str("snapshot", statsSnapshot).Msg("snapshot read failed")
			os.Exit(exitcode.LoadError)
		}
		s = metrics.Compute(snap.Encounters, len(snap.Patients), snap.Procedures, cfg.SelfPayPayerID)
	} else {
		ds := mustLoad(log)
		s = metrics.Compute(ds.Encounters, len(ds.Patients), ds.Procedures, cfg.SelfPayPayerID)
	}

	if statsJSON {
		return printJSON(s)
	}
	printSummary(s)
	return nil
}

func printSummary(s model.Summary) {
	fmt.Printf("Readmitted patients:  %d\n", s.ReadmittedPatients)
	fmt.Printf("Average stay:         %s\n", hours(s.AvgStayHours))
	fmt.Printf("Average claim cost:   %s\n", money(s.AvgCost))
	fmt.Printf("Procedures covered:   %d of %d\n", s.ProceduresCovered, s.Procedures)
	fmt.Printf("Encounters/patients:  %d / %d\n", s.Encounters, s.Patients)
	if len(s.Readmissions) > 0 {
		fmt.Println("\nReadmitted patients by month:")
		for _, m := range s.Readmissions {
			fmt.Printf("  %s  %d\n", m.Month.Format("2006-01"), m.Patients)
		}
	}
}

func runStatsWarehouse() error {
	log := setup()
	if cfg.DSN == "" {
		log.Error().Msg("--dsn or RECSTATS_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	snap, err := warehouse.Latest(ctx, pool)
	if err != nil {
		log.Error().Err(err).Msg("read latest run failed")
		os.Exit(exitcode.QueryError)
	}
	if statsJSON {
		return printJSON(snap)
	}
	fmt.Printf("Run:                  %s (%s, %s)\n", snap.RunID, snap.DataDir, snap.FinishedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Readmitted patients:  %d\n", snap.ReadmittedPatients)
	fmt.Printf("Average stay:         %s\n", hours(snap.AvgStayHours))
	fmt.Printf("Average claim cost:   %s\n", money(snap.AvgCost))
	fmt.Printf("Procedures covered:   %d\n", snap.ProceduresCovered)
	return nil
}
