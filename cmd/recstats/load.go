package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/recordstats/internal/dataset"
	"github.com/gyeh/recordstats/internal/db"
	"github.com/gyeh/recordstats/internal/exitcode"
	"github.com/gyeh/recordstats/internal/metrics"
	"github.com/gyeh/recordstats/internal/warehouse"
)

var loadMigrate bool

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load encounter facts and metrics into Postgres",
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().BoolVar(&loadMigrate, "migrate", false, "Apply migrations before loading")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	ds := mustLoad(log)
	in := warehouse.Input{
		DataDir: cfg.DataDir,
		Records: dataset.Join(ds),
		Summary: metrics.Compute(ds.Encounters, len(ds.Patients), ds.Procedures, cfg.SelfPayPayerID),
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	if loadMigrate {
		if err := db.ApplyMigrations(ctx, pool, log); err != nil {
			log.Error().Err(err).Msg("migration failed")
			os.Exit(exitcode.DBConnError)
		}
	}

	res, err := warehouse.Load(ctx, pool, log, in)
	if err != nil {
		log.Error().Err(err).Msg("load failed")
		os.Exit(exitcode.CopyError)
	}

	fmt.Printf("Load complete: run %s, %d encounter facts, %d months (%.1fs)\n",
		res.RunID, res.FactsCopied, res.Months, res.Duration.Seconds())
	return nil
}
