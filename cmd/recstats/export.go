package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gyeh/recordstats/internal/exitcode"
	"github.com/gyeh/recordstats/internal/parquetio"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the joined dataset as a Parquet snapshot",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "snapshot", "", "Snapshot directory (default <out-dir>/snapshot)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := setup()
	if exportDir == "" {
		exportDir = filepath.Join(cfg.OutDir, "snapshot")
	}

	ds := mustLoad(log)
	snap := parquetio.FromDataset(ds)
	if err := parquetio.WriteSnapshot(exportDir, snap); err != nil {
		log.Error().Err(err).Msg("export failed")
		os.Exit(exitcode.WriteError)
	}

	fmt.Printf("Snapshot written to %s: %d encounters, %d patients, %d joined records, %d procedures\n",
		exportDir, len(snap.Encounters), len(snap.Patients), len(snap.Records), len(snap.Procedures))
	return nil
}
