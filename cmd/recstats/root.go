package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/recordstats/internal/config"
	"github.com/gyeh/recordstats/internal/dataset"
	"github.com/gyeh/recordstats/internal/exitcode"
	"github.com/gyeh/recordstats/internal/logging"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "recstats",
	Short: "Healthcare records cleaner and dashboard metrics",
	Long: "Cleans Synthea-style encounter, patient, organization, payer and procedure CSVs, " +
		"computes readmission, stay, cost and coverage metrics, and serves them as a JSON API.",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the five source CSVs")
	pf.StringVar(&cfg.OutDir, "out-dir", cfg.OutDir, "Directory for cleaned tables and audit artifacts")
	pf.StringVar(&cfg.ConfigFile, "config", "", "Optional YAML config file")
	pf.StringVar(&cfg.DSN, "dsn", cfg.DSN, "Postgres connection string (or set "+config.DSNEnv+")")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: trace, debug, info, warn or error")
}

// setup builds the logger, merges the config file and validates the result.
// It exits the process on invalid configuration.
func setup() zerolog.Logger {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	if cfg.ConfigFile != "" {
		if err := cfg.LoadFromFile(cfg.ConfigFile); err != nil {
			log.Error().Err(err).Str("config", cfg.ConfigFile).Msg("config file rejected")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	return log
}

// mustLoad loads and types the dataset under --data-dir.
func mustLoad(log zerolog.Logger) *dataset.Dataset {
	ds, err := dataset.Load(cfg.DataDir, cfg.Sources, cfg.CSVOptions())
	if err != nil {
		log.Error().Err(err).Str("data_dir", cfg.DataDir).Msg("load failed")
		os.Exit(exitcode.LoadError)
	}
	log.Debug().
		Int("encounters", len(ds.Encounters)).
		Int("patients", len(ds.Patients)).
		Int("procedures", len(ds.Procedures)).
		Msg("dataset loaded")
	return ds
}
