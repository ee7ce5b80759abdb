package config

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/recordstats/internal/clean"
	"github.com/gyeh/recordstats/internal/dataset"
	"github.com/gyeh/recordstats/internal/metrics"
	"github.com/gyeh/recordstats/internal/table"
)

// DSNEnv is the environment variable consulted when --dsn is not given.
const DSNEnv = "RECSTATS_DB_URL"

// TablePlan lists the cleaning steps applied to one source table.
type TablePlan struct {
	DateColumns    map[string]string `yaml:"date_columns"` // column -> strftime format
	OutlierColumns []string          `yaml:"outlier_columns"`
	FillGender     bool              `yaml:"fill_gender"`
}

// Config holds all runtime configuration for a recstats run.
type Config struct {
	DataDir        string `validate:"required"`
	OutDir         string
	DSN            string
	ConfigFile     string
	LogFormat      string `validate:"oneof=text json"`
	LogLevel       string `validate:"oneof=trace debug info warn error"`
	Delimiter      string `validate:"required"`
	Encoding       string `validate:"required"`
	Placeholder    string
	SelfPayPayerID string `validate:"required"`
	UnmappedPrefix string `validate:"oneof=leave fail"`
	Sources        dataset.Sources
	Tables         map[dataset.Kind]TablePlan
}

// Default returns a Config carrying the stock Synthea cleaning plan.
func Default() Config {
	return Config{
		DataDir:        "data",
		OutDir:         "out",
		DSN:            os.Getenv(DSNEnv),
		LogFormat:      "text",
		LogLevel:       "info",
		Delimiter:      ",",
		Encoding:       "utf-8",
		Placeholder:    "Unknown",
		SelfPayPayerID: metrics.SelfPayPayerID,
		UnmappedPrefix: string(clean.PrefixLeave),
		Sources:        dataset.DefaultSources(),
		Tables: map[dataset.Kind]TablePlan{
			dataset.Encounters: {
				DateColumns: map[string]string{
					dataset.ColStart: "%Y-%m-%dT%H:%M:%SZ",
					dataset.ColStop:  "%Y-%m-%dT%H:%M:%SZ",
				},
				OutlierColumns: []string{dataset.ColBaseEncounterCost},
			},
			dataset.Patients: {
				DateColumns: map[string]string{
					dataset.ColBirthDate: "%Y-%m-%d",
					dataset.ColDeathDate: "%Y-%m-%d",
				},
				FillGender: true,
			},
			dataset.Procedures: {
				OutlierColumns: []string{dataset.ColBaseCost},
			},
		},
	}
}

// yamlConfig is the on-disk YAML structure. Pointers distinguish
// "absent" from "set to the zero value".
type yamlConfig struct {
	Delimiter      *string              `yaml:"delimiter"`
	Encoding       *string              `yaml:"encoding"`
	Placeholder    *string              `yaml:"placeholder"`
	SelfPayPayerID *string              `yaml:"self_pay_payer_id"`
	UnmappedPrefix *string              `yaml:"unmapped_prefix"`
	Sources        map[string]string    `yaml:"sources"`
	Tables         map[string]TablePlan `yaml:"tables"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// A table listed under "tables" replaces that table's default plan.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	setIf(&c.Delimiter, yc.Delimiter)
	setIf(&c.Encoding, yc.Encoding)
	setIf(&c.Placeholder, yc.Placeholder)
	setIf(&c.SelfPayPayerID, yc.SelfPayPayerID)
	setIf(&c.UnmappedPrefix, yc.UnmappedPrefix)

	if c.Sources == nil {
		c.Sources = dataset.DefaultSources()
	}
	for name, file := range yc.Sources {
		kind, ok := dataset.KindByName(name)
		if !ok {
			return fmt.Errorf("unknown source %q in config", name)
		}
		c.Sources[kind] = file
	}
	if c.Tables == nil {
		c.Tables = make(map[dataset.Kind]TablePlan)
	}
	for name, plan := range yc.Tables {
		kind, ok := dataset.KindByName(name)
		if !ok {
			return fmt.Errorf("unknown table %q in config", name)
		}
		c.Tables[kind] = plan
	}
	return nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	if err := table.CheckEncoding(c.Encoding); err != nil {
		return err
	}
	if _, err := os.Stat(c.DataDir); err != nil {
		return fmt.Errorf("data dir not accessible: %w", err)
	}
	return nil
}

// ValidateWithDSN checks both the data dir and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or %s is required", DSNEnv)
	}
	return nil
}

// CSVOptions returns the reader/writer options derived from the config.
// The placeholder reads back as a missing cell, so cleaned output can be
// loaded again as a data directory.
func (c *Config) CSVOptions() table.CSVOptions {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	opts := table.CSVOptions{Delimiter: r, Encoding: c.Encoding}
	if c.Placeholder != "" {
		opts.Missing = []string{c.Placeholder}
	}
	return opts
}

// Policy returns the unmapped-prefix policy as a typed value.
func (c *Config) Policy() clean.PrefixPolicy {
	return clean.PrefixPolicy(c.UnmappedPrefix)
}
