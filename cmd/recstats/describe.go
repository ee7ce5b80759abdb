package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gyeh/recordstats/internal/dataset"
	"github.com/gyeh/recordstats/internal/describe"
	"github.com/gyeh/recordstats/internal/exitcode"
	"github.com/gyeh/recordstats/internal/table"
)

var (
	describeTable string
	describeCorr  bool
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print column info and numeric statistics for one source table",
	RunE:  runDescribe,
}

func init() {
	f := describeCmd.Flags()
	f.StringVar(&describeTable, "table", string(dataset.Encounters), "Source table: encounters, patients, organizations, payers or procedures")
	f.BoolVar(&describeCorr, "corr", false, "Also print the correlation matrix of numeric columns")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	log := setup()
	kind, ok := dataset.KindByName(describeTable)
	if !ok {
		log.Error().Str("table", describeTable).Msg("unknown table")
		os.Exit(exitcode.UsageError)
	}
	t, err := table.ReadCSVFile(cfg.Sources.Path(cfg.DataDir, kind), string(kind), cfg.CSVOptions())
	if err != nil {
		log.Error().Err(err).Msg("load failed")
		os.Exit(exitcode.LoadError)
	}

	fmt.Printf("%s: %d rows, %d columns\n\n", t.Name, t.Len(), len(t.Columns))
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tNON-MISSING\tKIND")
	for _, ci := range describe.Info(t) {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", ci.Column, ci.NonMissing, ci.Kind)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	stats := describe.Describe(t)
	if len(stats) > 0 {
		fmt.Println()
		tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "COLUMN\tCOUNT\tMEAN\tSTD\tMIN\t25%\t50%\t75%\tMAX\t")
		for _, s := range stats {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", s.Column, s.Count,
				num(s.Mean), num(s.Std), num(s.Min), num(s.Q1), num(s.Median), num(s.Q3), num(s.Max))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if describeCorr {
		cols, m := describe.Correlation(t)
		fmt.Println()
		tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprint(tw, "\t")
		for _, c := range cols {
			fmt.Fprintf(tw, "%s\t", c)
		}
		fmt.Fprintln(tw)
		for i, c := range cols {
			fmt.Fprintf(tw, "%s\t", c)
			for j := range cols {
				fmt.Fprintf(tw, "%s\t", num(m[i][j]))
			}
			fmt.Fprintln(tw)
		}
		return tw.Flush()
	}
	return nil
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return printer.Sprintf("%.3f", v)
}
