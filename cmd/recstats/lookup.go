package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gyeh/recordstats/internal/dataset"
	"github.com/gyeh/recordstats/internal/exitcode"
	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/query"
)

var (
	lookupID   string
	lookupName string
	lookupAll  bool
	lookupJSON bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up a patient's encounters by id or name, or list all patients",
	RunE:  runLookup,
}

func init() {
	f := lookupCmd.Flags()
	f.StringVar(&lookupID, "id", "", "Exact patient id")
	f.StringVar(&lookupName, "name", "", "Case-insensitive substring of first or last name")
	f.BoolVar(&lookupAll, "all", false, "List all patients")
	f.BoolVar(&lookupJSON, "json", false, "Print JSON instead of text")
	lookupCmd.MarkFlagsMutuallyExclusive("id", "name", "all")
	lookupCmd.MarkFlagsOneRequired("id", "name", "all")
	rootCmd.AddCommand(lookupCmd)
}

// errEmptyName rejects a name search that would match every record.
var errEmptyName = errors.New("--name must not be empty")

// findPatient runs the id or name lookup selected on the command line.
// An id lookup is exact even when the id is empty.
func findPatient(records []model.JoinedRecord, byID bool, id, name string) (*query.Lookup, error) {
	if byID {
		return query.ByID(records, id), nil
	}
	if strings.TrimSpace(name) == "" {
		return nil, errEmptyName
	}
	return query.ByName(records, name), nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	log := setup()
	if !lookupAll && !cmd.Flags().Changed("id") && strings.TrimSpace(lookupName) == "" {
		log.Error().Err(errEmptyName).Msg("invalid lookup")
		os.Exit(exitcode.UsageError)
	}
	ds := mustLoad(log)
	records := dataset.Join(ds)

	if lookupAll {
		all := query.AllPatients(ds.Patients, records)
		if lookupJSON {
			return printJSON(all)
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tFIRST\tLAST\tGENDER\tENCOUNTERS")
		for _, e := range all {
			p := e.Patient
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, str(p.First), str(p.Last), str(p.Gender), e.Encounters)
		}
		return tw.Flush()
	}

	l, err := findPatient(records, cmd.Flags().Changed("id"), lookupID, lookupName)
	if err != nil {
		return err
	}

	stays := query.StayHours(l.Records)
	cost, costErr := query.VisitCost(l.Records)
	covered := query.CoveredByInsuranceCount(l.Records, ds.Procedures)

	if lookupJSON {
		out := map[string]any{
			"query":              l.Query,
			"found":              l.Found(),
			"records":            l.Records,
			"stays":              stays,
			"covered_procedures": covered,
		}
		if costErr != nil {
			out["visit_cost_error"] = costErr.Error()
		} else {
			out["visit_cost"] = cost
		}
		return printJSON(out)
	}

	if !l.Found() {
		fmt.Printf("No patient found for %q\n", l.Query)
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENCOUNTER\tPATIENT\tNAME\tSTART\tSTAY\tCLAIM COST\tPAYER")
	for i, r := range l.Records {
		start := "-"
		if r.Encounter.Start != nil {
			start = r.Encounter.Start.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\t%s\t%s\n",
			r.Encounter.ID, r.Patient.ID, str(r.Patient.First), str(r.Patient.Last),
			start, hours(stays[i].Hours), str(r.Encounter.ClaimCost), str(r.PayerName))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Println()
	switch {
	case errors.Is(costErr, query.ErrCostUncomputable):
		fmt.Println("Visit cost:           could not be computed (no numeric claim cost)")
	case costErr == nil:
		fmt.Printf("Visit cost:           %s\n", money(&cost))
	}
	fmt.Printf("Covered procedures:   %d\n", covered)
	return nil
}
