// mkfixture creates a small representative dataset from a full Synthea export.
// Two-pass: first buckets every patient by interesting traits, then keeps the
// first N of each bucket along with their encounters, procedures,
// organizations and payers.
// Usage: go run ./cmd/mkfixture --in data/synthea --out testdata/synthea-small --per-bucket 5
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/gyeh/recordstats/internal/dataset"
	"github.com/gyeh/recordstats/internal/table"
)

func main() {
	in := flag.String("in", "data", "input directory with the five source CSVs")
	out := flag.String("out", "testdata/synthea-small", "output directory")
	perBucket := flag.Int("per-bucket", 5, "patients to keep per bucket")
	anonymize := flag.Bool("anonymize", false, "replace patient ids with name-based UUIDs")
	checkOnly := flag.Bool("check", false, "only print bucket sizes, don't write")
	flag.Parse()

	src := dataset.DefaultSources()
	tables, err := dataset.LoadTables(*in, src, table.DefaultCSVOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "load: %v\n", err)
		os.Exit(1)
	}
	enc, pat, proc := tables[dataset.Encounters], tables[dataset.Patients], tables[dataset.Procedures]

	// Pass 1: bucket patients.
	visits := make(map[string]int)
	for _, v := range enc.Column(dataset.ColPatient) {
		if v != nil {
			visits[*v]++
		}
	}
	encPatient := make(map[string]string)
	for i := range enc.Rows {
		if id, p := enc.Get(i, dataset.ColID), enc.Get(i, dataset.ColPatient); id != nil && p != nil {
			encPatient[*id] = *p
		}
	}
	withProcs := make(map[string]bool)
	for _, v := range proc.Column(dataset.ColEncounter) {
		if v != nil {
			withProcs[encPatient[*v]] = true
		}
	}

	type bucket struct {
		name string
		ids  []string
		test func(id string, row int) bool
	}
	buckets := []*bucket{
		{name: "readmitted", test: func(id string, _ int) bool { return visits[id] > 1 }},
		{name: "single_visit", test: func(id string, _ int) bool { return visits[id] == 1 }},
		{name: "missing_gender", test: func(_ string, row int) bool { return pat.Get(row, dataset.ColGender) == nil }},
		{name: "with_procedures", test: func(id string, _ int) bool { return withProcs[id] }},
	}
	for i := range pat.Rows {
		id := table.Deref(pat.Get(i, dataset.ColID))
		if id == "" {
			continue
		}
		for _, b := range buckets {
			if b.test(id, i) {
				b.ids = append(b.ids, id)
			}
		}
	}

	for _, b := range buckets {
		fmt.Printf("%-16s %6d patients\n", b.name, len(b.ids))
	}
	if *checkOnly {
		return
	}

	// Pass 2: select.
	keep := make(map[string]bool)
	for _, b := range buckets {
		for _, id := range b.ids[:min(*perBucket, len(b.ids))] {
			keep[id] = true
		}
	}

	keepEnc := make(map[string]bool)
	orgs, payers := make(map[string]bool), make(map[string]bool)
	encOut := filterRows(enc, func(i int) bool {
		if !keep[table.Deref(enc.Get(i, dataset.ColPatient))] {
			return false
		}
		keepEnc[table.Deref(enc.Get(i, dataset.ColID))] = true
		orgs[table.Deref(enc.Get(i, dataset.ColOrganization))] = true
		payers[table.Deref(enc.Get(i, dataset.ColPayer))] = true
		return true
	})
	patOut := filterRows(pat, func(i int) bool { return keep[table.Deref(pat.Get(i, dataset.ColID))] })
	procOut := filterRows(proc, func(i int) bool { return keepEnc[table.Deref(proc.Get(i, dataset.ColEncounter))] })
	orgT, payT := tables[dataset.Organizations], tables[dataset.Payers]
	orgOut := filterRows(orgT, func(i int) bool { return orgs[table.Deref(orgT.Get(i, dataset.ColID))] })
	payOut := filterRows(payT, func(i int) bool { return payers[table.Deref(payT.Get(i, dataset.ColID))] })

	if *anonymize {
		rewrite(encOut, dataset.ColPatient)
		rewrite(patOut, dataset.ColID)
		rewrite(procOut, dataset.ColPatient)
	}

	for kind, t := range map[dataset.Kind]*table.Table{
		dataset.Encounters:    encOut,
		dataset.Patients:      patOut,
		dataset.Procedures:    procOut,
		dataset.Organizations: orgOut,
		dataset.Payers:        payOut,
	} {
		path := filepath.Join(*out, src[kind])
		if err := table.WriteCSVFile(path, t); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %4d rows to %s\n", t.Len(), path)
	}
}

func filterRows(t *table.Table, keep func(i int) bool) *table.Table {
	var rows []int
	for i := range t.Rows {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.Select(rows, t.Columns)
}

// rewrite replaces patient ids in col with stable name-based UUIDs so the
// same patient maps to the same id across tables.
func rewrite(t *table.Table, col string) {
	idx := t.Index(col)
	if idx < 0 {
		return
	}
	for _, row := range t.Rows {
		if row[idx] != nil {
			id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(*row[idx])).String()
			row[idx] = &id
		}
	}
}
