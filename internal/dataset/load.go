package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/table"
)

// Sources maps each table kind to its file name inside a data directory.
type Sources map[Kind]string

// DefaultSources returns "<kind>.csv" for every kind.
func DefaultSources() Sources {
	s := make(Sources, len(AllKinds))
	for _, k := range AllKinds {
		s[k] = string(k) + ".csv"
	}
	return s
}

// Path returns the full path of kind's file under dir.
func (s Sources) Path(dir string, kind Kind) string {
	name, ok := s[kind]
	if !ok || name == "" {
		name = string(kind) + ".csv"
	}
	return filepath.Join(dir, name)
}

// Tables holds the raw source tables keyed by kind.
type Tables map[Kind]*table.Table

// LoadTables reads and schema-checks every source under dir.
func LoadTables(dir string, src Sources, opts table.CSVOptions) (Tables, error) {
	out := make(Tables, len(AllKinds))
	for _, kind := range AllKinds {
		t, err := table.ReadCSVFile(src.Path(dir, kind), string(kind), opts)
		if err != nil {
			return nil, err
		}
		if err := ValidateSchema(t, kind); err != nil {
			return nil, err
		}
		out[kind] = t
	}
	return out, nil
}

// Dataset is the typed view of the five sources.
type Dataset struct {
	Encounters    []model.Encounter
	Patients      []model.Patient
	Organizations []model.Organization
	Payers        []model.Payer
	Procedures    []model.Procedure
}

// FromTables converts raw tables into a Dataset.
func FromTables(ts Tables) (*Dataset, error) {
	var (
		ds  Dataset
		err error
	)
	for _, kind := range AllKinds {
		t, ok := ts[kind]
		if !ok {
			return nil, fmt.Errorf("dataset: %s table not loaded", kind)
		}
		switch kind {
		case Encounters:
			ds.Encounters, err = ToEncounters(t)
		case Patients:
			ds.Patients, err = ToPatients(t)
		case Organizations:
			ds.Organizations, err = ToOrganizations(t)
		case Payers:
			ds.Payers, err = ToPayers(t)
		case Procedures:
			ds.Procedures, err = ToProcedures(t)
		}
		if err != nil {
			return nil, err
		}
	}
	return &ds, nil
}

// Load reads all five sources under dir into a Dataset.
func Load(dir string, src Sources, opts table.CSVOptions) (*Dataset, error) {
	ts, err := LoadTables(dir, src, opts)
	if err != nil {
		return nil, err
	}
	return FromTables(ts)
}
