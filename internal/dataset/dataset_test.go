package dataset

import (
	"errors"
	"testing"

	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/table"
)

const fixtureDir = "../../testdata/synthea-small"

func TestValidateSchema(t *testing.T) {
	tbl := table.New("encounters", []string{ColID, ColStart, ColPatient})
	err := ValidateSchema(tbl, Encounters)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Kind != Encounters || len(se.Missing) != 4 {
		t.Errorf("unexpected error detail: %+v", se)
	}

	if err := ValidateSchema(table.New("payers", []string{ColID, ColName}), Payers); err != nil {
		t.Errorf("payers: unexpected error %v", err)
	}
	if err := ValidateSchema(tbl, Kind("bogus")); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestLoad_Fixture(t *testing.T) {
	ds, err := Load(fixtureDir, DefaultSources(), table.DefaultCSVOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Encounters) != 7 || len(ds.Patients) != 4 || len(ds.Procedures) != 5 {
		t.Fatalf("counts: encounters=%d patients=%d procedures=%d",
			len(ds.Encounters), len(ds.Patients), len(ds.Procedures))
	}
	if len(ds.Organizations) != 2 || len(ds.Payers) != 2 {
		t.Errorf("counts: organizations=%d payers=%d", len(ds.Organizations), len(ds.Payers))
	}

	e4 := ds.Encounters[4]
	if cost, ok := e4.Cost(); !ok || cost != 1200 {
		t.Errorf("e4 cost: got %v, %v", cost, ok)
	}
	if hours, ok := e4.StayHours(); !ok || hours != 2 {
		t.Errorf("e4 stay: got %v, %v", hours, ok)
	}
	if _, ok := ds.Encounters[5].Cost(); ok {
		t.Error("e5 cost should not coerce")
	}

	// Raw pipe-separated birth date is not parseable before cleaning.
	if ds.Patients[1].BirthDate != nil {
		t.Errorf("p2 birthdate: expected nil, got %v", ds.Patients[1].BirthDate)
	}
	if ds.Procedures[4].BaseCost != nil {
		t.Error("missing base cost should be nil")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	src := DefaultSources()
	src[Payers] = "nope.csv"
	if _, err := Load(fixtureDir, src, table.DefaultCSVOptions()); err == nil {
		t.Error("expected error for missing source file")
	}
}

func TestJoin(t *testing.T) {
	name := "General Hospital"
	ds := &Dataset{
		Encounters: []model.Encounter{
			{ID: "e1", Patient: "p1", Organization: &name},
			{ID: "e2", Patient: "p9"},
			{ID: "e3", Patient: "p1"},
			{ID: "e4"},
		},
		Patients:      []model.Patient{{ID: "p1"}, {ID: "p2"}},
		Organizations: []model.Organization{{ID: name, Name: &name}},
	}
	got := Join(ds)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Encounter.ID != "e1" || got[1].Encounter.ID != "e3" {
		t.Errorf("order: got %s, %s", got[0].Encounter.ID, got[1].Encounter.ID)
	}
	if table.Deref(got[0].OrganizationName) != name {
		t.Errorf("organization name not resolved")
	}
}
