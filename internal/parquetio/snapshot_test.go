package parquetio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gyeh/recordstats/internal/dataset"
	"github.com/gyeh/recordstats/internal/metrics"
	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/table"
)

func TestSnapshot_Fixture(t *testing.T) {
	ds, err := dataset.Load("../../testdata/synthea-small", dataset.DefaultSources(), table.DefaultCSVOptions())
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	in := FromDataset(ds)

	dir := t.TempDir()
	if err := WriteSnapshot(dir, in); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	out, err := ReadSnapshot(dir)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}

	if len(out.Records) != len(in.Records) || len(out.Procedures) != len(in.Procedures) {
		t.Fatalf("got %d records / %d procedures, want %d / %d",
			len(out.Records), len(out.Procedures), len(in.Records), len(in.Procedures))
	}
	// The fixture has an encounter with no known patient and a patient with
	// no encounters; both survive in the full tables.
	if len(out.Encounters) != len(ds.Encounters) || len(out.Patients) != len(ds.Patients) {
		t.Fatalf("got %d encounters / %d patients, want %d / %d",
			len(out.Encounters), len(out.Patients), len(ds.Encounters), len(ds.Patients))
	}
	if len(out.Encounters) == len(out.Records) {
		t.Fatalf("fixture should carry encounters outside the join")
	}

	// Metrics from the snapshot match the ones from the sources.
	want := metrics.Compute(ds.Encounters, len(ds.Patients), ds.Procedures, metrics.SelfPayPayerID)
	got := metrics.Compute(out.Encounters, len(out.Patients), out.Procedures, metrics.SelfPayPayerID)
	if got.ReadmittedPatients != want.ReadmittedPatients || got.ProceduresCovered != want.ProceduresCovered ||
		got.Encounters != want.Encounters || got.Patients != want.Patients {
		t.Errorf("summary mismatch: got %+v, want %+v", got, want)
	}
	if !sameFloat(got.AvgStayHours, want.AvgStayHours) {
		t.Errorf("avg stay: got %v, want %v", got.AvgStayHours, want.AvgStayHours)
	}
	if !sameFloat(got.AvgCost, want.AvgCost) {
		t.Errorf("avg cost: got %v, want %v", got.AvgCost, want.AvgCost)
	}
	if len(got.Readmissions) != len(want.Readmissions) {
		t.Errorf("readmission months: got %v, want %v", got.Readmissions, want.Readmissions)
	}
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestRecordRoundTrip(t *testing.T) {
	start := time.Date(2021, 1, 5, 10, 0, 0, 0, time.UTC)
	rec := model.JoinedRecord{
		Encounter: model.Encounter{
			ID:        "e1",
			Patient:   "p1",
			Start:     &start,
			ClaimCost: table.Str("1,200.00"),
		},
		Patient:   model.Patient{ID: "p1", First: table.Str("John")},
		PayerName: table.Str("Medicare"),
	}

	row := FromRecord(&rec)
	back := ToRecord(&row)
	if back.Encounter.Start == nil || !back.Encounter.Start.Equal(start) {
		t.Errorf("start: got %v", back.Encounter.Start)
	}
	if back.Encounter.Stop != nil {
		t.Errorf("stop should stay nil, got %v", back.Encounter.Stop)
	}
	if table.Deref(back.Encounter.ClaimCost) != "1,200.00" {
		t.Errorf("claim cost text not preserved: %v", back.Encounter.ClaimCost)
	}
	if table.Deref(back.PayerName) != "Medicare" || table.Deref(back.Patient.First) != "John" {
		t.Errorf("names not preserved: %+v", back)
	}
}

func TestReadSnapshot_Missing(t *testing.T) {
	if _, err := ReadSnapshot(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

func TestReadSnapshot_WrongFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, RecordsFile), []byte("not parquet"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadSnapshot(dir); err == nil {
		t.Fatal("expected error for corrupt snapshot")
	}
}
