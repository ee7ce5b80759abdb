package query

import (
	"errors"
	"testing"
	"time"

	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/table"
)

func rec(encID, patientID, first, last, cost string) model.JoinedRecord {
	r := model.JoinedRecord{
		Encounter: model.Encounter{ID: encID, Patient: patientID},
		Patient:   model.Patient{ID: patientID},
	}
	if first != "" {
		r.Patient.First = table.Str(first)
	}
	if last != "" {
		r.Patient.Last = table.Str(last)
	}
	if cost != "" {
		r.Encounter.ClaimCost = table.Str(cost)
	}
	return r
}

func records() []model.JoinedRecord {
	return []model.JoinedRecord{
		rec("e1", "P1", "John", "Smith", "500.00"),
		rec("e2", "P1", "John", "Smith", "1,300.50"),
		rec("e3", "P2", "Mary", "", "bad"),
		rec("e4", "P3", "", "Blacksmith", ""),
	}
}

func TestByID(t *testing.T) {
	l := ByID(records(), "P1")
	if !l.Found() || len(l.Records) != 2 {
		t.Fatalf("P1: got %d records", len(l.Records))
	}

	none := ByID(records(), "P404")
	if none == nil {
		t.Fatal("empty lookup must be non-nil")
	}
	if none.Found() || len(none.Records) != 0 {
		t.Errorf("P404: got %d records", len(none.Records))
	}

	var notAttempted *Lookup
	if notAttempted.Found() {
		t.Error("nil lookup must not report found")
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"smith", []string{"e1", "e2", "e4"}},
		{"MARY", []string{"e3"}},
		{"ohn", []string{"e1", "e2"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			l := ByName(records(), tt.text)
			if len(l.Records) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(l.Records), len(tt.want))
			}
			for i, id := range tt.want {
				if l.Records[i].Encounter.ID != id {
					t.Errorf("[%d]: got %s, want %s", i, l.Records[i].Encounter.ID, id)
				}
			}
		})
	}
}

func TestVisitCost(t *testing.T) {
	got, err := VisitCost(ByID(records(), "P1").Records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1800.5 {
		t.Errorf("got %v, want 1800.5", got)
	}

	_, err = VisitCost(ByID(records(), "P2").Records)
	if !errors.Is(err, ErrCostUncomputable) {
		t.Errorf("expected ErrCostUncomputable, got %v", err)
	}

	if got, err := VisitCost(nil); err != nil || got != 0 {
		t.Errorf("empty: got %v, %v", got, err)
	}
}

func TestStayHours(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	stop := start.Add(36 * time.Hour)
	r := rec("e1", "P1", "", "", "")
	r.Encounter.Start, r.Encounter.Stop = &start, &stop

	stays := StayHours([]model.JoinedRecord{r, rec("e2", "P1", "", "", "")})
	if len(stays) != 2 {
		t.Fatalf("got %d stays", len(stays))
	}
	if stays[0].Hours == nil || *stays[0].Hours != 36 {
		t.Errorf("e1: got %v", stays[0].Hours)
	}
	if stays[1].Hours != nil {
		t.Errorf("e2: expected nil hours")
	}
}

func TestCoveredByInsuranceCount(t *testing.T) {
	pos, zero := 120.0, 0.0
	procs := []model.Procedure{
		{Encounter: "e1", BaseCost: &pos},
		{Encounter: "e1", BaseCost: &zero},
		{Encounter: "e2", BaseCost: &pos},
		{Encounter: "e2"},
		{Encounter: "e3", BaseCost: &pos},
	}
	if got := CoveredByInsuranceCount(ByID(records(), "P1").Records, procs); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestAllPatients(t *testing.T) {
	patients := []model.Patient{{ID: "P2"}, {ID: "P1"}, {ID: "P4"}, {ID: "P3"}}
	got := AllPatients(patients, records())
	if len(got) != 4 {
		t.Fatalf("got %d entries", len(got))
	}
	want := map[string]int{"P1": 2, "P2": 1, "P3": 1, "P4": 0}
	for i, e := range got {
		if i > 0 && got[i-1].Patient.ID > e.Patient.ID {
			t.Errorf("not sorted: %v", got)
		}
		if e.Encounters != want[e.Patient.ID] {
			t.Errorf("%s: got %d encounters, want %d", e.Patient.ID, e.Encounters, want[e.Patient.ID])
		}
	}
}
