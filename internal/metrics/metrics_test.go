package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/table"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func enc(id, patient, start, stop, cost string) model.Encounter {
	e := model.Encounter{ID: id, Patient: patient, ClaimCost: table.Str(cost)}
	if start != "" {
		e.Start = ts(start)
	}
	if stop != "" {
		e.Stop = ts(stop)
	}
	return e
}

func scenario() []model.Encounter {
	return []model.Encounter{
		enc("e1", "P1", "2021-01-05T00:00:00Z", "2021-01-06T00:00:00Z", "500.00"),
		enc("e2", "P1", "2021-02-10T00:00:00Z", "2021-02-11T00:00:00Z", "300.00"),
		enc("e3", "P2", "2021-01-01T00:00:00Z", "2021-01-02T00:00:00Z", "100.00"),
	}
}

func TestEndToEndScenario(t *testing.T) {
	encs := scenario()

	series, readmitted := ReadmissionSeries(encs)
	if readmitted != 1 {
		t.Errorf("readmitted: got %d, want 1", readmitted)
	}
	want := []model.MonthCount{
		{Month: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Patients: 1},
		{Month: time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC), Patients: 1},
	}
	if len(series) != len(want) {
		t.Fatalf("series: got %v, want %v", series, want)
	}
	for i := range want {
		if !series[i].Month.Equal(want[i].Month) || series[i].Patients != want[i].Patients {
			t.Errorf("series[%d]: got %v, want %v", i, series[i], want[i])
		}
	}

	if got, ok := AverageCost(encs); !ok || math.Abs(got-300) > 1e-9 {
		t.Errorf("AverageCost: got %v, %v", got, ok)
	}
	if got, ok := AverageStayHours(encs); !ok || math.Abs(got-24) > 1e-9 {
		t.Errorf("AverageStayHours: got %v, %v", got, ok)
	}
}

func TestAverageCost_SkipsUncoercible(t *testing.T) {
	encs := []model.Encounter{
		{ClaimCost: table.Str("1,000.00")},
		{ClaimCost: table.Str("2,000.00")},
		{ClaimCost: table.Str("bad")},
		{},
	}
	if got, ok := AverageCost(encs); !ok || math.Abs(got-1500) > 1e-9 {
		t.Errorf("got %v, %v; want 1500", got, ok)
	}
	if _, ok := AverageCost([]model.Encounter{{ClaimCost: table.Str("bad")}}); ok {
		t.Error("expected ok=false with no coercible costs")
	}
}

func TestAverageStayHours_SkipsUnparseable(t *testing.T) {
	encs := []model.Encounter{
		enc("e1", "P1", "2021-01-01T00:00:00Z", "2021-01-01T10:00:00Z", ""),
		enc("e2", "P1", "", "2021-01-02T00:00:00Z", ""),
	}
	if got, ok := AverageStayHours(encs); !ok || got != 10 {
		t.Errorf("got %v, %v; want 10", got, ok)
	}
}

func TestReadmissionSeries_Properties(t *testing.T) {
	encs := []model.Encounter{
		enc("a", "P1", "2021-01-05T00:00:00Z", "", ""),
		enc("b", "P1", "2021-01-20T00:00:00Z", "", ""),
		enc("c", "P1", "2021-03-01T00:00:00Z", "", ""),
		enc("d", "P2", "2021-02-01T00:00:00Z", "", ""),
		enc("e", "P3", "2021-03-15T00:00:00Z", "", ""),
		enc("f", "P3", "", "", ""),
		enc("g", "", "2021-03-15T00:00:00Z", "", ""),
		enc("h", "", "2021-03-16T00:00:00Z", "", ""),
	}
	series, readmitted := ReadmissionSeries(encs)
	if readmitted != 2 {
		t.Errorf("readmitted: got %d, want 2 (P1, P3)", readmitted)
	}
	// January: P1 once despite two visits. February: P2 has one visit total, excluded.
	// March: P1 and P3.
	if len(series) != 2 {
		t.Fatalf("series: got %v", series)
	}
	if series[0].Month.Month() != time.January || series[0].Patients != 1 {
		t.Errorf("january: got %v", series[0])
	}
	if series[1].Month.Month() != time.March || series[1].Patients != 2 {
		t.Errorf("march: got %v", series[1])
	}
	sum := 0
	for _, mc := range series {
		sum += mc.Patients
	}
	if sum != 3 {
		t.Errorf("monthly sum: got %d, want 3 (P1 counted in two months)", sum)
	}
}

func TestCoveredProcedureCount(t *testing.T) {
	self := SelfPayPayerID
	other := "pay1"
	encs := []model.Encounter{
		{ID: "e1", Payer: &other},
		{ID: "e2", Payer: &self},
		{ID: "e3"},
	}
	procs := []model.Procedure{
		{Encounter: "e1"}, {Encounter: "e1"}, {Encounter: "e2"}, {Encounter: "e3"}, {Encounter: "e9"},
	}
	if got := CoveredProcedureCount(encs, procs, SelfPayPayerID); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}

func TestCompute(t *testing.T) {
	s := Compute(scenario(), 2, nil, SelfPayPayerID)
	if s.ReadmittedPatients != 1 || s.Encounters != 3 || s.Patients != 2 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.AvgCost == nil || math.Abs(*s.AvgCost-300) > 1e-9 {
		t.Errorf("AvgCost: %v", s.AvgCost)
	}
	empty := Compute(nil, 0, nil, SelfPayPayerID)
	if empty.AvgCost != nil || empty.AvgStayHours != nil {
		t.Error("averages should be nil without data")
	}
}
