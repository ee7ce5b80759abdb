package describe

import (
	"math"
	"testing"

	"github.com/gyeh/recordstats/internal/table"
)

func numbers() *table.Table {
	t := table.New("procedures", []string{"CODE", "BASE_COST", "UNITS", "DATE", "NOTE"})
	rows := [][]string{
		{"a", "1", "2", "2021-01-01", "x"},
		{"b", "2", "4", "2021-01-02", ""},
		{"c", "3", "6", "2021-01-03", ""},
		{"d", "4", "8", "", ""},
	}
	for _, r := range rows {
		cells := make([]*string, len(r))
		for i, v := range r {
			if v != "" {
				cells[i] = table.Str(v)
			}
		}
		t.Append(cells...)
	}
	return t
}

func TestInfo(t *testing.T) {
	got := Info(numbers())
	want := []ColumnInfo{
		{"CODE", 4, KindText},
		{"BASE_COST", 4, KindNumeric},
		{"UNITS", 4, KindNumeric},
		{"DATE", 3, KindDate},
		{"NOTE", 1, KindText},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d]: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDescribe(t *testing.T) {
	got := Describe(numbers())
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}
	s := got[0]
	if s.Column != "BASE_COST" || s.Count != 4 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.Min != 1 || s.Max != 4 || s.Median != 2.5 || s.Q1 != 1.75 || s.Q3 != 3.25 {
		t.Errorf("quartiles: %+v", s)
	}
	if math.Abs(s.Mean-2.5) > 1e-9 {
		t.Errorf("mean: got %v", s.Mean)
	}
	if math.Abs(s.Std-math.Sqrt(5.0/3.0)) > 1e-9 {
		t.Errorf("std: got %v", s.Std)
	}
}

func TestCorrelation(t *testing.T) {
	cols, m := Correlation(numbers())
	if len(cols) != 2 {
		t.Fatalf("cols: %v", cols)
	}
	if math.Abs(m[0][1]-1) > 1e-9 || math.Abs(m[1][0]-1) > 1e-9 {
		t.Errorf("perfectly linear columns: got %v", m)
	}
}
