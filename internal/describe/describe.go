// Package describe summarizes row tables: per-column info, descriptive
// statistics for numeric columns, and their pairwise correlation.
package describe

import (
	"math"
	"slices"

	"github.com/aclements/go-moremath/stats"

	"github.com/gyeh/recordstats/internal/outlier"
	"github.com/gyeh/recordstats/internal/table"
)

// Column kinds inferred from cell contents.
const (
	KindNumeric = "numeric"
	KindDate    = "date"
	KindText    = "text"
	KindEmpty   = "empty"
)

// ColumnInfo is one line of a table overview.
type ColumnInfo struct {
	Column     string
	NonMissing int
	Kind       string
}

// Info lists every column with its non-missing count and inferred kind.
// A column is numeric (or date) only if every present cell parses as one.
func Info(t *table.Table) []ColumnInfo {
	out := make([]ColumnInfo, len(t.Columns))
	for i, col := range t.Columns {
		info := ColumnInfo{Column: col}
		numeric, date := true, true
		for _, row := range t.Rows {
			v := row[i]
			if v == nil {
				continue
			}
			info.NonMissing++
			if numeric {
				_, numeric = table.ParseFloat(v)
			}
			if date {
				date = table.ParseTime(v) != nil
			}
		}
		switch {
		case info.NonMissing == 0:
			info.Kind = KindEmpty
		case numeric:
			info.Kind = KindNumeric
		case date:
			info.Kind = KindDate
		default:
			info.Kind = KindText
		}
		out[i] = info
	}
	return out
}

// NumericSummary holds descriptive statistics for one numeric column.
type NumericSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64 // sample standard deviation; NaN when Count < 2
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// NumericColumns returns the names of columns Info classifies as numeric.
func NumericColumns(t *table.Table) []string {
	var cols []string
	for _, ci := range Info(t) {
		if ci.Kind == KindNumeric {
			cols = append(cols, ci.Column)
		}
	}
	return cols
}

// Describe computes a NumericSummary for every numeric column.
func Describe(t *table.Table) []NumericSummary {
	var out []NumericSummary
	for _, col := range NumericColumns(t) {
		xs := values(t, col)
		sorted := slices.Clone(xs)
		slices.Sort(sorted)

		s := stats.Sample{Xs: sorted, Sorted: true}
		lo, hi := s.Bounds()
		ns := NumericSummary{
			Column: col,
			Count:  len(sorted),
			Mean:   s.Mean(),
			Std:    math.NaN(),
			Min:    lo,
			Q1:     outlier.Quantile(sorted, 0.25),
			Median: outlier.Quantile(sorted, 0.5),
			Q3:     outlier.Quantile(sorted, 0.75),
			Max:    hi,
		}
		if len(sorted) > 1 {
			ns.Std = s.StdDev()
		}
		out = append(out, ns)
	}
	return out
}

// Correlation returns the Pearson correlation matrix of the numeric columns,
// using only rows where both columns are present. Entries with fewer than
// two paired rows or zero variance are NaN.
func Correlation(t *table.Table) ([]string, [][]float64) {
	cols := NumericColumns(t)
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = t.Index(c)
	}
	m := make([][]float64, len(cols))
	for i := range cols {
		m[i] = make([]float64, len(cols))
		for j := range cols {
			m[i][j] = pearson(t, idx[i], idx[j])
		}
	}
	return cols, m
}

func values(t *table.Table, col string) []float64 {
	var xs []float64
	for _, v := range t.Column(col) {
		if f, ok := table.ParseFloat(v); ok {
			xs = append(xs, f)
		}
	}
	return xs
}

func pearson(t *table.Table, a, b int) float64 {
	var xs, ys []float64
	for _, row := range t.Rows {
		x, okx := table.ParseFloat(row[a])
		y, oky := table.ParseFloat(row[b])
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	mx := stats.Sample{Xs: xs}.Mean()
	my := stats.Sample{Xs: ys}.Mean()
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	return sxy / math.Sqrt(sxx*syy)
}
