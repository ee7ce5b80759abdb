package outlier

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/gyeh/recordstats/internal/table"
)

// Whisker is the IQR multiplier used for the acceptable range.
const Whisker = 1.5

// Bounds is the acceptable range computed for one numeric column.
type Bounds struct {
	Q1, Q3       float64
	IQR          float64
	Lower, Upper float64
	N            int // numeric values the bounds were computed from
}

// Contains reports whether v lies within [Lower, Upper].
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Quantile returns the q-th quantile of sorted using linear interpolation
// between closest ranks. sorted must be ascending and non-empty.
func Quantile(sorted []float64, q float64) float64 {
	idx := q * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// ComputeBounds derives Q1, Q3 and the whisker range from values.
// ok is false when values is empty.
func ComputeBounds(values []float64) (b Bounds, ok bool) {
	if len(values) == 0 {
		return Bounds{}, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	b.N = len(sorted)
	b.Q1 = Quantile(sorted, 0.25)
	b.Q3 = Quantile(sorted, 0.75)
	b.IQR = b.Q3 - b.Q1
	b.Lower = b.Q1 - Whisker*b.IQR
	b.Upper = b.Q3 + Whisker*b.IQR
	return b, true
}

// Result is the outcome of DetectAndRedact.
type Result struct {
	Column   string
	Bounds   Bounds
	HasBound bool         // false when the column held no numeric values
	Cleaned  *table.Table // input rows with out-of-range cells set missing
	Outliers *table.Table // full, unmodified copies of the flagged rows
}

// ErrUnknownColumn is returned when the target column does not exist.
var ErrUnknownColumn = errors.New("unknown column")

// DetectAndRedact flags rows whose numeric value in column falls outside the
// IQR range. Flagged rows are copied to Outliers and their cell is redacted
// in Cleaned. Non-numeric and missing cells never count as outliers.
func DetectAndRedact(t *table.Table, column string) (*Result, error) {
	idx := t.Index(column)
	if idx < 0 {
		return nil, fmt.Errorf("outliers in %s: %w %q", t.Name, ErrUnknownColumn, column)
	}

	var values []float64
	for _, row := range t.Rows {
		if v, ok := table.ParseFloat(row[idx]); ok {
			values = append(values, v)
		}
	}

	res := &Result{
		Column:   column,
		Cleaned:  t.Clone(),
		Outliers: t.Empty(),
	}
	res.Bounds, res.HasBound = ComputeBounds(values)
	if !res.HasBound {
		return res, nil
	}

	for i, row := range res.Cleaned.Rows {
		v, ok := table.ParseFloat(row[idx])
		if !ok || res.Bounds.Contains(v) {
			continue
		}
		res.Outliers.Rows = append(res.Outliers.Rows, slices.Clone(t.Rows[i]))
		row[idx] = nil
	}
	return res, nil
}
