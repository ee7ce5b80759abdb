package clean

import (
	"strconv"

	"github.com/gyeh/recordstats/internal/table"
)

// MissingCount is the number of missing cells in one column.
type MissingCount struct {
	Column string
	Count  int
}

// ReportMissing counts missing cells per column, in column order.
// Columns without missing cells are omitted.
func ReportMissing(t *table.Table) []MissingCount {
	counts := make([]int, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			if v == nil {
				counts[i]++
			}
		}
	}
	var out []MissingCount
	for i, n := range counts {
		if n > 0 {
			out = append(out, MissingCount{Column: t.Columns[i], Count: n})
		}
	}
	return out
}

// MissingSummaryTable renders counts as a two-column table for export.
func MissingSummaryTable(name string, counts []MissingCount) *table.Table {
	out := table.New(name, []string{"Column", "Missing Values Count"})
	for _, mc := range counts {
		out.Append(table.Str(mc.Column), table.Str(strconv.Itoa(mc.Count)))
	}
	return out
}

// ExtractMissingRows returns the rows with at least one missing cell,
// restricted to the columns that have a missing cell anywhere in t.
func ExtractMissingRows(t *table.Table) *table.Table {
	var cols []string
	for _, mc := range ReportMissing(t) {
		cols = append(cols, mc.Column)
	}
	var rows []int
	for i, row := range t.Rows {
		if row.HasMissing() {
			rows = append(rows, i)
		}
	}
	return t.Select(rows, cols)
}

// FillPlaceholder replaces every missing cell with placeholder.
func FillPlaceholder(t *table.Table, placeholder string) *table.Table {
	out := t.Clone()
	for _, row := range out.Rows {
		for i, v := range row {
			if v == nil {
				row[i] = &placeholder
			}
		}
	}
	return out
}
