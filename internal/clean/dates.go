package clean

import (
	"strings"

	"github.com/itchyny/timefmt-go"

	"github.com/gyeh/recordstats/internal/table"
)

// NormalizeDates rewrites each named column into canonical date cells.
// formats maps column name to a strftime layout such as "%Y-%m-%d".
// Pipes are turned into dashes before parsing; values that still fail to
// parse become missing. Columns absent from t are skipped.
func NormalizeDates(t *table.Table, formats map[string]string) *table.Table {
	out := t.Clone()
	for col, layout := range formats {
		idx := out.Index(col)
		if idx < 0 {
			continue
		}
		for _, row := range out.Rows {
			row[idx] = normalizeDate(row[idx], layout)
		}
	}
	return out
}

func normalizeDate(v *string, layout string) *string {
	if v == nil {
		return nil
	}
	s := strings.ReplaceAll(strings.TrimSpace(*v), "|", "-")
	ts, err := timefmt.Parse(s, layout)
	if err != nil {
		return nil
	}
	formatted := table.FormatTime(ts.UTC())
	return &formatted
}
