// Package clean holds the row-table cleaning steps: deduplication, missing
// value reporting, categorical fills, date normalization and placeholders.
// Every function returns new tables and leaves its input untouched.
package clean

import "github.com/gyeh/recordstats/internal/table"

// RemoveDuplicates splits t into the first occurrence of every distinct row
// and the later exact repeats. Row order is preserved in both outputs.
func RemoveDuplicates(t *table.Table) (unique, duplicates *table.Table) {
	unique = t.Empty()
	duplicates = t.Empty()
	seen := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		key := table.RowKey(row)
		if _, ok := seen[key]; ok {
			duplicates.Rows = append(duplicates.Rows, copyRow(row))
			continue
		}
		seen[key] = struct{}{}
		unique.Rows = append(unique.Rows, copyRow(row))
	}
	return unique, duplicates
}

func copyRow(r table.Row) table.Row {
	c := make(table.Row, len(r))
	copy(c, r)
	return c
}
