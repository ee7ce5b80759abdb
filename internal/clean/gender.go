package clean

import (
	"fmt"

	"github.com/gyeh/recordstats/internal/table"
)

// Patient columns used by FillGenderFromPrefix.
const (
	GenderColumn = "GENDER"
	PrefixColumn = "PREFIX"
)

// GenderByPrefix maps honorific prefixes to gender codes.
var GenderByPrefix = map[string]string{
	"Mrs.": "F",
	"Ms.":  "F",
	"Mr.":  "M",
}

// PrefixPolicy decides what happens to a missing gender whose prefix has no
// entry in GenderByPrefix.
type PrefixPolicy string

const (
	// PrefixLeave keeps the gender missing and counts it as unresolved.
	PrefixLeave PrefixPolicy = "leave"
	// PrefixFail aborts with an UnmappedPrefixError.
	PrefixFail PrefixPolicy = "fail"
)

// UnmappedPrefixError reports the first row whose gender could not be derived.
type UnmappedPrefixError struct {
	Row    int
	Prefix *string
}

func (e *UnmappedPrefixError) Error() string {
	if e.Prefix == nil {
		return fmt.Sprintf("row %d: gender missing and prefix missing", e.Row)
	}
	return fmt.Sprintf("row %d: no gender mapping for prefix %q", e.Row, *e.Prefix)
}

// FillGenderFromPrefix fills missing GENDER cells from the PREFIX column.
// It returns the filled table and the number of rows left unresolved.
func FillGenderFromPrefix(t *table.Table, policy PrefixPolicy) (*table.Table, int, error) {
	gi, pi := t.Index(GenderColumn), t.Index(PrefixColumn)
	if gi < 0 || pi < 0 {
		return nil, 0, fmt.Errorf("fill gender: %s needs %s and %s columns", t.Name, GenderColumn, PrefixColumn)
	}

	out := t.Clone()
	unresolved := 0
	for i, row := range out.Rows {
		if row[gi] != nil {
			continue
		}
		prefix := row[pi]
		if prefix != nil {
			if g, ok := GenderByPrefix[*prefix]; ok {
				row[gi] = &g
				continue
			}
		}
		if policy == PrefixFail {
			return nil, 0, &UnmappedPrefixError{Row: i, Prefix: prefix}
		}
		unresolved++
	}
	return out, unresolved, nil
}
