// Package dataset validates raw source tables against a per-kind schema and
// converts them to typed records.
package dataset

import (
	"fmt"
	"sort"

	"github.com/gyeh/recordstats/internal/table"
)

// Kind names one of the five source tables.
type Kind string

const (
	Encounters    Kind = "encounters"
	Patients      Kind = "patients"
	Organizations Kind = "organizations"
	Payers        Kind = "payers"
	Procedures    Kind = "procedures"
)

// AllKinds lists the source tables in load order.
var AllKinds = []Kind{Encounters, Patients, Organizations, Payers, Procedures}

// KindByName returns the Kind for name, or ok=false.
func KindByName(name string) (Kind, bool) {
	for _, k := range AllKinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// Column names shared by the source files.
const (
	ColID                = "Id"
	ColStart             = "START"
	ColStop              = "STOP"
	ColPatient           = "PATIENT"
	ColOrganization      = "ORGANIZATION"
	ColPayer             = "PAYER"
	ColEncounterClass    = "ENCOUNTERCLASS"
	ColDescription       = "DESCRIPTION"
	ColTotalClaimCost    = "TOTAL_CLAIM_COST"
	ColBaseEncounterCost = "BASE_ENCOUNTER_COST"
	ColPrefix            = "PREFIX"
	ColFirst             = "FIRST"
	ColLast              = "LAST"
	ColBirthDate         = "BIRTHDATE"
	ColDeathDate         = "DEATHDATE"
	ColGender            = "GENDER"
	ColEncounter         = "ENCOUNTER"
	ColCode              = "CODE"
	ColBaseCost          = "BASE_COST"
	ColName              = "NAME"
	ColCity              = "CITY"
)

// requiredColumns lists, per kind, the columns a source must carry.
var requiredColumns = map[Kind][]string{
	Encounters:    {ColID, ColStart, ColStop, ColPatient, ColOrganization, ColPayer, ColTotalClaimCost},
	Patients:      {ColID, ColFirst, ColLast, ColBirthDate, ColGender},
	Organizations: {ColID, ColName},
	Payers:        {ColID, ColName},
	Procedures:    {ColEncounter, ColBaseCost},
}

// SchemaError reports a source table missing a required column.
type SchemaError struct {
	Kind    Kind
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns %v", e.Kind, e.Missing)
}

// RequiredColumns returns the columns kind must carry.
func RequiredColumns(kind Kind) []string {
	return requiredColumns[kind]
}

// ValidateSchema checks that t carries every column required for kind.
func ValidateSchema(t *table.Table, kind Kind) error {
	req, ok := requiredColumns[kind]
	if !ok {
		return fmt.Errorf("unknown table kind %q", kind)
	}
	var missing []string
	for _, col := range req {
		if !t.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &SchemaError{Kind: kind, Missing: missing}
	}
	return nil
}
