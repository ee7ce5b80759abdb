package dataset

import (
	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/table"
)

// cells maps column names to positions so optional columns can be absent.
type cells map[string]int

func newCells(t *table.Table) cells {
	c := make(cells, len(t.Columns))
	for i, col := range t.Columns {
		c[col] = i
	}
	return c
}

func (c cells) get(row table.Row, col string) *string {
	i, ok := c[col]
	if !ok {
		return nil
	}
	return row[i]
}

func (c cells) str(row table.Row, col string) string {
	return table.Deref(c.get(row, col))
}

// ToEncounters converts a validated encounters table.
func ToEncounters(t *table.Table) ([]model.Encounter, error) {
	if err := ValidateSchema(t, Encounters); err != nil {
		return nil, err
	}
	c := newCells(t)
	out := make([]model.Encounter, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, model.Encounter{
			ID:           c.str(row, ColID),
			Patient:      c.str(row, ColPatient),
			Organization: c.get(row, ColOrganization),
			Payer:        c.get(row, ColPayer),
			Start:        table.ParseTime(c.get(row, ColStart)),
			Stop:         table.ParseTime(c.get(row, ColStop)),
			Class:        c.get(row, ColEncounterClass),
			Description:  c.get(row, ColDescription),
			ClaimCost:    c.get(row, ColTotalClaimCost),
		})
	}
	return out, nil
}

// ToPatients converts a validated patients table.
func ToPatients(t *table.Table) ([]model.Patient, error) {
	if err := ValidateSchema(t, Patients); err != nil {
		return nil, err
	}
	c := newCells(t)
	out := make([]model.Patient, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, model.Patient{
			ID:        c.str(row, ColID),
			Prefix:    c.get(row, ColPrefix),
			First:     c.get(row, ColFirst),
			Last:      c.get(row, ColLast),
			BirthDate: table.ParseTime(c.get(row, ColBirthDate)),
			DeathDate: table.ParseTime(c.get(row, ColDeathDate)),
			Gender:    c.get(row, ColGender),
		})
	}
	return out, nil
}

// ToProcedures converts a validated procedures table. Base costs that are
// not numeric become nil.
func ToProcedures(t *table.Table) ([]model.Procedure, error) {
	if err := ValidateSchema(t, Procedures); err != nil {
		return nil, err
	}
	c := newCells(t)
	out := make([]model.Procedure, 0, t.Len())
	for _, row := range t.Rows {
		p := model.Procedure{
			ID:          c.get(row, ColID),
			Encounter:   c.str(row, ColEncounter),
			Patient:     c.get(row, ColPatient),
			Code:        c.get(row, ColCode),
			Description: c.get(row, ColDescription),
		}
		if v, ok := table.ParseFloat(c.get(row, ColBaseCost)); ok {
			p.BaseCost = &v
		}
		out = append(out, p)
	}
	return out, nil
}

// ToOrganizations converts a validated organizations table.
func ToOrganizations(t *table.Table) ([]model.Organization, error) {
	if err := ValidateSchema(t, Organizations); err != nil {
		return nil, err
	}
	c := newCells(t)
	out := make([]model.Organization, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, model.Organization{
			ID:   c.str(row, ColID),
			Name: c.get(row, ColName),
			City: c.get(row, ColCity),
		})
	}
	return out, nil
}

// ToPayers converts a validated payers table.
func ToPayers(t *table.Table) ([]model.Payer, error) {
	if err := ValidateSchema(t, Payers); err != nil {
		return nil, err
	}
	c := newCells(t)
	out := make([]model.Payer, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, model.Payer{
			ID:   c.str(row, ColID),
			Name: c.get(row, ColName),
		})
	}
	return out, nil
}
