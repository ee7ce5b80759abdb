package model

import (
	"time"

	"github.com/google/uuid"
)

// FactRow is the warehouse representation of one joined encounter.
type FactRow struct {
	RunID            uuid.UUID
	EncounterID      string
	PatientID        string
	FirstName        *string
	LastName         *string
	Gender           *string
	BirthDate        *time.Time
	OrganizationID   *string
	OrganizationName *string
	PayerID          *string
	PayerName        *string
	StartAt          *time.Time
	StopAt           *time.Time
	StayHours        *float64
	ClaimCostCents   *int64
}

// FactColumns returns the ordered column names for COPY into analytics.encounter_facts.
func FactColumns() []string {
	return []string{
		"run_id",
		"encounter_id",
		"patient_id",
		"first_name",
		"last_name",
		"gender",
		"birth_date",
		"organization_id",
		"organization_name",
		"payer_id",
		"payer_name",
		"start_at",
		"stop_at",
		"stay_hours",
		"claim_cost_cents",
	}
}

// CopyValues returns the row values in the same order as FactColumns(),
// suitable for pgx CopyFromSource.
func (r *FactRow) CopyValues() []any {
	return []any{
		r.RunID,
		r.EncounterID,
		r.PatientID,
		r.FirstName,
		r.LastName,
		r.Gender,
		r.BirthDate,
		r.OrganizationID,
		r.OrganizationName,
		r.PayerID,
		r.PayerName,
		r.StartAt,
		r.StopAt,
		r.StayHours,
		r.ClaimCostCents,
	}
}
