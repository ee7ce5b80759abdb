package model

// SnapshotRow mirrors the Parquet schema of a joined-record snapshot.
// Timestamps are stored as Unix milliseconds.
type SnapshotRow struct {
	EncounterID      string  `parquet:"encounter_id"`
	PatientID        string  `parquet:"patient_id"`
	Organization     *string `parquet:"organization,optional"`
	OrganizationName *string `parquet:"organization_name,optional"`
	Payer            *string `parquet:"payer,optional"`
	PayerName        *string `parquet:"payer_name,optional"`
	StartMillis      *int64  `parquet:"start_ms,optional"`
	StopMillis       *int64  `parquet:"stop_ms,optional"`
	EncounterClass   *string `parquet:"encounter_class,optional"`
	Description      *string `parquet:"description,optional"`
	TotalClaimCost   *string `parquet:"total_claim_cost,optional"`

	Prefix      *string `parquet:"prefix,optional"`
	First       *string `parquet:"first,optional"`
	Last        *string `parquet:"last,optional"`
	Gender      *string `parquet:"gender,optional"`
	BirthDateMs *int64  `parquet:"birthdate_ms,optional"`
	DeathDateMs *int64  `parquet:"deathdate_ms,optional"`
}

// ProcedureRow mirrors the Parquet schema of a procedure snapshot.
type ProcedureRow struct {
	ID          *string  `parquet:"id,optional"`
	EncounterID string   `parquet:"encounter_id"`
	PatientID   *string  `parquet:"patient_id,optional"`
	Code        *string  `parquet:"code,optional"`
	Description *string  `parquet:"description,optional"`
	BaseCost    *float64 `parquet:"base_cost,optional"`
}

// EncounterRow mirrors the Parquet schema of the full encounters table,
// including encounters whose patient is unknown.
type EncounterRow struct {
	ID             string  `parquet:"id"`
	PatientID      string  `parquet:"patient_id"`
	Organization   *string `parquet:"organization,optional"`
	Payer          *string `parquet:"payer,optional"`
	StartMillis    *int64  `parquet:"start_ms,optional"`
	StopMillis     *int64  `parquet:"stop_ms,optional"`
	EncounterClass *string `parquet:"encounter_class,optional"`
	Description    *string `parquet:"description,optional"`
	TotalClaimCost *string `parquet:"total_claim_cost,optional"`
}

// PatientRow mirrors the Parquet schema of the full patients table,
// including patients without encounters.
type PatientRow struct {
	ID          string  `parquet:"id"`
	Prefix      *string `parquet:"prefix,optional"`
	First       *string `parquet:"first,optional"`
	Last        *string `parquet:"last,optional"`
	Gender      *string `parquet:"gender,optional"`
	BirthDateMs *int64  `parquet:"birthdate_ms,optional"`
	DeathDateMs *int64  `parquet:"deathdate_ms,optional"`
}
