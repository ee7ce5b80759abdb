package model

import (
	"time"

	"github.com/gyeh/recordstats/internal/table"
)

// Encounter is one visit. ClaimCost keeps the source text (it may carry
// thousands separators) and is coerced on demand by Cost.
type Encounter struct {
	ID           string     `json:"id"`
	Patient      string     `json:"patient"`
	Organization *string    `json:"organization,omitempty"`
	Payer        *string    `json:"payer,omitempty"`
	Start        *time.Time `json:"start,omitempty"`
	Stop         *time.Time `json:"stop,omitempty"`
	Class        *string    `json:"encounter_class,omitempty"`
	Description  *string    `json:"description,omitempty"`
	ClaimCost    *string    `json:"total_claim_cost,omitempty"`
}

// Cost coerces the claim cost; ok is false when it is missing or not numeric.
func (e *Encounter) Cost() (float64, bool) {
	return table.ParseAmount(e.ClaimCost)
}

// StayHours is stop minus start in hours; ok is false when either is unknown.
func (e *Encounter) StayHours() (float64, bool) {
	if e.Start == nil || e.Stop == nil {
		return 0, false
	}
	return e.Stop.Sub(*e.Start).Hours(), true
}

// Patient holds demographics. Gender may be missing.
type Patient struct {
	ID        string     `json:"id"`
	Prefix    *string    `json:"prefix,omitempty"`
	First     *string    `json:"first,omitempty"`
	Last      *string    `json:"last,omitempty"`
	BirthDate *time.Time `json:"birthdate,omitempty"`
	DeathDate *time.Time `json:"deathdate,omitempty"`
	Gender    *string    `json:"gender,omitempty"`
}

// Procedure is a billed procedure tied to an encounter.
type Procedure struct {
	ID          *string  `json:"id,omitempty"`
	Encounter   string   `json:"encounter"`
	Patient     *string  `json:"patient,omitempty"`
	Code        *string  `json:"code,omitempty"`
	Description *string  `json:"description,omitempty"`
	BaseCost    *float64 `json:"base_cost,omitempty"`
}

// Organization is a care provider organization.
type Organization struct {
	ID   string  `json:"id"`
	Name *string `json:"name,omitempty"`
	City *string `json:"city,omitempty"`
}

// Payer is an insurer (or the self-pay sentinel).
type Payer struct {
	ID   string  `json:"id"`
	Name *string `json:"name,omitempty"`
}

// JoinedRecord is one encounter joined to its patient, with the
// organization and payer names resolved when known.
type JoinedRecord struct {
	Encounter        Encounter `json:"encounter"`
	Patient          Patient   `json:"patient"`
	OrganizationName *string   `json:"organization_name,omitempty"`
	PayerName        *string   `json:"payer_name,omitempty"`
}
