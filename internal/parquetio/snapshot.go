// Package parquetio writes and reads columnar snapshots of a dataset so
// later runs can recompute metrics without the raw CSV sources.
package parquetio

import (
	"path/filepath"
	"time"

	"github.com/gyeh/recordstats/internal/dataset"
	"github.com/gyeh/recordstats/internal/model"
)

// File names inside a snapshot directory.
const (
	RecordsFile    = "records.parquet"
	EncountersFile = "encounters.parquet"
	PatientsFile   = "patients.parquet"
	ProceduresFile = "procedures.parquet"
)

// Snapshot is the content of a snapshot directory. Records are the joined
// view; Encounters and Patients are the full tables the metrics run over.
type Snapshot struct {
	Records    []model.JoinedRecord
	Encounters []model.Encounter
	Patients   []model.Patient
	Procedures []model.Procedure
}

// FromDataset builds a snapshot of ds.
func FromDataset(ds *dataset.Dataset) *Snapshot {
	return &Snapshot{
		Records:    dataset.Join(ds),
		Encounters: ds.Encounters,
		Patients:   ds.Patients,
		Procedures: ds.Procedures,
	}
}

// WriteSnapshot writes every part of s under dir.
func WriteSnapshot(dir string, s *Snapshot) error {
	rows := make([]model.SnapshotRow, len(s.Records))
	for i := range s.Records {
		rows[i] = FromRecord(&s.Records[i])
	}
	if err := writeAll(filepath.Join(dir, RecordsFile), rows); err != nil {
		return err
	}

	encs := make([]model.EncounterRow, len(s.Encounters))
	for i := range s.Encounters {
		encs[i] = encounterRow(&s.Encounters[i])
	}
	if err := writeAll(filepath.Join(dir, EncountersFile), encs); err != nil {
		return err
	}

	pats := make([]model.PatientRow, len(s.Patients))
	for i := range s.Patients {
		pats[i] = patientRow(&s.Patients[i])
	}
	if err := writeAll(filepath.Join(dir, PatientsFile), pats); err != nil {
		return err
	}

	procs := make([]model.ProcedureRow, len(s.Procedures))
	for i, p := range s.Procedures {
		procs[i] = model.ProcedureRow{
			ID:          p.ID,
			EncounterID: p.Encounter,
			PatientID:   p.Patient,
			Code:        p.Code,
			Description: p.Description,
			BaseCost:    p.BaseCost,
		}
	}
	return writeAll(filepath.Join(dir, ProceduresFile), procs)
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(dir string) (*Snapshot, error) {
	rows, err := readAll[model.SnapshotRow](filepath.Join(dir, RecordsFile), "encounter_id", "patient_id")
	if err != nil {
		return nil, err
	}
	encs, err := readAll[model.EncounterRow](filepath.Join(dir, EncountersFile), "id", "patient_id")
	if err != nil {
		return nil, err
	}
	pats, err := readAll[model.PatientRow](filepath.Join(dir, PatientsFile), "id")
	if err != nil {
		return nil, err
	}
	procs, err := readAll[model.ProcedureRow](filepath.Join(dir, ProceduresFile), "encounter_id")
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		Records:    make([]model.JoinedRecord, len(rows)),
		Encounters: make([]model.Encounter, len(encs)),
		Patients:   make([]model.Patient, len(pats)),
		Procedures: make([]model.Procedure, len(procs)),
	}
	for i := range rows {
		s.Records[i] = ToRecord(&rows[i])
	}
	for i := range encs {
		s.Encounters[i] = toEncounter(&encs[i])
	}
	for i := range pats {
		s.Patients[i] = toPatient(&pats[i])
	}
	for i, p := range procs {
		s.Procedures[i] = model.Procedure{
			ID:          p.ID,
			Encounter:   p.EncounterID,
			Patient:     p.PatientID,
			Code:        p.Code,
			Description: p.Description,
			BaseCost:    p.BaseCost,
		}
	}
	return s, nil
}

// FromRecord flattens a joined record into a snapshot row.
func FromRecord(r *model.JoinedRecord) model.SnapshotRow {
	e := encounterRow(&r.Encounter)
	p := patientRow(&r.Patient)
	return model.SnapshotRow{
		EncounterID:      e.ID,
		PatientID:        p.ID,
		Organization:     e.Organization,
		OrganizationName: r.OrganizationName,
		Payer:            e.Payer,
		PayerName:        r.PayerName,
		StartMillis:      e.StartMillis,
		StopMillis:       e.StopMillis,
		EncounterClass:   e.EncounterClass,
		Description:      e.Description,
		TotalClaimCost:   e.TotalClaimCost,
		Prefix:           p.Prefix,
		First:            p.First,
		Last:             p.Last,
		Gender:           p.Gender,
		BirthDateMs:      p.BirthDateMs,
		DeathDateMs:      p.DeathDateMs,
	}
}

// ToRecord rebuilds a joined record from a snapshot row.
func ToRecord(row *model.SnapshotRow) model.JoinedRecord {
	return model.JoinedRecord{
		Encounter: toEncounter(&model.EncounterRow{
			ID:             row.EncounterID,
			PatientID:      row.PatientID,
			Organization:   row.Organization,
			Payer:          row.Payer,
			StartMillis:    row.StartMillis,
			StopMillis:     row.StopMillis,
			EncounterClass: row.EncounterClass,
			Description:    row.Description,
			TotalClaimCost: row.TotalClaimCost,
		}),
		Patient: toPatient(&model.PatientRow{
			ID:          row.PatientID,
			Prefix:      row.Prefix,
			First:       row.First,
			Last:        row.Last,
			Gender:      row.Gender,
			BirthDateMs: row.BirthDateMs,
			DeathDateMs: row.DeathDateMs,
		}),
		OrganizationName: row.OrganizationName,
		PayerName:        row.PayerName,
	}
}

func encounterRow(e *model.Encounter) model.EncounterRow {
	return model.EncounterRow{
		ID:             e.ID,
		PatientID:      e.Patient,
		Organization:   e.Organization,
		Payer:          e.Payer,
		StartMillis:    toMillis(e.Start),
		StopMillis:     toMillis(e.Stop),
		EncounterClass: e.Class,
		Description:    e.Description,
		TotalClaimCost: e.ClaimCost,
	}
}

func toEncounter(row *model.EncounterRow) model.Encounter {
	return model.Encounter{
		ID:           row.ID,
		Patient:      row.PatientID,
		Organization: row.Organization,
		Payer:        row.Payer,
		Start:        fromMillis(row.StartMillis),
		Stop:         fromMillis(row.StopMillis),
		Class:        row.EncounterClass,
		Description:  row.Description,
		ClaimCost:    row.TotalClaimCost,
	}
}

func patientRow(p *model.Patient) model.PatientRow {
	return model.PatientRow{
		ID:          p.ID,
		Prefix:      p.Prefix,
		First:       p.First,
		Last:        p.Last,
		Gender:      p.Gender,
		BirthDateMs: toMillis(p.BirthDate),
		DeathDateMs: toMillis(p.DeathDate),
	}
}

func toPatient(row *model.PatientRow) model.Patient {
	return model.Patient{
		ID:        row.ID,
		Prefix:    row.Prefix,
		First:     row.First,
		Last:      row.Last,
		BirthDate: fromMillis(row.BirthDateMs),
		DeathDate: fromMillis(row.DeathDateMs),
		Gender:    row.Gender,
	}
}

func toMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func fromMillis(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}
