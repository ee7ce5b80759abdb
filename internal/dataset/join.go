package dataset

import "github.com/gyeh/recordstats/internal/model"

// Join inner-joins encounters to patients on patient id, in encounter order.
// Encounters whose patient is unknown are dropped; a patient id listed twice
// yields one record per matching patient row.
func Join(ds *Dataset) []model.JoinedRecord {
	patients := make(map[string][]int, len(ds.Patients))
	for i, p := range ds.Patients {
		if p.ID == "" {
			continue
		}
		patients[p.ID] = append(patients[p.ID], i)
	}
	orgNames := make(map[string]*string, len(ds.Organizations))
	for _, o := range ds.Organizations {
		orgNames[o.ID] = o.Name
	}
	payerNames := make(map[string]*string, len(ds.Payers))
	for _, p := range ds.Payers {
		payerNames[p.ID] = p.Name
	}

	var out []model.JoinedRecord
	for _, enc := range ds.Encounters {
		if enc.Patient == "" {
			continue
		}
		for _, pi := range patients[enc.Patient] {
			rec := model.JoinedRecord{
				Encounter: enc,
				Patient:   ds.Patients[pi],
			}
			if enc.Organization != nil {
				rec.OrganizationName = orgNames[*enc.Organization]
			}
			if enc.Payer != nil {
				rec.PayerName = payerNames[*enc.Payer]
			}
			out = append(out, rec)
		}
	}
	return out
}
