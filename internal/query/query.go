package query

import (
	"errors"
	"sort"
	"strings"

	"github.com/gyeh/recordstats/internal/model"
)

// Lookup is the outcome of a patient search. A nil *Lookup means no search
// was attempted; a non-nil Lookup with no records is a search that matched
// nothing.
type Lookup struct {
	Query   string
	Records []model.JoinedRecord
}

// Found reports whether the lookup matched at least one record.
func (l *Lookup) Found() bool {
	return l != nil && len(l.Records) > 0
}

// ByID returns the records whose patient id equals id exactly.
func ByID(records []model.JoinedRecord, id string) *Lookup {
	l := &Lookup{Query: id, Records: []model.JoinedRecord{}}
	for _, r := range records {
		if r.Patient.ID == id {
			l.Records = append(l.Records, r)
		}
	}
	return l
}

// ByName returns the records whose first or last name contains text,
// ignoring case. Missing names never match.
func ByName(records []model.JoinedRecord, text string) *Lookup {
	l := &Lookup{Query: text, Records: []model.JoinedRecord{}}
	needle := strings.ToLower(text)
	for _, r := range records {
		if containsFold(r.Patient.First, needle) || containsFold(r.Patient.Last, needle) {
			l.Records = append(l.Records, r)
		}
	}
	return l
}

func containsFold(v *string, lowerNeedle string) bool {
	if v == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*v), lowerNeedle)
}

// ErrCostUncomputable is returned by VisitCost when no claim cost in a
// non-empty record set can be coerced to a number.
var ErrCostUncomputable = errors.New("visit cost: no claim cost could be read as a number")

// VisitCost sums the coerced claim costs of records. Costs that do not
// coerce are skipped; if none coerce, ErrCostUncomputable is returned.
func VisitCost(records []model.JoinedRecord) (float64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	var (
		sum    float64
		parsed int
	)
	for i := range records {
		if c, ok := records[i].Encounter.Cost(); ok {
			sum += c
			parsed++
		}
	}
	if parsed == 0 {
		return 0, ErrCostUncomputable
	}
	return sum, nil
}

// Stay is the stay length of one matched encounter; Hours is nil when either
// timestamp is unknown.
type Stay struct {
	EncounterID string   `json:"encounter_id"`
	Hours       *float64 `json:"hours"`
}

// StayHours lists the stay length of every record, in record order.
func StayHours(records []model.JoinedRecord) []Stay {
	out := make([]Stay, 0, len(records))
	for i := range records {
		s := Stay{EncounterID: records[i].Encounter.ID}
		if h, ok := records[i].Encounter.StayHours(); ok {
			s.Hours = &h
		}
		out = append(out, s)
	}
	return out
}

// CoveredByInsuranceCount counts procedures on the records' encounters with
// a strictly positive base cost. This is a different coverage proxy from
// metrics.CoveredProcedureCount, which excludes the self-pay payer instead.
func CoveredByInsuranceCount(records []model.JoinedRecord, procedures []model.Procedure) int {
	encounters := make(map[string]struct{}, len(records))
	for _, r := range records {
		encounters[r.Encounter.ID] = struct{}{}
	}
	n := 0
	for _, p := range procedures {
		if _, ok := encounters[p.Encounter]; !ok {
			continue
		}
		if p.BaseCost != nil && *p.BaseCost > 0 {
			n++
		}
	}
	return n
}

// PatientEntry is one line of the patient listing.
type PatientEntry struct {
	Patient    model.Patient `json:"patient"`
	Encounters int           `json:"encounters"`
}

// AllPatients lists every patient sorted by id, with the number of joined
// encounters each one has. Patients without encounters are included.
func AllPatients(patients []model.Patient, records []model.JoinedRecord) []PatientEntry {
	counts := make(map[string]int, len(patients))
	for _, r := range records {
		counts[r.Patient.ID]++
	}
	out := make([]PatientEntry, len(patients))
	for i, p := range patients {
		out[i] = PatientEntry{Patient: p, Encounters: counts[p.ID]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Patient.ID < out[j].Patient.ID })
	return out
}
