// Package metrics computes the dashboard aggregates over encounters and
// procedures.
package metrics

import (
	"sort"
	"time"

	"github.com/aclements/go-moremath/stats"

	"github.com/gyeh/recordstats/internal/model"
)

// SelfPayPayerID is the payer id that stands for "no insurance" in the
// source data.
const SelfPayPayerID = "b1c428d6-4f07-31e0-90f0-68ffa6ff8c76"

// ReadmissionSeries counts, per calendar month of encounter start, the
// distinct patients who have more than one encounter overall. It also
// returns the total number of such patients. Encounters without a parseable
// start still count toward a patient's total but are not placed in a month.
func ReadmissionSeries(encounters []model.Encounter) ([]model.MonthCount, int) {
	visits := make(map[string]int)
	for _, e := range encounters {
		if e.Patient != "" {
			visits[e.Patient]++
		}
	}

	readmitted := 0
	for _, n := range visits {
		if n > 1 {
			readmitted++
		}
	}

	months := make(map[time.Time]map[string]struct{})
	for _, e := range encounters {
		if visits[e.Patient] < 2 || e.Start == nil {
			continue
		}
		s := e.Start.UTC()
		m := time.Date(s.Year(), s.Month(), 1, 0, 0, 0, 0, time.UTC)
		if months[m] == nil {
			months[m] = make(map[string]struct{})
		}
		months[m][e.Patient] = struct{}{}
	}

	series := make([]model.MonthCount, 0, len(months))
	for m, patients := range months {
		series = append(series, model.MonthCount{Month: m, Patients: len(patients)})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month.Before(series[j].Month)
	})
	return series, readmitted
}

// AverageStayHours is the mean stop-minus-start in hours over encounters
// with both timestamps. ok is false when no encounter qualifies.
func AverageStayHours(encounters []model.Encounter) (float64, bool) {
	var xs []float64
	for i := range encounters {
		if h, ok := encounters[i].StayHours(); ok {
			xs = append(xs, h)
		}
	}
	return mean(xs)
}

// AverageCost is the mean coerced claim cost. Costs that do not coerce are
// left out rather than counted as zero.
func AverageCost(encounters []model.Encounter) (float64, bool) {
	var xs []float64
	for i := range encounters {
		if c, ok := encounters[i].Cost(); ok {
			xs = append(xs, c)
		}
	}
	return mean(xs)
}

// CoveredProcedureCount counts procedures whose encounter was not billed to
// excludedPayerID. This approximates insurance coverage by payer identity;
// encounters with no payer count as covered.
func CoveredProcedureCount(encounters []model.Encounter, procedures []model.Procedure, excludedPayerID string) int {
	covered := make(map[string]struct{}, len(encounters))
	for _, e := range encounters {
		if e.Payer != nil && *e.Payer == excludedPayerID {
			continue
		}
		covered[e.ID] = struct{}{}
	}
	n := 0
	for _, p := range procedures {
		if _, ok := covered[p.Encounter]; ok {
			n++
		}
	}
	return n
}

// Compute gathers every dashboard metric into a Summary.
func Compute(encounters []model.Encounter, patients int, procedures []model.Procedure, excludedPayerID string) model.Summary {
	series, readmitted := ReadmissionSeries(encounters)
	s := model.Summary{
		ReadmittedPatients: readmitted,
		ProceduresCovered:  CoveredProcedureCount(encounters, procedures, excludedPayerID),
		Readmissions:       series,
		Encounters:         len(encounters),
		Patients:           patients,
		Procedures:         len(procedures),
	}
	if v, ok := AverageStayHours(encounters); ok {
		s.AvgStayHours = &v
	}
	if v, ok := AverageCost(encounters); ok {
		s.AvgCost = &v
	}
	return s
}

func mean(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	return stats.Sample{Xs: xs}.Mean(), true
}
