// Package report renders dashboard metrics and cleaning results into an
// Excel workbook.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/gyeh/recordstats/internal/model"
)

// Sheet names.
const (
	SheetSummary      = "Summary"
	SheetReadmissions = "Readmissions"
	SheetMissing      = "Missing"
	SheetOutliers     = "Outliers"
)

// Build renders s into a new workbook. The Missing and Outliers sheets are
// only added when cs is non-nil.
func Build(s model.Summary, cs *model.CleanSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	w := &sheetWriter{f: f, header: header}

	w.rows(SheetSummary, []string{"Metric", "Value"}, [][]any{
		{"Readmitted patients", s.ReadmittedPatients},
		{"Average stay (hours)", optional(s.AvgStayHours)},
		{"Average claim cost", optional(s.AvgCost)},
		{"Procedures covered", s.ProceduresCovered},
		{"Encounters", s.Encounters},
		{"Patients", s.Patients},
		{"Procedures", s.Procedures},
	})

	months := make([][]any, len(s.Readmissions))
	for i, m := range s.Readmissions {
		months[i] = []any{m.Month.Format("2006-01"), m.Patients}
	}
	w.sheet(SheetReadmissions)
	w.rows(SheetReadmissions, []string{"Month", "Readmitted Patients"}, months)

	if cs != nil {
		var missing, outliers [][]any
		for _, ts := range cs.Tables {
			for _, mc := range ts.Missing {
				missing = append(missing, []any{ts.Table, mc.Column, mc.Count})
			}
			cols := make([]string, 0, len(ts.Outliers))
			for col := range ts.Outliers {
				cols = append(cols, col)
			}
			sort.Strings(cols)
			for _, col := range cols {
				outliers = append(outliers, []any{ts.Table, col, ts.Outliers[col]})
			}
		}
		w.sheet(SheetMissing)
		w.rows(SheetMissing, []string{"Table", "Column", "Missing Values Count"}, missing)
		w.sheet(SheetOutliers)
		w.rows(SheetOutliers, []string{"Table", "Column", "Outlier Rows"}, outliers)
	}

	if w.err != nil {
		return nil, w.err
	}
	return f, nil
}

// Write builds the workbook and saves it to path.
func Write(path string, s model.Summary, cs *model.CleanSummary) error {
	f, err := Build(s, cs)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	defer f.Close()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// optional renders a missing average as an empty cell.
func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

// sheetWriter keeps the first error so Build can chain calls.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) sheet(name string) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.NewSheet(name)
}

func (w *sheetWriter) rows(sheet string, header []string, rows [][]any) {
	if w.err != nil {
		return
	}
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if w.err = w.f.SetSheetRow(sheet, "A1", &hdr); w.err != nil {
		return
	}
	if w.err = w.f.SetRowStyle(sheet, 1, 1, w.header); w.err != nil {
		return
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			w.err = err
			return
		}
		if w.err = w.f.SetSheetRow(sheet, cell, &row); w.err != nil {
			return
		}
	}
}
