package model

import "time"

// MonthCount is the number of distinct readmitted patients seen in a month.
type MonthCount struct {
	Month    time.Time `json:"month"`
	Patients int       `json:"patients"`
}

// Summary carries the dashboard metrics for one dataset.
// Averages are nil when no encounter had usable values.
type Summary struct {
	ReadmittedPatients int          `json:"readmitted_patients"`
	AvgStayHours       *float64     `json:"avg_stay_hours"`
	AvgCost            *float64     `json:"avg_cost"`
	ProceduresCovered  int          `json:"procedures_covered"`
	Readmissions       []MonthCount `json:"readmissions"`
	Encounters         int          `json:"encounters"`
	Patients           int          `json:"patients"`
	Procedures         int          `json:"procedures"`
}

// ColumnCount is a per-column tally.
type ColumnCount struct {
	Column string
	Count  int
}

// TableSummary captures what a cleaning run did to one source table.
type TableSummary struct {
	Table            string
	RowsIn           int
	Duplicates       int
	MissingColumns   int
	Missing          []ColumnCount // per column, before placeholder fill
	MissingRows      int
	GenderUnresolved int
	DatesCleared     int            // non-missing date cells that failed to parse
	Outliers         map[string]int // column -> flagged rows
	RowsOut          int
	Artifacts        []string
	Duration         time.Duration
}

// CleanSummary captures metrics from a full cleaning run.
type CleanSummary struct {
	DataDir       string
	OutDir        string
	Tables        []TableSummary
	DurationTotal time.Duration
}
