package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/recordstats/internal/clean"
	"github.com/gyeh/recordstats/internal/config"
	"github.com/gyeh/recordstats/internal/dataset"
	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/outlier"
	"github.com/gyeh/recordstats/internal/table"
)

// AuditDir is the subdirectory of the output dir that receives artifacts.
const AuditDir = "audit"

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run executes the cleaning pipeline: load → per table (dedupe → missing →
// gender → dates → outliers → placeholder) → write.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config) (*model.CleanSummary, error) {
	return run(ctx, log, cfg, true)
}

// Plan runs every cleaning step in memory and reports what Run would do,
// without writing anything.
func Plan(ctx context.Context, log zerolog.Logger, cfg *config.Config) (*model.CleanSummary, error) {
	return run(ctx, log, cfg, false)
}

func run(ctx context.Context, log zerolog.Logger, cfg *config.Config, write bool) (*model.CleanSummary, error) {
	totalStart := time.Now()

	log.Info().Str("data_dir", cfg.DataDir).Msg("loading sources")
	tables, err := dataset.LoadTables(cfg.DataDir, cfg.Sources, cfg.CSVOptions())
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}

	summary := &model.CleanSummary{DataDir: cfg.DataDir, OutDir: cfg.OutDir}
	for _, kind := range dataset.AllKinds {
		if err := ctx.Err(); err != nil {
			return nil, &PipelineError{Phase: "clean", Err: err}
		}
		tlog := log.With().Str("table", string(kind)).Logger()
		cleaned, ts, err := CleanTable(tlog, tables[kind], cfg.Tables[kind], cfg)
		if err != nil {
			return nil, &PipelineError{Phase: "clean", Err: err}
		}

		if write {
			paths, err := writeArtifacts(filepath.Join(cfg.OutDir, AuditDir), ts.AuditTables())
			if err != nil {
				return nil, &PipelineError{Phase: "write", Err: err}
			}
			ts.Artifacts = append(ts.Artifacts, paths...)
			out := filepath.Join(cfg.OutDir, filepath.Base(cfg.Sources.Path(cfg.DataDir, kind)))
			if err := table.WriteCSVFile(out, cleaned); err != nil {
				return nil, &PipelineError{Phase: "write", Err: err}
			}
			ts.Artifacts = append(ts.Artifacts, out)
		}
		ts.Duration = time.Since(ts.start)

		tlog.Info().
			Int("rows_in", ts.RowsIn).
			Int("duplicates", ts.Duplicates).
			Int("missing_rows", ts.MissingRows).
			Int("rows_out", ts.RowsOut).
			Str("duration", ts.Duration.String()).
			Msg("table cleaned")
		summary.Tables = append(summary.Tables, ts.TableSummary)
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Int("tables", len(summary.Tables)).
		Bool("write", write).
		Str("out_dir", cfg.OutDir).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("cleaning pipeline complete")
	return summary, nil
}

// TableResult is a TableSummary plus the artifact tables not yet written.
type TableResult struct {
	model.TableSummary
	artifacts []*table.Table
	start     time.Time
}

// AuditTables returns the audit tables produced while cleaning, in order.
func (r *TableResult) AuditTables() []*table.Table {
	return r.artifacts
}

// CleanTable applies plan to t without touching the filesystem. The missing
// summary is always produced; duplicate and outlier artifacts only when
// non-empty.
func CleanTable(log zerolog.Logger, t *table.Table, plan config.TablePlan, cfg *config.Config) (*table.Table, TableResult, error) {
	res := TableResult{start: time.Now()}
	res.Table = t.Name
	res.RowsIn = t.Len()

	unique, dups := clean.RemoveDuplicates(t)
	res.Duplicates = dups.Len()
	if dups.Len() > 0 {
		dups.Name = t.Name + "_duplicates"
		res.artifacts = append(res.artifacts, dups)
	}

	missing := clean.ReportMissing(unique)
	res.MissingColumns = len(missing)
	for _, mc := range missing {
		res.Missing = append(res.Missing, model.ColumnCount{Column: mc.Column, Count: mc.Count})
	}
	res.artifacts = append(res.artifacts, clean.MissingSummaryTable(t.Name+"_missing_summary", missing))
	if len(missing) > 0 {
		rows := clean.ExtractMissingRows(unique)
		rows.Name = t.Name + "_missing_rows"
		res.MissingRows = rows.Len()
		res.artifacts = append(res.artifacts, rows)
	}

	cur := unique
	if plan.FillGender {
		filled, unresolved, err := clean.FillGenderFromPrefix(cur, cfg.Policy())
		if err != nil {
			return nil, res, fmt.Errorf("%s: %w", t.Name, err)
		}
		res.GenderUnresolved = unresolved
		if unresolved > 0 {
			log.Warn().Int("rows", unresolved).Msg("gender left missing for unmapped prefixes")
		}
		cur = filled
	}

	if len(plan.DateColumns) > 0 {
		before := cur
		cur = clean.NormalizeDates(cur, plan.DateColumns)
		res.DatesCleared = clearedCells(before, cur, plan.DateColumns)
		if res.DatesCleared > 0 {
			log.Warn().Int("cells", res.DatesCleared).Msg("unparseable dates set missing")
		}
	}

	for _, col := range plan.OutlierColumns {
		r, err := outlier.DetectAndRedact(cur, col)
		if err != nil {
			return nil, res, err
		}
		if res.Outliers == nil {
			res.Outliers = make(map[string]int)
		}
		res.Outliers[col] = r.Outliers.Len()
		if r.HasBound {
			log.Debug().
				Str("column", col).
				Float64("lower", r.Bounds.Lower).
				Float64("upper", r.Bounds.Upper).
				Int("flagged", r.Outliers.Len()).
				Msg("outlier bounds")
		}
		if r.Outliers.Len() > 0 {
			r.Outliers.Name = t.Name + "_" + col + "_outliers"
			res.artifacts = append(res.artifacts, r.Outliers)
		}
		cur = r.Cleaned
	}

	cur = clean.FillPlaceholder(cur, cfg.Placeholder)
	res.RowsOut = cur.Len()
	return cur, res, nil
}

// clearedCells counts cells in columns that were present in before and
// missing in after.
func clearedCells(before, after *table.Table, columns map[string]string) int {
	n := 0
	for col := range columns {
		idx := before.Index(col)
		if idx < 0 {
			continue
		}
		for i, row := range before.Rows {
			if row[idx] != nil && after.Rows[i][idx] == nil {
				n++
			}
		}
	}
	return n
}

// writeArtifacts writes each table to dir/<name>.csv.
func writeArtifacts(dir string, ts []*table.Table) ([]string, error) {
	paths := make([]string, 0, len(ts))
	for _, t := range ts {
		path := filepath.Join(dir, t.Name+".csv")
		if err := table.WriteCSVFile(path, t); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
