// Package warehouse loads a computed dataset into the analytics schema:
// one run row, the encounter facts, monthly readmissions and a metric
// snapshot.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/recordstats/internal/db"
	"github.com/gyeh/recordstats/internal/model"
	embedsql "github.com/gyeh/recordstats/internal/sql"
)

const factBuffer = 1024

// Run statuses.
const (
	StatusLoading = "loading"
	StatusLoaded  = "loaded"
	StatusFailed  = "failed"
)

// Input is everything one load needs.
type Input struct {
	DataDir string
	Records []model.JoinedRecord
	Summary model.Summary
}

// Result holds metrics from a load.
type Result struct {
	RunID       uuid.UUID
	FactsCopied int64
	Months      int
	Duration    time.Duration
}

// Load writes in as a new run. On failure the run is marked failed and its
// partial rows are left for inspection.
func Load(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, in Input) (*Result, error) {
	start := time.Now()
	runID := uuid.New()
	log = log.With().Str("run_id", runID.String()).Logger()

	if _, err := pool.Exec(ctx, embedsql.InsertRun,
		runID, in.DataDir, in.Summary.Encounters, in.Summary.Patients, in.Summary.Procedures,
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	res, err := load(ctx, pool, log, runID, in)
	if err != nil {
		if serr := UpdateStatus(context.WithoutCancel(ctx), pool, runID, StatusFailed); serr != nil {
			log.Warn().Err(serr).Msg("could not mark run failed")
		}
		return nil, err
	}
	if err := UpdateStatus(ctx, pool, runID, StatusLoaded); err != nil {
		return nil, fmt.Errorf("finish run: %w", err)
	}

	res.Duration = time.Since(start)
	log.Info().
		Int64("facts", res.FactsCopied).
		Int("months", res.Months).
		Str("duration", res.Duration.String()).
		Msg("warehouse load complete")
	return res, nil
}

func load(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, runID uuid.UUID, in Input) (*Result, error) {
	copied, err := copyFacts(ctx, pool, runID, in.Records)
	if err != nil {
		return nil, err
	}
	log.Debug().Int64("rows", copied).Msg("encounter facts copied")

	batch := &pgx.Batch{}
	for _, m := range in.Summary.Readmissions {
		batch.Queue(embedsql.InsertReadmissionMonth, runID, m.Month, m.Patients)
	}
	s := in.Summary
	batch.Queue(embedsql.InsertMetricSnapshot,
		runID, s.ReadmittedPatients, s.AvgStayHours, s.AvgCost, s.ProceduresCovered)
	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("insert metrics: %w", err)
	}

	return &Result{RunID: runID, FactsCopied: copied, Months: len(s.Readmissions)}, nil
}

// copyFacts streams records into analytics.encounter_facts via COPY.
func copyFacts(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID, records []model.JoinedRecord) (int64, error) {
	ch := make(chan *model.FactRow, factBuffer)
	errCh := make(chan error, 1)

	go func() {
		defer close(ch)
		for i := range records {
			select {
			case ch <- FactFromRecord(runID, &records[i]):
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		errCh <- nil
	}()

	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"analytics", "encounter_facts"},
		model.FactColumns(),
		db.NewChannelSource(ch),
	)
	if err != nil {
		// Drain so the producer can exit.
		for range ch {
		}
	}
	if prodErr := <-errCh; prodErr != nil {
		return 0, fmt.Errorf("fact producer: %w", prodErr)
	}
	if err != nil {
		return 0, fmt.Errorf("copy facts: %w", err)
	}
	return n, nil
}

// FactFromRecord flattens a joined record into a warehouse fact row. The
// claim cost is stored in cents; uncoercible costs become NULL.
func FactFromRecord(runID uuid.UUID, r *model.JoinedRecord) *model.FactRow {
	f := &model.FactRow{
		RunID:            runID,
		EncounterID:      r.Encounter.ID,
		PatientID:        r.Patient.ID,
		FirstName:        r.Patient.First,
		LastName:         r.Patient.Last,
		Gender:           r.Patient.Gender,
		BirthDate:        r.Patient.BirthDate,
		OrganizationID:   r.Encounter.Organization,
		OrganizationName: r.OrganizationName,
		PayerID:          r.Encounter.Payer,
		PayerName:        r.PayerName,
		StartAt:          r.Encounter.Start,
		StopAt:           r.Encounter.Stop,
	}
	if h, ok := r.Encounter.StayHours(); ok {
		f.StayHours = &h
	}
	if c, ok := r.Encounter.Cost(); ok {
		cents := int64(math.Round(c * 100))
		f.ClaimCostCents = &cents
	}
	return f
}

// UpdateStatus sets a run's status; terminal statuses also stamp finished_at.
func UpdateStatus(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID, status string) error {
	_, err := pool.Exec(ctx, embedsql.UpdateRunStatus, runID, status)
	return err
}

// StoredSnapshot is the latest loaded metric snapshot.
type StoredSnapshot struct {
	RunID              uuid.UUID
	DataDir            string
	FinishedAt         time.Time
	ReadmittedPatients int
	AvgStayHours       *float64
	AvgCost            *float64
	ProceduresCovered  int
}

// ErrNoRuns is returned by Latest when no run has finished loading.
var ErrNoRuns = errors.New("no loaded runs")

// Latest returns the metric snapshot of the most recently loaded run.
func Latest(ctx context.Context, pool *pgxpool.Pool) (*StoredSnapshot, error) {
	var s StoredSnapshot
	err := pool.QueryRow(ctx, embedsql.LatestSnapshot).Scan(
		&s.RunID, &s.DataDir, &s.FinishedAt,
		&s.ReadmittedPatients, &s.AvgStayHours, &s.AvgCost, &s.ProceduresCovered,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return &s, nil
}
