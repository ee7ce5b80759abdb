package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gyeh/recordstats/internal/dataset"
	"github.com/gyeh/recordstats/internal/metrics"
	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/query"
)

// loaded is one request's view of the data.
type loaded struct {
	ds      *dataset.Dataset
	records []model.JoinedRecord
}

func (s *Server) load() (*loaded, error) {
	start := time.Now()
	ds, err := s.src.Load()
	if err != nil {
		s.metrics.loadErrors.Inc()
		s.log.Error().Err(err).Msg("dataset load failed")
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "dataset unavailable")
	}
	l := &loaded{ds: ds, records: dataset.Join(ds)}
	s.metrics.reload.Observe(time.Since(start).Seconds())
	return l, nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) summary(c echo.Context) error {
	l, err := s.load()
	if err != nil {
		return err
	}
	sum := metrics.Compute(l.ds.Encounters, len(l.ds.Patients), l.ds.Procedures, s.opts.SelfPayPayerID)
	return c.JSON(http.StatusOK, sum)
}

// monthPoint is one point of the readmission chart.
type monthPoint struct {
	Month    string `json:"month"`
	Patients int    `json:"patients"`
}

func (s *Server) readmissions(c echo.Context) error {
	l, err := s.load()
	if err != nil {
		return err
	}
	series, total := metrics.ReadmissionSeries(l.ds.Encounters)
	points := make([]monthPoint, len(series))
	for i, m := range series {
		points[i] = monthPoint{Month: m.Month.Format("2006-01"), Patients: m.Patients}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"readmitted_patients": total,
		"series":              points,
	})
}

func (s *Server) listPatients(c echo.Context) error {
	l, err := s.load()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"patients": query.AllPatients(l.ds.Patients, l.records),
	})
}

func (s *Server) searchPatients(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name query parameter is required")
	}
	l, err := s.load()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.patientView(query.ByName(l.records, name), l.ds.Procedures))
}

func (s *Server) getPatient(c echo.Context) error {
	l, err := s.load()
	if err != nil {
		return err
	}
	view := s.patientView(query.ByID(l.records, c.Param("id")), l.ds.Procedures)
	if !view.Found {
		return c.JSON(http.StatusNotFound, view)
	}
	return c.JSON(http.StatusOK, view)
}

// PatientView is the lookup response. VisitCost is nil with
// VisitCostError set when no claim cost could be read.
type PatientView struct {
	Query             string               `json:"query"`
	Found             bool                 `json:"found"`
	Records           []model.JoinedRecord `json:"records"`
	Stays             []query.Stay         `json:"stays"`
	VisitCost         *float64             `json:"visit_cost"`
	VisitCostError    string               `json:"visit_cost_error,omitempty"`
	CoveredProcedures int                  `json:"covered_procedures"`
}

func (s *Server) patientView(l *query.Lookup, procedures []model.Procedure) PatientView {
	v := PatientView{
		Query:             l.Query,
		Found:             l.Found(),
		Records:           l.Records,
		Stays:             query.StayHours(l.Records),
		CoveredProcedures: query.CoveredByInsuranceCount(l.Records, procedures),
	}
	cost, err := query.VisitCost(l.Records)
	switch {
	case errors.Is(err, query.ErrCostUncomputable):
		v.VisitCostError = err.Error()
	case err == nil:
		v.VisitCost = &cost
	}
	return v
}
