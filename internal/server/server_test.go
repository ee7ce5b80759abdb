package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gyeh/recordstats/internal/dataset"
	"github.com/gyeh/recordstats/internal/metrics"
	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/table"
)

type staticSource struct {
	ds  *dataset.Dataset
	err error
}

func (s staticSource) Load() (*dataset.Dataset, error) {
	return s.ds, s.err
}

func at(month time.Month, day int) *time.Time {
	t := time.Date(2021, month, day, 10, 0, 0, 0, time.UTC)
	return &t
}

func testDataset() *dataset.Dataset {
	cost := func(v float64) *float64 { return &v }
	return &dataset.Dataset{
		Encounters: []model.Encounter{
			{ID: "e1", Patient: "P1", Start: at(1, 5), Stop: at(1, 6), ClaimCost: table.Str("500.00"),
				Payer: table.Str("pay1")},
			{ID: "e2", Patient: "P1", Start: at(2, 10), Stop: at(2, 11), ClaimCost: table.Str("300.00"),
				Payer: table.Str("pay1")},
			{ID: "e3", Patient: "P2", Start: at(1, 1), Stop: at(1, 2), ClaimCost: table.Str("bad"),
				Payer: table.Str(metrics.SelfPayPayerID)},
		},
		Patients: []model.Patient{
			{ID: "P1", First: table.Str("John"), Last: table.Str("Smith")},
			{ID: "P2", First: table.Str("Mary"), Last: table.Str("Jones")},
			{ID: "P3", First: table.Str("Lee")},
		},
		Payers: []model.Payer{{ID: "pay1", Name: table.Str("Medicare")}},
		Procedures: []model.Procedure{
			{Encounter: "e1", BaseCost: cost(100)},
			{Encounter: "e3", BaseCost: cost(50)},
		},
	}
}

func newTestServer(src Source) *Server {
	return New(src, zerolog.Nop(), Options{SelfPayPayerID: metrics.SelfPayPayerID})
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(staticSource{ds: testDataset()}), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestSummary(t *testing.T) {
	rec := get(t, newTestServer(staticSource{ds: testDataset()}), "/api/v1/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	s := decode[model.Summary](t, rec)
	if s.ReadmittedPatients != 1 {
		t.Errorf("readmitted: got %d, want 1", s.ReadmittedPatients)
	}
	if s.AvgCost == nil || *s.AvgCost != 400 {
		t.Errorf("avg cost: got %v, want 400", s.AvgCost)
	}
	if s.AvgStayHours == nil || *s.AvgStayHours != 24 {
		t.Errorf("avg stay: got %v, want 24", s.AvgStayHours)
	}
	if s.ProceduresCovered != 1 {
		t.Errorf("procedures covered: got %d, want 1", s.ProceduresCovered)
	}
	if s.Patients != 3 {
		t.Errorf("patients: got %d", s.Patients)
	}
}

func TestReadmissions(t *testing.T) {
	rec := get(t, newTestServer(staticSource{ds: testDataset()}), "/api/v1/readmissions")
	body := decode[struct {
		Total  int          `json:"readmitted_patients"`
		Series []monthPoint `json:"series"`
	}](t, rec)
	if body.Total != 1 || len(body.Series) != 2 {
		t.Fatalf("got %+v", body)
	}
	if body.Series[0].Month != "2021-01" || body.Series[1].Month != "2021-02" {
		t.Errorf("months: %+v", body.Series)
	}
}

func TestGetPatient(t *testing.T) {
	s := newTestServer(staticSource{ds: testDataset()})

	t.Run("found", func(t *testing.T) {
		rec := get(t, s, "/api/v1/patients/P1")
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d", rec.Code)
		}
		v := decode[PatientView](t, rec)
		if !v.Found || len(v.Records) != 2 || len(v.Stays) != 2 {
			t.Fatalf("got %+v", v)
		}
		if v.VisitCost == nil || *v.VisitCost != 800 {
			t.Errorf("visit cost: got %v, want 800", v.VisitCost)
		}
		if v.CoveredProcedures != 1 {
			t.Errorf("covered: got %d, want 1", v.CoveredProcedures)
		}
		if v.Records[0].PayerName == nil || *v.Records[0].PayerName != "Medicare" {
			t.Errorf("payer name not resolved: %+v", v.Records[0])
		}
	})

	t.Run("cost uncomputable", func(t *testing.T) {
		v := decode[PatientView](t, get(t, s, "/api/v1/patients/P2"))
		if v.VisitCost != nil || v.VisitCostError == "" {
			t.Errorf("expected recoverable cost error, got %+v", v)
		}
		if v.CoveredProcedures != 1 {
			t.Errorf("covered: got %d, want 1", v.CoveredProcedures)
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec := get(t, s, "/api/v1/patients/P404")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status: got %d", rec.Code)
		}
		v := decode[PatientView](t, rec)
		if v.Found || len(v.Records) != 0 || v.Query != "P404" {
			t.Errorf("got %+v", v)
		}
		if v.VisitCost == nil || *v.VisitCost != 0 {
			t.Errorf("empty lookup visit cost: got %v", v.VisitCost)
		}
	})
}

func TestSearchPatients(t *testing.T) {
	s := newTestServer(staticSource{ds: testDataset()})

	v := decode[PatientView](t, get(t, s, "/api/v1/patients/search?name=SMI"))
	if !v.Found || len(v.Records) != 2 {
		t.Errorf("smi: got %+v", v)
	}

	v = decode[PatientView](t, get(t, s, "/api/v1/patients/search?name=zzz"))
	if v.Found || v.Records == nil {
		t.Errorf("zzz: expected empty non-nil records, got %+v", v)
	}

	if rec := get(t, s, "/api/v1/patients/search"); rec.Code != http.StatusBadRequest {
		t.Errorf("missing name: got %d", rec.Code)
	}
}

func TestListPatients(t *testing.T) {
	rec := get(t, newTestServer(staticSource{ds: testDataset()}), "/api/v1/patients")
	body := decode[struct {
		Patients []struct {
			Patient    model.Patient `json:"patient"`
			Encounters int           `json:"encounters"`
		} `json:"patients"`
	}](t, rec)
	if len(body.Patients) != 3 {
		t.Fatalf("got %d patients", len(body.Patients))
	}
	if body.Patients[2].Patient.ID != "P3" || body.Patients[2].Encounters != 0 {
		t.Errorf("P3: %+v", body.Patients[2])
	}
}

func TestLoadFailure(t *testing.T) {
	s := newTestServer(staticSource{err: errors.New("disk gone")})
	if rec := get(t, s, "/api/v1/summary"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(staticSource{ds: testDataset()})
	get(t, s, "/api/v1/summary")

	rec := get(t, s, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`recstats_http_requests_total{route="/api/v1/summary",status="200"} 1`,
		"recstats_dataset_reload_seconds_count 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	s := New(staticSource{ds: testDataset()}, zerolog.New(&buf), Options{SelfPayPayerID: metrics.SelfPayPayerID})
	s.e.GET("/panic", func(c echo.Context) error { panic("boom") })
	if rec := get(t, s, "/panic"); rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d", rec.Code)
	}

	// The panicking request is still logged and counted.
	logs := buf.String()
	if !strings.Contains(logs, `"message":"panic recovered"`) {
		t.Errorf("no panic log line in %s", logs)
	}
	if !strings.Contains(logs, `"path":"/panic"`) || !strings.Contains(logs, `"status":500`) {
		t.Errorf("no request log line for the panic in %s", logs)
	}
	body := get(t, s, "/metrics").Body.String()
	if want := `recstats_http_requests_total{route="/panic",status="500"} 1`; !strings.Contains(body, want) {
		t.Errorf("metrics output missing %q", want)
	}
}
