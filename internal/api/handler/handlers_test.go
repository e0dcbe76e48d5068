package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/codesleeps/leanConstruction-sub002/internal/core"
	"github.com/codesleeps/leanConstruction-sub002/internal/store"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// --- mock service ---

type mockService struct {
	createProjectFn func(ctx context.Context, name string, info models.ProjectInfo) (*models.Project, error)
	getProjectFn    func(ctx context.Context, id uuid.UUID) (*models.Project, error)
	analyzeFn       func(ctx context.Context, projectID uuid.UUID, imageURL string) (*models.Job, error)
	getJobFn        func(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	jobAnalysisFn   func(ctx context.Context, jobID uuid.UUID) (*store.ImageAnalysisRecord, error)
	assessFn        func(ctx context.Context, projectID uuid.UUID, set models.WasteIndicatorSet) (*models.WasteAssessment, error)
	forecastFn      func(ctx context.Context, projectID uuid.UUID, series models.HistoricalSeries) (*models.CombinedForecast, error)
	reportFn        func(ctx context.Context, projectID uuid.UUID, reportType models.ReportType, format models.OutputFormat) (*models.Report, []byte, error)
}

func (m *mockService) CreateProject(ctx context.Context, name string, info models.ProjectInfo) (*models.Project, error) {
	return m.createProjectFn(ctx, name, info)
}

func (m *mockService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return m.getProjectFn(ctx, id)
}

func (m *mockService) AnalyzeProgress(ctx context.Context, projectID uuid.UUID, imageURL string) (*models.Job, error) {
	return m.analyzeFn(ctx, projectID, imageURL)
}

func (m *mockService) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	return m.getJobFn(ctx, jobID)
}

func (m *mockService) JobAnalysis(ctx context.Context, jobID uuid.UUID) (*store.ImageAnalysisRecord, error) {
	return m.jobAnalysisFn(ctx, jobID)
}

func (m *mockService) AssessWaste(ctx context.Context, projectID uuid.UUID, set models.WasteIndicatorSet) (*models.WasteAssessment, error) {
	return m.assessFn(ctx, projectID, set)
}

func (m *mockService) Forecast(ctx context.Context, projectID uuid.UUID, series models.HistoricalSeries) (*models.CombinedForecast, error) {
	return m.forecastFn(ctx, projectID, series)
}

func (m *mockService) GenerateReport(ctx context.Context, projectID uuid.UUID, reportType models.ReportType, format models.OutputFormat) (*models.Report, []byte, error) {
	return m.reportFn(ctx, projectID, reportType, format)
}

// --- helpers ---

// serve mounts the handler under a chi route so URL params resolve.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonReq(t *testing.T, method, url string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data
}

func decodeErrCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Error.Code
}

func testProject() *models.Project {
	return &models.Project{
		ID:                  uuid.New(),
		Name:                "Riverside Tower",
		Budget:              2_000_000,
		PlannedDurationDays: 120,
		StartDate:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// --- project handlers ---

func TestCreateProjectHandler_Success(t *testing.T) {
	project := testProject()
	svc := &mockService{
		createProjectFn: func(_ context.Context, name string, info models.ProjectInfo) (*models.Project, error) {
			if name != "Riverside Tower" {
				t.Errorf("unexpected name: %s", name)
			}
			if info.Budget != 2_000_000 || info.PlannedDurationDays != 120 {
				t.Errorf("metadata not carried through: %+v", info)
			}
			return project, nil
		},
	}

	req := jsonReq(t, http.MethodPost, "/api/v1/projects", map[string]any{
		"name":                  "Riverside Tower",
		"budget":                2_000_000,
		"planned_duration_days": 120,
		"start_date":            "2026-01-01",
	})
	rec := serve(http.MethodPost, "/api/v1/projects", NewCreateProjectHandler(svc), req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["id"] != project.ID.String() {
		t.Errorf("unexpected id: %v", data["id"])
	}
}

func TestCreateProjectHandler_BadDate(t *testing.T) {
	svc := &mockService{}
	req := jsonReq(t, http.MethodPost, "/api/v1/projects", map[string]any{
		"name":       "Depot",
		"budget":     1,
		"start_date": "January 1st",
	})
	rec := serve(http.MethodPost, "/api/v1/projects", NewCreateProjectHandler(svc), req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := decodeErrCode(t, rec); code != "INVALID_REQUEST" {
		t.Errorf("unexpected error code: %s", code)
	}
}

func TestCreateProjectHandler_ValidationError(t *testing.T) {
	svc := &mockService{
		createProjectFn: func(_ context.Context, _ string, _ models.ProjectInfo) (*models.Project, error) {
			return nil, core.ErrValidation
		},
	}
	req := jsonReq(t, http.MethodPost, "/api/v1/projects", map[string]any{
		"name": "", "budget": 1_000_000, "planned_duration_days": 90, "start_date": "2026-01-01",
	})
	rec := serve(http.MethodPost, "/api/v1/projects", NewCreateProjectHandler(svc), req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := decodeErrCode(t, rec); code != "VALIDATION_ERROR" {
		t.Errorf("unexpected error code: %s", code)
	}
}

func TestGetProjectHandler_NotFound(t *testing.T) {
	svc := &mockService{
		getProjectFn: func(_ context.Context, _ uuid.UUID) (*models.Project, error) {
			return nil, store.ErrNotFound
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/"+uuid.NewString(), nil)
	rec := serve(http.MethodGet, "/api/v1/projects/{projectID}", NewGetProjectHandler(svc), req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if code := decodeErrCode(t, rec); code != "NOT_FOUND" {
		t.Errorf("unexpected error code: %s", code)
	}
}

func TestGetProjectHandler_BadUUID(t *testing.T) {
	svc := &mockService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/not-a-uuid", nil)
	rec := serve(http.MethodGet, "/api/v1/projects/{projectID}", NewGetProjectHandler(svc), req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// --- analyze handler ---

func TestAnalyzeHandler_Accepted(t *testing.T) {
	projectID := uuid.New()
	jobID := uuid.New()
	svc := &mockService{
		analyzeFn: func(_ context.Context, gotProject uuid.UUID, imageURL string) (*models.Job, error) {
			if gotProject != projectID {
				t.Errorf("unexpected project: %s", gotProject)
			}
			if imageURL != "https://example.com/site.jpg" {
				t.Errorf("unexpected image URL: %s", imageURL)
			}
			return &models.Job{ID: jobID, ProjectID: gotProject, Status: models.JobStatusPending}, nil
		},
	}

	req := jsonReq(t, http.MethodPost, "/api/v1/projects/"+projectID.String()+"/analyze",
		map[string]any{"image_url": "https://example.com/site.jpg"})
	rec := serve(http.MethodPost, "/api/v1/projects/{projectID}/analyze", NewAnalyzeHandler(svc), req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["id"] != jobID.String() {
		t.Errorf("unexpected job id: %v", data["id"])
	}
	if data["status"] != models.JobStatusPending {
		t.Errorf("unexpected status: %v", data["status"])
	}
}

func TestAnalyzeHandler_MissingImageURL(t *testing.T) {
	svc := &mockService{}
	req := jsonReq(t, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/analyze", map[string]any{})
	rec := serve(http.MethodPost, "/api/v1/projects/{projectID}/analyze", NewAnalyzeHandler(svc), req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyzeHandler_MalformedImageURL(t *testing.T) {
	svc := &mockService{}
	req := jsonReq(t, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/analyze",
		map[string]any{"image_url": "::not a url"})
	rec := serve(http.MethodPost, "/api/v1/projects/{projectID}/analyze", NewAnalyzeHandler(svc), req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// --- job handler ---

func TestGetJobHandler_CompletedIncludesResult(t *testing.T) {
	jobID := uuid.New()
	svc := &mockService{
		getJobFn: func(_ context.Context, id uuid.UUID) (*models.Job, error) {
			return &models.Job{ID: id, Status: models.JobStatusCompleted}, nil
		},
		jobAnalysisFn: func(_ context.Context, _ uuid.UUID) (*store.ImageAnalysisRecord, error) {
			return &store.ImageAnalysisRecord{
				Result: models.ImageAnalysisResult{DetectedStage: models.StageRoofing, Confidence: 0.8},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+jobID.String(), nil)
	rec := serve(http.MethodGet, "/api/v1/jobs/{jobID}", NewGetJobHandler(svc), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeData(t, rec)
	result, ok := data["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected inline result, got %v", data)
	}
	if result["detected_stage"] != "roofing" {
		t.Errorf("unexpected stage: %v", result["detected_stage"])
	}
}

func TestGetJobHandler_PendingOmitsResult(t *testing.T) {
	svc := &mockService{
		getJobFn: func(_ context.Context, id uuid.UUID) (*models.Job, error) {
			return &models.Job{ID: id, Status: models.JobStatusPending}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+uuid.NewString(), nil)
	rec := serve(http.MethodGet, "/api/v1/jobs/{jobID}", NewGetJobHandler(svc), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeData(t, rec)
	if _, ok := data["result"]; ok {
		t.Error("pending job should not include a result")
	}
}

// --- waste handler ---

func TestAssessWasteHandler_Success(t *testing.T) {
	svc := &mockService{
		assessFn: func(_ context.Context, _ uuid.UUID, set models.WasteIndicatorSet) (*models.WasteAssessment, error) {
			if set.Quality["rework_hours"] != 100 {
				t.Errorf("indicators not carried through: %+v", set)
			}
			return &models.WasteAssessment{
				OverallWasteScore: 0.52,
				HealthStatus:      models.HealthSevere,
			}, nil
		},
	}

	req := jsonReq(t, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/waste",
		map[string]any{"quality": map[string]float64{"rework_hours": 100}})
	rec := serve(http.MethodPost, "/api/v1/projects/{projectID}/waste", NewAssessWasteHandler(svc), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["health_status"] != "severe" {
		t.Errorf("unexpected health status: %v", data["health_status"])
	}
}

func TestAssessWasteHandler_AcceptsNegativeVariance(t *testing.T) {
	svc := &mockService{
		assessFn: func(_ context.Context, _ uuid.UUID, set models.WasteIndicatorSet) (*models.WasteAssessment, error) {
			if set.Schedule["schedule_variance_days"] != -3 {
				t.Errorf("ahead-of-plan variance not carried through: %+v", set)
			}
			return &models.WasteAssessment{HealthStatus: models.HealthHealthy}, nil
		},
	}

	req := jsonReq(t, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/waste",
		map[string]any{"schedule": map[string]float64{"schedule_variance_days": -3}})
	rec := serve(http.MethodPost, "/api/v1/projects/{projectID}/waste", NewAssessWasteHandler(svc), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

// --- forecast handler ---

func TestForecastHandler_Success(t *testing.T) {
	svc := &mockService{
		forecastFn: func(_ context.Context, _ uuid.UUID, series models.HistoricalSeries) (*models.CombinedForecast, error) {
			if len(series.Progress) != 2 {
				t.Errorf("series not carried through: %+v", series)
			}
			return &models.CombinedForecast{CombinedRiskLevel: models.RiskLow}, nil
		},
	}

	req := jsonReq(t, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/forecast",
		map[string]any{"progress": []map[string]any{
			{"date": "2026-01-02T00:00:00Z", "percent": 1},
			{"date": "2026-01-03T00:00:00Z", "percent": 2},
		}})
	rec := serve(http.MethodPost, "/api/v1/projects/{projectID}/forecast", NewForecastHandler(svc), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["combined_risk_level"] != "low" {
		t.Errorf("unexpected risk level: %v", data["combined_risk_level"])
	}
}

func TestForecastHandler_EmptySeries(t *testing.T) {
	svc := &mockService{}
	req := jsonReq(t, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/forecast", map[string]any{})
	rec := serve(http.MethodPost, "/api/v1/projects/{projectID}/forecast", NewForecastHandler(svc), req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// --- report handler ---

func TestGenerateReportHandler_Structured(t *testing.T) {
	svc := &mockService{
		reportFn: func(_ context.Context, _ uuid.UUID, reportType models.ReportType, format models.OutputFormat) (*models.Report, []byte, error) {
			if reportType != models.ReportWeekly || format != models.FormatStructured {
				t.Errorf("params not carried through: %s / %s", reportType, format)
			}
			return &models.Report{
				Metadata: models.ReportMetadata{ProjectName: "Riverside Tower", Type: reportType},
			}, []byte("{}"), nil
		},
	}

	req := jsonReq(t, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/reports",
		map[string]any{"type": "weekly"})
	rec := serve(http.MethodPost, "/api/v1/projects/{projectID}/reports", NewGenerateReportHandler(svc), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type: %s", ct)
	}
}

func TestGenerateReportHandler_Markdown(t *testing.T) {
	svc := &mockService{
		reportFn: func(_ context.Context, _ uuid.UUID, _ models.ReportType, _ models.OutputFormat) (*models.Report, []byte, error) {
			return &models.Report{}, []byte("# Riverside Tower"), nil
		},
	}

	req := jsonReq(t, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/reports",
		map[string]any{"type": "monthly", "format": "markdown"})
	rec := serve(http.MethodPost, "/api/v1/projects/{projectID}/reports", NewGenerateReportHandler(svc), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/markdown; charset=utf-8" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if rec.Body.String() != "# Riverside Tower" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestGenerateReportHandler_UnknownType(t *testing.T) {
	svc := &mockService{}
	req := jsonReq(t, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/reports",
		map[string]any{"type": "quarterly"})
	rec := serve(http.MethodPost, "/api/v1/projects/{projectID}/reports", NewGenerateReportHandler(svc), req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGenerateReportHandler_UnknownFormat(t *testing.T) {
	svc := &mockService{}
	req := jsonReq(t, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/reports",
		map[string]any{"type": "weekly", "format": "pdf"})
	rec := serve(http.MethodPost, "/api/v1/projects/{projectID}/reports", NewGenerateReportHandler(svc), req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// --- error mapping ---

func TestWriteServiceError_VisionErrors(t *testing.T) {
	svc := &mockService{
		analyzeFn: func(_ context.Context, _ uuid.UUID, _ string) (*models.Job, error) {
			return nil, models.ErrProviderUnavailable
		},
	}
	req := jsonReq(t, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/analyze",
		map[string]any{"image_url": "https://example.com/a.jpg"})
	rec := serve(http.MethodPost, "/api/v1/projects/{projectID}/analyze", NewAnalyzeHandler(svc), req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if code := decodeErrCode(t, rec); code != "VISION_PROVIDER_UNAVAILABLE" {
		t.Errorf("unexpected error code: %s", code)
	}

	svc.analyzeFn = func(_ context.Context, _ uuid.UUID, _ string) (*models.Job, error) {
		return nil, models.ErrInferenceTimeout
	}
	req = jsonReq(t, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/analyze",
		map[string]any{"image_url": "https://example.com/a.jpg"})
	rec = serve(http.MethodPost, "/api/v1/projects/{projectID}/analyze", NewAnalyzeHandler(svc), req)

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rec.Code)
	}
}
