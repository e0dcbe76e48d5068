// Package analytics orchestrates the core engines: it wires feature
// extraction, persistence and caching around the pure stage, waste,
// forecast and report components.
package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/codesleeps/leanConstruction-sub002/internal/cache"
	"github.com/codesleeps/leanConstruction-sub002/internal/core"
	"github.com/codesleeps/leanConstruction-sub002/internal/core/forecast"
	"github.com/codesleeps/leanConstruction-sub002/internal/core/report"
	"github.com/codesleeps/leanConstruction-sub002/internal/core/stage"
	"github.com/codesleeps/leanConstruction-sub002/internal/core/waste"
	"github.com/codesleeps/leanConstruction-sub002/internal/store"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

const (
	jobStatusTTL   = 30 * time.Minute
	resultCacheTTL = 15 * time.Minute
)

// Service coordinates the analytics pipeline for the API layer.
type Service struct {
	provider   models.VisionProvider
	classifier *stage.Classifier
	wasteEng   *waste.Engine
	forecaster *forecast.Engine
	assembler  *report.Assembler
	store      store.Store
	cache      cache.Cache
	timeout    time.Duration
	now        func() time.Time
}

// New creates a Service. The engines are constructed by the caller so
// configuration stays a startup concern.
func New(provider models.VisionProvider, classifier *stage.Classifier, wasteEng *waste.Engine,
	forecaster *forecast.Engine, assembler *report.Assembler,
	st store.Store, ca cache.Cache, timeout time.Duration) *Service {
	return &Service{
		provider:   provider,
		classifier: classifier,
		wasteEng:   wasteEng,
		forecaster: forecaster,
		assembler:  assembler,
		store:      st,
		cache:      ca,
		timeout:    timeout,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateProject registers a project after validating its metadata.
func (s *Service) CreateProject(ctx context.Context, name string, info models.ProjectInfo) (*models.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", core.ErrValidation)
	}
	if err := info.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrValidation, err)
	}

	project := &models.Project{
		ID:                  uuid.New(),
		Name:                name,
		Budget:              info.Budget,
		PlannedDurationDays: info.PlannedDurationDays,
		StartDate:           info.StartDate,
		CreatedAt:           s.now(),
		UpdatedAt:           s.now(),
	}
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return project, nil
}

// GetProject returns the stored project.
func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.store.GetProject(ctx, id)
}

// AnalyzeProgress creates a pending job and dispatches image analysis in a
// background goroutine. Returns the job immediately without waiting for
// extraction or classification to complete.
func (s *Service) AnalyzeProgress(ctx context.Context, projectID uuid.UUID, imageURL string) (*models.Job, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("%w: image URL is required", core.ErrValidation)
	}
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	job := &models.Job{
		ID:        uuid.New(),
		ProjectID: projectID,
		Type:      "progress_analysis",
		Status:    models.JobStatusPending,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	_ = s.cache.SetJobStatus(ctx, job.ID, models.JobStatusPending, jobStatusTTL)

	go s.runAnalysis(job.ID, projectID, imageURL)

	return job, nil
}

// runAnalysis performs feature extraction and stage classification in a
// goroutine. It recovers from panics and always marks the job as
// completed or failed.
func (s *Service) runAnalysis(jobID, projectID uuid.UUID, imageURL string) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in runAnalysis", "error", r, "job_id", jobID)
			_ = s.store.UpdateJobStatus(ctx, jobID, models.JobStatusFailed,
				store.WithErrorMessage(fmt.Sprintf("panic: %v", r)))
			_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusFailed, jobStatusTTL)
		}
	}()

	_ = s.store.UpdateJobStatus(ctx, jobID, models.JobStatusRunning)
	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusRunning, jobStatusTTL)

	extractCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	features, err := s.provider.ExtractFeatures(extractCtx, models.ExtractionRequest{
		ProjectID: projectID,
		ImageURL:  imageURL,
	})
	if err != nil {
		s.failJob(ctx, jobID, fmt.Sprintf("extracting features: %v", err))
		return
	}

	result, err := s.classifier.Classify(features, projectID.String())
	if err != nil {
		s.failJob(ctx, jobID, fmt.Sprintf("classifying stage: %v", err))
		return
	}

	rec := &store.ImageAnalysisRecord{
		ID:        uuid.New(),
		ProjectID: projectID,
		JobID:     jobID,
		Provider:  s.provider.Name(),
		Result:    result,
		CreatedAt: s.now(),
	}
	if err := s.store.SaveImageAnalysis(ctx, rec); err != nil {
		s.failJob(ctx, jobID, fmt.Sprintf("storing result: %v", err))
		return
	}

	_ = s.store.UpdateJobStatus(ctx, jobID, models.JobStatusCompleted,
		store.WithAnalysisID(rec.ID))
	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusCompleted, jobStatusTTL)
	slog.Info("image analysis completed",
		"job_id", jobID, "project_id", projectID, "stage", result.DetectedStage)
}

func (s *Service) failJob(ctx context.Context, jobID uuid.UUID, msg string) {
	_ = s.store.UpdateJobStatus(ctx, jobID, models.JobStatusFailed, store.WithErrorMessage(msg))
	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusFailed, jobStatusTTL)
}

// GetJob returns the job, preferring the cached status when fresher than
// the stored row.
func (s *Service) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if status, ok, _ := s.cache.GetJobStatus(ctx, jobID); ok {
		job.Status = status
	}
	return job, nil
}

// JobAnalysis returns the persisted analysis for a completed job.
func (s *Service) JobAnalysis(ctx context.Context, jobID uuid.UUID) (*store.ImageAnalysisRecord, error) {
	return s.store.GetImageAnalysisByJobID(ctx, jobID)
}

// AssessWaste scores the indicator set, persists the assessment, and
// caches it by input hash so identical snapshots are not recomputed.
func (s *Service) AssessWaste(ctx context.Context, projectID uuid.UUID, set models.WasteIndicatorSet) (*models.WasteAssessment, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if set.Budget == 0 {
		set.Budget = project.Budget
	}

	key := cache.WasteAssessmentKey(projectID, inputHash(set))
	if payload, ok, _ := s.cache.Get(ctx, key); ok {
		var cached models.WasteAssessment
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
	}

	assessment := s.wasteEng.Assess(set)

	rec := &store.WasteAssessmentRecord{
		ID:         uuid.New(),
		ProjectID:  projectID,
		Assessment: assessment,
		CreatedAt:  s.now(),
	}
	if err := s.store.SaveWasteAssessment(ctx, rec); err != nil {
		return nil, fmt.Errorf("storing assessment: %w", err)
	}

	if payload, err := json.Marshal(assessment); err == nil {
		_ = s.cache.Set(ctx, key, payload, resultCacheTTL)
	}
	// Cached forecasts embed the previous assessment and are now stale.
	_ = s.cache.InvalidateForecasts(ctx, projectID)

	return &assessment, nil
}

// Forecast runs the forecast engine over the supplied series using the
// project's stored metadata, reusing the latest waste assessment (when
// one exists) as a risk-adjustment input. Results are persisted and
// cached by input hash; the hash covers the assessment too, so a new
// assessment invalidates the cached forecast.
func (s *Service) Forecast(ctx context.Context, projectID uuid.UUID, series models.HistoricalSeries) (*models.CombinedForecast, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var assessment *models.WasteAssessment
	if rec, err := s.store.LatestWasteAssessment(ctx, projectID); err == nil {
		assessment = &rec.Assessment
	}

	key := cache.ForecastKey(projectID, inputHash(struct {
		Series     models.HistoricalSeries `json:"series"`
		Assessment *models.WasteAssessment `json:"assessment"`
	}{series, assessment}))
	if payload, ok, _ := s.cache.Get(ctx, key); ok {
		var cached models.CombinedForecast
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
	}

	combined, err := s.forecaster.Forecast(series, project.Info(), assessment)
	if err != nil {
		return nil, err
	}

	rec := &store.ForecastRecord{
		ID:        uuid.New(),
		ProjectID: projectID,
		Forecast:  combined,
		CreatedAt: s.now(),
	}
	if err := s.store.SaveForecast(ctx, rec); err != nil {
		return nil, fmt.Errorf("storing forecast: %w", err)
	}

	if payload, err := json.Marshal(combined); err == nil {
		_ = s.cache.Set(ctx, key, payload, resultCacheTTL)
	}

	return &combined, nil
}

// GenerateReport assembles a report from whichever analytics artifacts
// exist for the project. Missing artifacts degrade to unavailable
// sections; only an unknown type or format fails.
func (s *Service) GenerateReport(ctx context.Context, projectID uuid.UUID, reportType models.ReportType, format models.OutputFormat) (*models.Report, []byte, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	upstream := report.UpstreamResults{}
	if rec, err := s.store.LatestImageAnalysis(ctx, projectID); err == nil {
		upstream.Stage = &rec.Result
	}
	if rec, err := s.store.LatestWasteAssessment(ctx, projectID); err == nil {
		upstream.Waste = &rec.Assessment
	}
	if rec, err := s.store.LatestForecast(ctx, projectID); err == nil {
		upstream.Forecast = &rec.Forecast
	}

	assembled, err := s.assembler.Assemble(report.Params{
		ProjectID:   projectID,
		ProjectName: project.Name,
		Type:        reportType,
		GeneratedAt: s.now(),
	}, upstream)
	if err != nil {
		return nil, nil, err
	}

	rendered, err := report.Render(assembled, format)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.SaveReport(ctx, &assembled); err != nil {
		return nil, nil, fmt.Errorf("storing report: %w", err)
	}

	return &assembled, rendered, nil
}

// inputHash returns a stable hash of an indicator set. json.Marshal sorts
// map keys, so identical inputs always hash identically.
func inputHash(v any) string {
	payload, err := json.Marshal(v)
	if err != nil {
		return "unhashable"
	}
	return fmt.Sprintf("%x", sha256.Sum256(payload))
}
