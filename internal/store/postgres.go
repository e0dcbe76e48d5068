package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Projects ---

func (s *PostgresStore) CreateProject(ctx context.Context, project *models.Project) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO projects (id, name, budget, planned_duration_days, start_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		project.ID, project.Name, project.Budget, project.PlannedDurationDays,
		project.StartDate, project.CreatedAt, project.UpdatedAt)
	if isDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, budget, planned_duration_days, start_date, created_at, updated_at
		 FROM projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Budget, &p.PlannedDurationDays, &p.StartDate, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// --- Image analyses ---

func (s *PostgresStore) SaveImageAnalysis(ctx context.Context, rec *ImageAnalysisRecord) error {
	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encode image analysis: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO image_analyses (id, project_id, job_id, provider, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.ProjectID, rec.JobID, rec.Provider, payload, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save image analysis: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetImageAnalysisByJobID(ctx context.Context, jobID uuid.UUID) (*ImageAnalysisRecord, error) {
	return s.scanImageAnalysis(ctx,
		`SELECT id, project_id, job_id, provider, result, created_at
		 FROM image_analyses WHERE job_id = $1 ORDER BY created_at DESC LIMIT 1`, jobID)
}

func (s *PostgresStore) LatestImageAnalysis(ctx context.Context, projectID uuid.UUID) (*ImageAnalysisRecord, error) {
	return s.scanImageAnalysis(ctx,
		`SELECT id, project_id, job_id, provider, result, created_at
		 FROM image_analyses WHERE project_id = $1 ORDER BY created_at DESC LIMIT 1`, projectID)
}

func (s *PostgresStore) scanImageAnalysis(ctx context.Context, query string, arg any) (*ImageAnalysisRecord, error) {
	var rec ImageAnalysisRecord
	var payload []byte
	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&rec.ID, &rec.ProjectID, &rec.JobID, &rec.Provider, &payload, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get image analysis: %w", err)
	}
	if err := json.Unmarshal(payload, &rec.Result); err != nil {
		return nil, fmt.Errorf("decode image analysis: %w", err)
	}
	return &rec, nil
}

// --- Waste assessments ---

func (s *PostgresStore) SaveWasteAssessment(ctx context.Context, rec *WasteAssessmentRecord) error {
	payload, err := json.Marshal(rec.Assessment)
	if err != nil {
		return fmt.Errorf("encode waste assessment: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO waste_assessments (id, project_id, assessment, created_at)
		 VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.ProjectID, payload, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save waste assessment: %w", err)
	}
	return nil
}

func (s *PostgresStore) LatestWasteAssessment(ctx context.Context, projectID uuid.UUID) (*WasteAssessmentRecord, error) {
	var rec WasteAssessmentRecord
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, project_id, assessment, created_at
		 FROM waste_assessments WHERE project_id = $1 ORDER BY created_at DESC LIMIT 1`, projectID,
	).Scan(&rec.ID, &rec.ProjectID, &payload, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get waste assessment: %w", err)
	}
	if err := json.Unmarshal(payload, &rec.Assessment); err != nil {
		return nil, fmt.Errorf("decode waste assessment: %w", err)
	}
	return &rec, nil
}

// --- Forecasts ---

func (s *PostgresStore) SaveForecast(ctx context.Context, rec *ForecastRecord) error {
	payload, err := json.Marshal(rec.Forecast)
	if err != nil {
		return fmt.Errorf("encode forecast: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO forecasts (id, project_id, forecast, created_at)
		 VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.ProjectID, payload, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save forecast: %w", err)
	}
	return nil
}

func (s *PostgresStore) LatestForecast(ctx context.Context, projectID uuid.UUID) (*ForecastRecord, error) {
	var rec ForecastRecord
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, project_id, forecast, created_at
		 FROM forecasts WHERE project_id = $1 ORDER BY created_at DESC LIMIT 1`, projectID,
	).Scan(&rec.ID, &rec.ProjectID, &payload, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get forecast: %w", err)
	}
	if err := json.Unmarshal(payload, &rec.Forecast); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}
	return &rec, nil
}

// --- Reports ---

func (s *PostgresStore) SaveReport(ctx context.Context, report *models.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO reports (id, project_id, type, report, generated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		report.Metadata.ID, report.Metadata.ProjectID, report.Metadata.Type,
		payload, report.Metadata.GeneratedAt)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetReport(ctx context.Context, id uuid.UUID, projectID uuid.UUID) (*models.Report, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT report FROM reports WHERE id = $1 AND project_id = $2`, id, projectID,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	var report models.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}

// --- Jobs ---

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, project_id, type, status, analysis_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		job.ID, job.ProjectID, job.Type, job.Status, job.AnalysisID, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var j models.Job
	err := s.pool.QueryRow(ctx,
		`SELECT id, project_id, type, status, analysis_id, error_message, started_at, completed_at, created_at, updated_at
		 FROM jobs WHERE id = $1`, id,
	).Scan(&j.ID, &j.ProjectID, &j.Type, &j.Status, &j.AnalysisID, &j.ErrorMessage,
		&j.StartedAt, &j.CompletedAt, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

var validTransitions = map[string][]string{
	"pending": {"running"},
	"running": {"completed", "failed"},
}

func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status string, opts ...JobUpdateOption) error {
	params := &jobUpdateParams{}
	for _, opt := range opts {
		opt(params)
	}

	var currentStatus string
	err := s.pool.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1`, id).Scan(&currentStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get job status: %w", err)
	}

	allowed := validTransitions[currentStatus]
	valid := false
	for _, a := range allowed {
		if a == status {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid job status transition: %s -> %s", currentStatus, status)
	}

	now := time.Now().UTC()
	query := `UPDATE jobs SET status = $2, updated_at = $3`
	args := []any{id, status, now}
	argIdx := 4

	if status == "running" {
		query += fmt.Sprintf(", started_at = $%d", argIdx)
		args = append(args, now)
		argIdx++
	}
	if status == "completed" || status == "failed" {
		query += fmt.Sprintf(", completed_at = $%d", argIdx)
		args = append(args, now)
		argIdx++
	}
	if params.ErrorMessage != nil {
		query += fmt.Sprintf(", error_message = $%d", argIdx)
		args = append(args, *params.ErrorMessage)
		argIdx++
	}
	if params.AnalysisID != nil {
		query += fmt.Sprintf(", analysis_id = $%d", argIdx)
		args = append(args, *params.AnalysisID)
		argIdx++
	}

	query += " WHERE id = $1"

	_, err = s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint
// violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
