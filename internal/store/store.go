package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// ImageAnalysisRecord is a persisted stage classification.
type ImageAnalysisRecord struct {
	ID        uuid.UUID                  `db:"id"         json:"id"`
	ProjectID uuid.UUID                  `db:"project_id" json:"project_id"`
	JobID     uuid.UUID                  `db:"job_id"     json:"job_id"`
	Provider  string                     `db:"provider"   json:"provider"`
	Result    models.ImageAnalysisResult `db:"result"     json:"result"`
	CreatedAt time.Time                  `db:"created_at" json:"created_at"`
}

// WasteAssessmentRecord is a persisted waste assessment.
type WasteAssessmentRecord struct {
	ID         uuid.UUID              `db:"id"         json:"id"`
	ProjectID  uuid.UUID              `db:"project_id" json:"project_id"`
	Assessment models.WasteAssessment `db:"assessment" json:"assessment"`
	CreatedAt  time.Time              `db:"created_at" json:"created_at"`
}

// ForecastRecord is a persisted combined forecast.
type ForecastRecord struct {
	ID        uuid.UUID               `db:"id"         json:"id"`
	ProjectID uuid.UUID               `db:"project_id" json:"project_id"`
	Forecast  models.CombinedForecast `db:"forecast"   json:"forecast"`
	CreatedAt time.Time               `db:"created_at" json:"created_at"`
}

// Store is the data access interface. All database operations go through
// here.
type Store interface {
	Ping(ctx context.Context) error

	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status string, opts ...JobUpdateOption) error

	SaveImageAnalysis(ctx context.Context, rec *ImageAnalysisRecord) error
	GetImageAnalysisByJobID(ctx context.Context, jobID uuid.UUID) (*ImageAnalysisRecord, error)
	LatestImageAnalysis(ctx context.Context, projectID uuid.UUID) (*ImageAnalysisRecord, error)

	SaveWasteAssessment(ctx context.Context, rec *WasteAssessmentRecord) error
	LatestWasteAssessment(ctx context.Context, projectID uuid.UUID) (*WasteAssessmentRecord, error)

	SaveForecast(ctx context.Context, rec *ForecastRecord) error
	LatestForecast(ctx context.Context, projectID uuid.UUID) (*ForecastRecord, error)

	SaveReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id uuid.UUID, projectID uuid.UUID) (*models.Report, error)
}

type jobUpdateParams struct {
	ErrorMessage *string
	AnalysisID   *uuid.UUID
}

type JobUpdateOption func(*jobUpdateParams)

func WithErrorMessage(msg string) JobUpdateOption {
	return func(p *jobUpdateParams) {
		p.ErrorMessage = &msg
	}
}

func WithAnalysisID(id uuid.UUID) JobUpdateOption {
	return func(p *jobUpdateParams) {
		p.AnalysisID = &id
	}
}
