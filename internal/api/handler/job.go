package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/codesleeps/leanConstruction-sub002/internal/api/response"
	"github.com/codesleeps/leanConstruction-sub002/internal/store"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// JobService defines the job polling operations the handlers depend on.
type JobService interface {
	GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	JobAnalysis(ctx context.Context, jobID uuid.UUID) (*store.ImageAnalysisRecord, error)
}

type jobResponse struct {
	Job    *models.Job                 `json:"job"`
	Result *models.ImageAnalysisResult `json:"result,omitempty"`
}

// NewGetJobHandler returns the handler for GET /api/v1/jobs/{jobID}.
// Completed jobs include the stage classification result inline.
func NewGetJobHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := parseIDParam(w, r, "jobID")
		if !ok {
			return
		}

		job, err := svc.GetJob(r.Context(), jobID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := jobResponse{Job: job}
		if job.Status == models.JobStatusCompleted {
			if rec, err := svc.JobAnalysis(r.Context(), jobID); err == nil {
				resp.Result = &rec.Result
			}
		}

		response.JSON(w, resp)
	}
}
