package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/codesleeps/leanConstruction-sub002/internal/api/response"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// Analyzer defines the image analysis operations the handlers depend on.
type Analyzer interface {
	AnalyzeProgress(ctx context.Context, projectID uuid.UUID, imageURL string) (*models.Job, error)
}

// NewAnalyzeHandler returns the handler for
// POST /api/v1/projects/{projectID}/analyze. Analysis runs in the
// background; the response carries the job to poll.
func NewAnalyzeHandler(svc Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := parseIDParam(w, r, "projectID")
		if !ok {
			return
		}

		var req struct {
			ImageURL string `json:"image_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.ImageURL == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "image_url is required", nil)
			return
		}
		if _, err := url.ParseRequestURI(req.ImageURL); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "image_url must be a valid URL", nil)
			return
		}

		job, err := svc.AnalyzeProgress(r.Context(), projectID, req.ImageURL)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.Accepted(w, job)
	}
}
