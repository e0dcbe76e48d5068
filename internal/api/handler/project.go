package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/codesleeps/leanConstruction-sub002/internal/api/response"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// ProjectService defines the project operations the handlers depend on.
type ProjectService interface {
	CreateProject(ctx context.Context, name string, info models.ProjectInfo) (*models.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// NewCreateProjectHandler returns the handler for POST /api/v1/projects.
func NewCreateProjectHandler(svc ProjectService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name                string  `json:"name"`
			Budget              float64 `json:"budget"`
			PlannedDurationDays int     `json:"planned_duration_days"`
			StartDate           string  `json:"start_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		startDate, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"start_date must be a YYYY-MM-DD date", nil)
			return
		}

		project, err := svc.CreateProject(r.Context(), req.Name, models.ProjectInfo{
			Budget:              req.Budget,
			PlannedDurationDays: req.PlannedDurationDays,
			StartDate:           startDate,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.Created(w, project)
	}
}

// NewGetProjectHandler returns the handler for GET /api/v1/projects/{projectID}.
func NewGetProjectHandler(svc ProjectService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "projectID")
		if !ok {
			return
		}

		project, err := svc.GetProject(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.JSON(w, project)
	}
}

// parseIDParam parses a UUID route parameter, writing the error response
// itself when the value is malformed.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			name+" must be a valid UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}
