package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/codesleeps/leanConstruction-sub002/internal/api/response"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// WasteAssessor defines the waste assessment operation the handler
// depends on.
type WasteAssessor interface {
	AssessWaste(ctx context.Context, projectID uuid.UUID, set models.WasteIndicatorSet) (*models.WasteAssessment, error)
}

// NewAssessWasteHandler returns the handler for
// POST /api/v1/projects/{projectID}/waste.
func NewAssessWasteHandler(svc WasteAssessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := parseIDParam(w, r, "projectID")
		if !ok {
			return
		}

		var set models.WasteIndicatorSet
		if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		// Negative signals are legitimate (a project ahead of plan reports
		// a negative schedule variance); the engine reads them as zero.
		assessment, err := svc.AssessWaste(r.Context(), projectID, set)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.JSON(w, assessment)
	}
}
