package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/codesleeps/leanConstruction-sub002/internal/api/response"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// Forecaster defines the forecast operation the handler depends on.
type Forecaster interface {
	Forecast(ctx context.Context, projectID uuid.UUID, series models.HistoricalSeries) (*models.CombinedForecast, error)
}

// NewForecastHandler returns the handler for
// POST /api/v1/projects/{projectID}/forecast.
func NewForecastHandler(svc Forecaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := parseIDParam(w, r, "projectID")
		if !ok {
			return
		}

		var series models.HistoricalSeries
		if err := json.NewDecoder(r.Body).Decode(&series); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if len(series.Progress) == 0 {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"progress series must not be empty", nil)
			return
		}

		forecast, err := svc.Forecast(r.Context(), projectID, series)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.JSON(w, forecast)
	}
}
