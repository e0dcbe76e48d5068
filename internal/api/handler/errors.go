// Package handler contains the HTTP handlers for the analytics API.
// Each handler depends on a narrow interface so tests can stub the
// service layer.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/codesleeps/leanConstruction-sub002/internal/api/response"
	"github.com/codesleeps/leanConstruction-sub002/internal/core"
	"github.com/codesleeps/leanConstruction-sub002/internal/store"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// writeServiceError maps service-layer errors onto the API error
// envelope. Unknown errors are logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, core.ErrConfiguration):
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case errors.Is(err, models.ErrProviderUnavailable):
		response.Error(w, http.StatusBadGateway, "VISION_PROVIDER_UNAVAILABLE",
			"The vision provider is not available", nil)
	case errors.Is(err, models.ErrInferenceTimeout):
		response.Error(w, http.StatusGatewayTimeout, "VISION_INFERENCE_TIMEOUT",
			"Feature extraction took too long and was cancelled", nil)
	default:
		slog.Error("unhandled service error", "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
