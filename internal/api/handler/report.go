package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/codesleeps/leanConstruction-sub002/internal/api/response"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// Reporter defines the report generation operation the handler depends
// on.
type Reporter interface {
	GenerateReport(ctx context.Context, projectID uuid.UUID, reportType models.ReportType, format models.OutputFormat) (*models.Report, []byte, error)
}

// NewGenerateReportHandler returns the handler for
// POST /api/v1/projects/{projectID}/reports. The structured format
// responds with the report in the JSON envelope; markdown and plain text
// respond with the rendered document body.
func NewGenerateReportHandler(svc Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := parseIDParam(w, r, "projectID")
		if !ok {
			return
		}

		var req struct {
			Type   string `json:"type"`
			Format string `json:"format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		reportType, err := models.ParseReportType(req.Type)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}

		format := models.OutputFormat(req.Format)
		if req.Format == "" {
			format = models.FormatStructured
		}
		if !format.Valid() {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"format must be one of structured, markdown, plain_text", nil)
			return
		}

		report, rendered, err := svc.GenerateReport(r.Context(), projectID, reportType, format)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		switch format {
		case models.FormatMarkdown:
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(rendered)
		case models.FormatPlainText:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(rendered)
		default:
			response.JSON(w, report)
		}
	}
}
