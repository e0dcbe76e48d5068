package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/codesleeps/leanConstruction-sub002/internal/api/middleware"
	"github.com/codesleeps/leanConstruction-sub002/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler        http.HandlerFunc
	CreateProjectHandler http.HandlerFunc
	GetProjectHandler    http.HandlerFunc
	AnalyzeHandler       http.HandlerFunc
	GetJobHandler        http.HandlerFunc
	AssessWasteHandler   http.HandlerFunc
	ForecastHandler      http.HandlerFunc
	ReportHandler        http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.WithRequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Rate-limited API routes
	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Post("/api/v1/projects", orNotImplemented(deps.CreateProjectHandler))
		r.Get("/api/v1/projects/{projectID}", orNotImplemented(deps.GetProjectHandler))

		r.Post("/api/v1/projects/{projectID}/analyze", orNotImplemented(deps.AnalyzeHandler))
		r.Get("/api/v1/jobs/{jobID}", orNotImplemented(deps.GetJobHandler))

		r.Post("/api/v1/projects/{projectID}/waste", orNotImplemented(deps.AssessWasteHandler))
		r.Post("/api/v1/projects/{projectID}/forecast", orNotImplemented(deps.ForecastHandler))
		r.Post("/api/v1/projects/{projectID}/reports", orNotImplemented(deps.ReportHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
