// Package report assembles multi-section project reports from
// already-computed analytics results and renders them into several
// encodings. The assembler never invokes the other engines; the caller
// supplies whichever upstream results exist.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codesleeps/leanConstruction-sub002/internal/core"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// UpstreamResults carries whichever analytics outputs the caller has.
// A nil field means that result is unavailable and the matching sections
// degrade to placeholders.
type UpstreamResults struct {
	Stage    *models.ImageAnalysisResult
	Waste    *models.WasteAssessment
	Forecast *models.CombinedForecast
}

// Params identifies the report to assemble.
type Params struct {
	ProjectID   uuid.UUID
	ProjectName string
	Type        models.ReportType
	GeneratedAt time.Time
}

// reportSections maps each report type to its fixed section list.
var reportSections = map[models.ReportType][]models.SectionKind{
	models.ReportDaily:  {models.SectionProgress, models.SectionSafety},
	models.ReportWeekly: {models.SectionProgress, models.SectionWaste, models.SectionSafety, models.SectionHousekeeping},
	models.ReportMonthly: {
		models.SectionProgress, models.SectionWaste, models.SectionSafety,
		models.SectionHousekeeping, models.SectionForecast,
	},
	models.ReportExecutive: {models.SectionWaste, models.SectionForecast},
	models.ReportComprehensive: {
		models.SectionProgress, models.SectionWaste, models.SectionSafety,
		models.SectionHousekeeping, models.SectionForecast,
	},
}

// Assembler builds reports. Safe for concurrent use.
type Assembler struct{}

// NewAssembler creates an Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds the report for the requested type. Missing upstream
// results produce "data unavailable" sections rather than failing the
// report; the only error is an unknown report type.
func (a *Assembler) Assemble(params Params, upstream UpstreamResults) (models.Report, error) {
	kinds, ok := reportSections[params.Type]
	if !ok {
		return models.Report{}, fmt.Errorf("%w: unknown report type %q", core.ErrConfiguration, params.Type)
	}

	sections := make([]models.ReportSection, 0, len(kinds))
	for _, kind := range kinds {
		sections = append(sections, buildSection(kind, upstream))
	}

	return models.Report{
		Metadata: models.ReportMetadata{
			ID:          uuid.New(),
			ProjectID:   params.ProjectID,
			ProjectName: params.ProjectName,
			Type:        params.Type,
			GeneratedAt: params.GeneratedAt.UTC(),
		},
		ExecutiveSummary: buildSummary(params.ProjectName, upstream),
		Sections:         sections,
	}, nil
}

// buildSummary produces the top-line narrative from template rules keyed
// on waste health and forecast risk.
func buildSummary(projectName string, upstream UpstreamResults) models.ExecutiveSummary {
	health := models.HealthModerate
	haveHealth := upstream.Waste != nil
	if haveHealth {
		health = upstream.Waste.HealthStatus
	}
	risk := models.RiskMedium
	haveRisk := upstream.Forecast != nil
	if haveRisk {
		risk = upstream.Forecast.CombinedRiskLevel
	}

	var status string
	switch {
	case !haveHealth && !haveRisk:
		status = "unknown"
	case haveHealth && health == models.HealthHealthy && (!haveRisk || risk == models.RiskLow):
		status = "good"
	case health == models.HealthSevere || risk == models.RiskHigh:
		status = "at_risk"
	default:
		status = "needs_attention"
	}

	narrative := fmt.Sprintf("Project %s is currently rated %q.", projectName, status)
	if haveHealth {
		narrative += fmt.Sprintf(" Lean waste health is %s with an overall waste score of %.2f.",
			upstream.Waste.HealthStatus, upstream.Waste.OverallWasteScore)
	}
	if haveRisk {
		narrative += fmt.Sprintf(" Combined schedule and cost risk is %s.", risk)
	}
	if !haveHealth && !haveRisk {
		narrative += " Insufficient analytics data is available to rate this project."
	}

	return models.ExecutiveSummary{OverallStatus: status, Narrative: narrative}
}
