package report

import (
	"fmt"

	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

const unavailableNote = "Data unavailable for this reporting period."

var sectionTitles = map[models.SectionKind]string{
	models.SectionProgress:     "Construction Progress",
	models.SectionWaste:        "Lean Waste Assessment",
	models.SectionSafety:       "Safety Observations",
	models.SectionHousekeeping: "Site Housekeeping",
	models.SectionForecast:     "Schedule & Cost Forecast",
}

func buildSection(kind models.SectionKind, upstream UpstreamResults) models.ReportSection {
	section := models.ReportSection{
		Kind:  kind,
		Title: sectionTitles[kind],
	}

	switch kind {
	case models.SectionProgress:
		if upstream.Stage == nil {
			return unavailable(section)
		}
		fillProgress(&section, upstream.Stage)
	case models.SectionWaste:
		if upstream.Waste == nil {
			return unavailable(section)
		}
		fillWaste(&section, upstream.Waste)
	case models.SectionSafety:
		if upstream.Waste == nil {
			return unavailable(section)
		}
		fillSafety(&section, upstream.Waste)
	case models.SectionHousekeeping:
		if upstream.Waste == nil {
			return unavailable(section)
		}
		fillHousekeeping(&section, upstream.Waste)
	case models.SectionForecast:
		if upstream.Forecast == nil {
			return unavailable(section)
		}
		fillForecast(&section, upstream.Forecast)
	}
	return section
}

func unavailable(section models.ReportSection) models.ReportSection {
	section.Available = false
	section.Body = unavailableNote
	return section
}

func fillProgress(section *models.ReportSection, stage *models.ImageAnalysisResult) {
	section.Available = true
	section.Body = fmt.Sprintf(
		"Site imagery places the project in the %s stage at approximately %.0f%% overall completion (confidence %.2f).",
		stage.DetectedStage, stage.ProgressEstimate, stage.Confidence)
	if stage.QualityDegraded {
		section.Body += " Image quality was below the reliability floor; treat the stage call as indicative."
	}
	section.Metrics = map[string]any{
		"detected_stage":    string(stage.DetectedStage),
		"progress_estimate": stage.ProgressEstimate,
		"confidence":        stage.Confidence,
	}
}

func fillWaste(section *models.ReportSection, waste *models.WasteAssessment) {
	section.Available = true

	detected := 0
	for _, cat := range models.WasteCategories {
		if waste.Categories[cat].Detected {
			detected++
		}
	}

	section.Body = fmt.Sprintf(
		"Overall waste score is %.2f (%s). %d of %d DOWNTIME categories exceeded their detection thresholds.",
		waste.OverallWasteScore, waste.HealthStatus, detected, len(models.WasteCategories))
	if len(waste.PriorityActions) > 0 {
		top := waste.PriorityActions[0]
		section.Body += fmt.Sprintf(" Top priority (%s): %s.", top.Priority, top.Action)
	}
	section.Metrics = map[string]any{
		"overall_waste_score": waste.OverallWasteScore,
		"health_status":       string(waste.HealthStatus),
		"detected_categories": detected,
	}
}

// fillSafety derives safety observations from the defect and motion waste
// signals; elevated rework and crew movement correlate with incident
// exposure on site.
func fillSafety(section *models.ReportSection, waste *models.WasteAssessment) {
	section.Available = true
	defects := waste.Categories[models.WasteDefects].SeverityScore
	motion := waste.Categories[models.WasteMotion].SeverityScore
	exposure := (defects + motion) / 2

	switch {
	case exposure >= 0.5:
		section.Body = "Elevated rework and crew movement levels indicate increased incident exposure; reinforce toolbox talks and review work-area access."
	case exposure >= 0.25:
		section.Body = "Moderate rework and movement levels observed; continue routine safety walkdowns."
	default:
		section.Body = "No elevated safety exposure indicators in this period."
	}
	section.Metrics = map[string]any{"exposure_index": exposure}
}

// fillHousekeeping derives a site-order assessment from the inventory,
// transportation and motion categories.
func fillHousekeeping(section *models.ReportSection, waste *models.WasteAssessment) {
	section.Available = true
	score := (waste.Categories[models.WasteInventory].SeverityScore +
		waste.Categories[models.WasteTransportation].SeverityScore +
		waste.Categories[models.WasteMotion].SeverityScore) / 3

	switch {
	case score >= 0.5:
		section.Body = "Material stockpiles, double handling and crew travel indicate poor site order; schedule a laydown-area reorganization."
	case score >= 0.25:
		section.Body = "Site order is acceptable with localized material buildup; address during routine housekeeping."
	default:
		section.Body = "Site housekeeping is in good order."
	}
	section.Metrics = map[string]any{"housekeeping_index": score}
}

func fillForecast(section *models.ReportSection, forecast *models.CombinedForecast) {
	section.Available = true
	section.Body = fmt.Sprintf(
		"Forecast completion is %s (%+d days vs plan, confidence %.2f). Predicted final cost is %.0f (%+.1f%% vs budget). Combined risk: %s.",
		forecast.Schedule.PredictedCompletionDate.Format("2006-01-02"),
		forecast.Schedule.ScheduleVarianceDays,
		forecast.Schedule.ConfidenceLevel,
		forecast.Cost.PredictedFinalCost,
		forecast.Cost.BudgetVariancePercentage,
		forecast.CombinedRiskLevel)
	if forecast.Schedule.InsufficientHistory {
		section.Body += " History is below the forecasting floor; confidence is reduced."
	}
	section.Metrics = map[string]any{
		"schedule_variance_days":     forecast.Schedule.ScheduleVarianceDays,
		"budget_variance_percentage": forecast.Cost.BudgetVariancePercentage,
		"combined_risk_level":        string(forecast.CombinedRiskLevel),
	}
}
