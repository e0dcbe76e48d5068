package forecast

import (
	"fmt"

	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// assessRisk combines the schedule and cost axes into one risk level.
// Each axis maps to its own level and the combined level is the maximum of
// the two, so either axis alone can force escalation. A severe waste
// assessment, when supplied, escalates one further level.
func (e *Engine) assessRisk(schedule models.ScheduleForecast, cost models.CostForecast, assessment *models.WasteAssessment) (models.RiskLevel, []string) {
	scheduleRisk := e.scheduleRisk(schedule.ScheduleVarianceDays)
	costRisk := e.costRisk(cost.BudgetVariancePercentage)

	combined := models.MaxRisk(scheduleRisk, costRisk)

	var recommendations []string
	if scheduleRisk != models.RiskLow {
		recommendations = append(recommendations, fmt.Sprintf(
			"Schedule is trending %d days past plan; resequence critical-path activities and review crew loading",
			schedule.ScheduleVarianceDays))
	}
	if costRisk != models.RiskLow {
		recommendations = append(recommendations, fmt.Sprintf(
			"Cost is trending %.1f%% over budget; review change orders and procurement commitments",
			cost.BudgetVariancePercentage))
	}
	if schedule.InsufficientHistory {
		recommendations = append(recommendations,
			"Forecast is based on limited history; treat projections as indicative until more progress data accumulates")
	}

	if assessment != nil && assessment.HealthStatus == models.HealthSevere {
		combined = escalate(combined)
		recommendations = append(recommendations,
			"Severe waste levels detected; address the top priority actions to protect the schedule and budget")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"Project is tracking to plan; maintain current controls")
	}

	return combined, recommendations
}

func (e *Engine) scheduleRisk(varianceDays int) models.RiskLevel {
	switch {
	case varianceDays <= e.cfg.ScheduleLowDays:
		return models.RiskLow
	case varianceDays <= e.cfg.ScheduleMediumDays:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

func (e *Engine) costRisk(overrunPct float64) models.RiskLevel {
	switch {
	case overrunPct <= e.cfg.CostLowPct:
		return models.RiskLow
	case overrunPct <= e.cfg.CostMediumPct:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

func escalate(r models.RiskLevel) models.RiskLevel {
	switch r {
	case models.RiskLow:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}
