package models

import (
	"fmt"
	"time"
)

// RiskLevel is the ordinal schedule/cost risk summary.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

var riskRank = map[RiskLevel]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2}

// Rank returns the ordinal position of r (low < medium < high).
func (r RiskLevel) Rank() int { return riskRank[r] }

// MaxRisk returns the higher of two risk levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// ProgressPoint is one observation of cumulative completion percentage.
type ProgressPoint struct {
	Date    time.Time `json:"date"`
	Percent float64   `json:"percent"` // 0-100
}

// CostPoint is one observation of cumulative spend.
type CostPoint struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// WorkforcePoint is one observation of on-site headcount.
type WorkforcePoint struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// HistoricalSeries bundles the time series the forecast engine consumes.
type HistoricalSeries struct {
	Progress  []ProgressPoint  `json:"progress"`
	Cost      []CostPoint      `json:"cost,omitempty"`
	Workforce []WorkforcePoint `json:"workforce,omitempty"`
}

// ProjectInfo is the project metadata the forecast engine needs.
type ProjectInfo struct {
	Budget              float64   `json:"budget"`
	PlannedDurationDays int       `json:"planned_duration_days"`
	StartDate           time.Time `json:"start_date"`
}

// PlannedCompletion returns the planned completion date.
func (p ProjectInfo) PlannedCompletion() time.Time {
	return p.StartDate.AddDate(0, 0, p.PlannedDurationDays)
}

// Validate checks the metadata required for forecasting.
func (p ProjectInfo) Validate() error {
	if p.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %v", p.Budget)
	}
	if p.PlannedDurationDays <= 0 {
		return fmt.Errorf("planned duration must be positive, got %d days", p.PlannedDurationDays)
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	return nil
}

// DateInterval is a confidence interval over dates.
type DateInterval struct {
	Lower time.Time `json:"lower"`
	Upper time.Time `json:"upper"`
}

// AmountInterval is a confidence interval over currency amounts.
type AmountInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ScheduleForecast predicts project completion.
// ScheduleVarianceDays is negative when ahead of plan.
type ScheduleForecast struct {
	PredictedCompletionDate time.Time    `json:"predicted_completion_date"`
	ScheduleVarianceDays    int          `json:"schedule_variance_days"`
	ConfidenceLevel         float64      `json:"confidence_level"`
	ConfidenceInterval      DateInterval `json:"confidence_interval"`
	InsufficientHistory     bool         `json:"insufficient_history"`
}

// CostForecast predicts final project cost.
type CostForecast struct {
	PredictedFinalCost       float64        `json:"predicted_final_cost"`
	BudgetVariancePercentage float64        `json:"budget_variance_percentage"`
	CostAtCompletion         float64        `json:"cost_at_completion"`
	ConfidenceInterval       AmountInterval `json:"confidence_interval"`
}

// CombinedForecast is the full forecast engine output.
type CombinedForecast struct {
	Schedule          ScheduleForecast `json:"schedule"`
	Cost              CostForecast     `json:"cost"`
	CombinedRiskLevel RiskLevel        `json:"combined_risk_level"`
	Recommendations   []string         `json:"recommendations"`
}
