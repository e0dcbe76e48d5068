// Package forecast predicts project completion dates and final costs from
// historical progress, cost and workforce series. Sparse input degrades to
// wide intervals and low confidence; it never fails a well-formed call.
package forecast

import (
	"fmt"
	"sort"

	"github.com/codesleeps/leanConstruction-sub002/internal/core"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// Config holds the engine thresholds. Construct once at startup and treat
// as immutable.
type Config struct {
	// MinHistoryDays is the history floor below which schedule confidence
	// is reported as zero.
	MinHistoryDays int

	// Risk cut points. Schedule variance at or under ScheduleLowDays is
	// low risk, at or under ScheduleMediumDays is medium, above is high.
	ScheduleLowDays    int
	ScheduleMediumDays int
	// Cost overrun percentage cut points, same shape.
	CostLowPct    float64
	CostMediumPct float64
}

// DefaultConfig returns the product-facing default thresholds.
func DefaultConfig() Config {
	return Config{
		MinHistoryDays:     30,
		ScheduleLowDays:    4,
		ScheduleMediumDays: 15,
		CostLowPct:         3,
		CostMediumPct:      10,
	}
}

// Engine produces combined schedule/cost forecasts. Safe for concurrent
// use.
type Engine struct {
	cfg        Config
	estimators []CostEstimator
}

// New creates an Engine with the default estimator ensemble.
func New(cfg Config) *Engine {
	return &Engine{
		cfg: cfg,
		estimators: []CostEstimator{
			runRateEstimator{},
			earnedValueEstimator{},
		},
	}
}

// NewWithEstimators creates an Engine with a custom cost estimator
// ensemble. At least one estimator is required.
func NewWithEstimators(cfg Config, estimators []CostEstimator) (*Engine, error) {
	if len(estimators) == 0 {
		return nil, fmt.Errorf("%w: at least one cost estimator is required", core.ErrConfiguration)
	}
	return &Engine{cfg: cfg, estimators: estimators}, nil
}

// Forecast computes schedule and cost forecasts plus the combined risk
// level. The optional waste assessment, when present and severe, escalates
// the combined risk by one level. Validation errors cover only malformed
// input (empty progress series, bad project metadata); sparse history is a
// degraded result, not an error.
func (e *Engine) Forecast(series models.HistoricalSeries, info models.ProjectInfo, assessment *models.WasteAssessment) (models.CombinedForecast, error) {
	if len(series.Progress) == 0 {
		return models.CombinedForecast{}, fmt.Errorf("%w: progress series is empty", core.ErrValidation)
	}
	if err := info.Validate(); err != nil {
		return models.CombinedForecast{}, fmt.Errorf("%w: %v", core.ErrValidation, err)
	}

	progress := sortedProgress(series.Progress)

	schedule := e.forecastSchedule(progress, info)
	cost := e.forecastCost(series, info, progress)

	risk, recommendations := e.assessRisk(schedule, cost, assessment)

	return models.CombinedForecast{
		Schedule:          schedule,
		Cost:              cost,
		CombinedRiskLevel: risk,
		Recommendations:   recommendations,
	}, nil
}

// sortedProgress returns a date-ordered copy of the progress points.
func sortedProgress(points []models.ProgressPoint) []models.ProgressPoint {
	sorted := append([]models.ProgressPoint(nil), points...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
