package forecast

import (
	"errors"
	"math"
	"sort"

	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// errNotEstimable signals that an estimator cannot produce a figure from
// the available series. The ensemble skips it; this is degradation, not
// failure.
var errNotEstimable = errors.New("cost not estimable from series")

// CostEstimator is the strategy interface for final-cost estimation.
// Additional estimators can join the ensemble without touching the
// aggregation logic.
type CostEstimator interface {
	// Name returns the estimator identifier (e.g., "run_rate").
	Name() string
	// Estimate returns a predicted final cost for the project.
	Estimate(series models.HistoricalSeries, info models.ProjectInfo) (float64, error)
}

// runRateEstimator extrapolates the daily spend rate over the planned
// duration.
type runRateEstimator struct{}

func (runRateEstimator) Name() string { return "run_rate" }

func (runRateEstimator) Estimate(series models.HistoricalSeries, info models.ProjectInfo) (float64, error) {
	if len(series.Cost) == 0 {
		return 0, errNotEstimable
	}
	cost := sortedCost(series.Cost)
	last := cost[len(cost)-1]
	elapsed := last.Date.Sub(info.StartDate).Hours() / hoursPerDay
	if elapsed <= 0 || last.Amount <= 0 {
		return 0, errNotEstimable
	}
	dailyRate := last.Amount / elapsed
	return dailyRate * float64(info.PlannedDurationDays), nil
}

// earnedValueEstimator computes an estimate-at-completion from the cost
// performance index: EAC = actual cost x 100 / percent complete.
type earnedValueEstimator struct{}

func (earnedValueEstimator) Name() string { return "earned_value" }

func (earnedValueEstimator) Estimate(series models.HistoricalSeries, info models.ProjectInfo) (float64, error) {
	if len(series.Cost) == 0 || len(series.Progress) == 0 {
		return 0, errNotEstimable
	}
	cost := sortedCost(series.Cost)
	progress := sortedProgress(series.Progress)
	actual := cost[len(cost)-1].Amount
	percent := progress[len(progress)-1].Percent
	if actual <= 0 || percent <= 0 {
		return 0, errNotEstimable
	}
	return actual * 100 / percent, nil
}

// forecastCost runs the estimator ensemble and combines the outputs.
// Interval bounds always bracket the point estimate and widen with fewer
// historical points and larger estimator disagreement. When no estimator
// can produce a figure the budget itself is the degraded point estimate.
func (e *Engine) forecastCost(series models.HistoricalSeries, info models.ProjectInfo, progress []models.ProgressPoint) models.CostForecast {
	var estimates []float64
	eac := 0.0
	for _, est := range e.estimators {
		v, err := est.Estimate(series, info)
		if err != nil {
			continue
		}
		estimates = append(estimates, v)
		if est.Name() == "earned_value" {
			eac = v
		}
	}

	var predicted float64
	var spread float64
	degraded := len(estimates) == 0
	if degraded {
		predicted = info.Budget
		spread = info.Budget * 0.25
	} else {
		sum := 0.0
		lo, hi := estimates[0], estimates[0]
		for _, v := range estimates {
			sum += v
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		predicted = sum / float64(len(estimates))
		spread = (hi - lo) / 2
	}
	if eac == 0 {
		eac = predicted
	}

	// Sparsity term shrinks as history accumulates.
	n := len(series.Cost)
	if n == 0 {
		n = 1
	}
	margin := math.Max(spread, predicted*0.02) * (1 + 2/math.Sqrt(float64(n)))

	lower := predicted - margin
	if lower < 0 {
		lower = 0
	}

	return models.CostForecast{
		PredictedFinalCost:       predicted,
		BudgetVariancePercentage: (predicted - info.Budget) / info.Budget * 100,
		CostAtCompletion:         eac,
		ConfidenceInterval: models.AmountInterval{
			Lower: lower,
			Upper: predicted + margin,
		},
	}
}

func sortedCost(points []models.CostPoint) []models.CostPoint {
	sorted := append([]models.CostPoint(nil), points...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
