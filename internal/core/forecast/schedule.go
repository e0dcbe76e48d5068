package forecast

import (
	"math"
	"time"

	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

const hoursPerDay = 24

// forecastSchedule extrapolates a completion date from the progress trend.
// A least-squares line through (days since start, percent complete) gives
// the completion day; residual variance drives both the confidence level
// and the interval width. Below the history floor, confidence is reported
// as zero and the interval is widened instead of failing.
func (e *Engine) forecastSchedule(progress []models.ProgressPoint, info models.ProjectInfo) models.ScheduleForecast {
	n := len(progress)
	insufficient := n < e.cfg.MinHistoryDays

	slope, intercept, residualStd := fitProgressTrend(progress, info.StartDate)

	planned := info.PlannedCompletion()

	var completionDay float64
	trendUsable := slope > 1e-9
	if trendUsable {
		completionDay = (100 - intercept) / slope
	} else {
		// Flat or regressing trend: no completion is derivable from the
		// series, so fall back to the plan with zero confidence.
		completionDay = float64(info.PlannedDurationDays)
	}

	predicted := info.StartDate.Add(time.Duration(completionDay*hoursPerDay) * time.Hour)
	varianceDays := int(math.Round(predicted.Sub(planned).Hours() / hoursPerDay))

	confidence := 0.0
	if trendUsable && !insufficient {
		// Grows with history length, shrinks as residual variance grows.
		confidence = (float64(n) / float64(n+10)) * (1 / (1 + residualStd/5))
		if confidence > 1 {
			confidence = 1
		}
	}

	marginDays := scheduleMargin(slope, residualStd, n, info, trendUsable, insufficient)

	return models.ScheduleForecast{
		PredictedCompletionDate: predicted,
		ScheduleVarianceDays:    varianceDays,
		ConfidenceLevel:         confidence,
		ConfidenceInterval: models.DateInterval{
			Lower: predicted.Add(-time.Duration(marginDays*hoursPerDay) * time.Hour),
			Upper: predicted.Add(time.Duration(marginDays*hoursPerDay) * time.Hour),
		},
		InsufficientHistory: insufficient,
	}
}

// scheduleMargin returns the interval half-width in days. The residual
// term shrinks as 1/sqrt(n), so more history at fixed variance never
// widens the interval.
func scheduleMargin(slope, residualStd float64, n int, info models.ProjectInfo, trendUsable, insufficient bool) float64 {
	if !trendUsable {
		return float64(info.PlannedDurationDays)
	}
	margin := 1 + 1.96*residualStd/(slope*math.Sqrt(float64(n)))
	if insufficient {
		margin *= 3
	}
	return margin
}

// fitProgressTrend fits percent = intercept + slope*day by least squares
// and returns the residual standard deviation in percent.
func fitProgressTrend(progress []models.ProgressPoint, start time.Time) (slope, intercept, residualStd float64) {
	n := float64(len(progress))

	var sumX, sumY, sumXX, sumXY float64
	for _, p := range progress {
		x := p.Date.Sub(start).Hours() / hoursPerDay
		sumX += x
		sumY += p.Percent
		sumXX += x * x
		sumXY += x * p.Percent
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		// Single point or all observations on the same day: treat the
		// average rate since start as the trend.
		meanX := sumX / n
		if meanX > 0 {
			return (sumY / n) / meanX, 0, 0
		}
		return 0, sumY / n, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	var ss float64
	for _, p := range progress {
		x := p.Date.Sub(start).Hours() / hoursPerDay
		r := p.Percent - (intercept + slope*x)
		ss += r * r
	}
	residualStd = math.Sqrt(ss / n)
	return slope, intercept, residualStd
}
