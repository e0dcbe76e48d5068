// Package waste scores project telemetry against the eight DOWNTIME
// lean-construction waste categories. Scoring is pure and deterministic:
// no clock, no randomness, no state across calls.
package waste

import (
	"sort"

	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// indicator binds one named signal to a category with a normalization
// reference scale and a weight. A signal value normalizes to
// min(value/ref, 1); boolean flags read as 0 or 1 against ref 1.
type indicator struct {
	signal string
	ref    float64
	weight float64
}

// Per-category indicator tables. Weights within each category sum to 1.
// Raw signals deliberately feed more than one category: idle time drives
// Waiting, Non-utilized Talent and Motion; rework drives Defects and Extra
// Processing; schedule variance drives Waiting and Overproduction; material
// waste drives Inventory and Transportation.
var categoryIndicators = map[models.WasteCategory][]indicator{
	models.WasteDefects: {
		{signal: "rework_hours", ref: 80, weight: 0.8},
		{signal: "defect_count", ref: 40, weight: 0.1},
		{signal: "rework_needed", ref: 1, weight: 0.1},
	},
	models.WasteOverproduction: {
		{signal: "schedule_variance_days", ref: 15, weight: 0.5},
		{signal: "premature_work_pct", ref: 40, weight: 0.3},
		{signal: "overordered_materials_pct", ref: 30, weight: 0.2},
	},
	models.WasteWaiting: {
		{signal: "idle_time_hours", ref: 60, weight: 0.6},
		{signal: "schedule_variance_days", ref: 15, weight: 0.3},
		{signal: "material_delay", ref: 1, weight: 0.1},
	},
	models.WasteNonUtilizedTalent: {
		{signal: "skilled_idle_hours", ref: 60, weight: 0.5},
		{signal: "idle_time_hours", ref: 60, weight: 0.4},
		{signal: "underutilized_crew_pct", ref: 50, weight: 0.1},
	},
	models.WasteTransportation: {
		{signal: "material_moves_count", ref: 40, weight: 0.4},
		{signal: "material_waste_pct", ref: 12, weight: 0.3},
		{signal: "transport_distance_km", ref: 50, weight: 0.2},
		{signal: "double_handling", ref: 1, weight: 0.1},
	},
	models.WasteInventory: {
		{signal: "material_waste_pct", ref: 12, weight: 0.7},
		{signal: "excess_stock_days", ref: 60, weight: 0.2},
		{signal: "excess_stock", ref: 1, weight: 0.1},
	},
	models.WasteMotion: {
		{signal: "crew_travel_hours", ref: 50, weight: 0.5},
		{signal: "tool_search_hours", ref: 20, weight: 0.3},
		{signal: "idle_time_hours", ref: 60, weight: 0.2},
	},
	models.WasteExtraProcessing: {
		{signal: "rework_hours", ref: 80, weight: 0.4},
		{signal: "duplicate_inspections_count", ref: 15, weight: 0.3},
		{signal: "over_specification_pct", ref: 40, weight: 0.3},
	},
}

// costSensitivity is the per-category cost factor in currency units per
// severity point at project scale 1.0 (a $1M project).
var costSensitivity = map[models.WasteCategory]float64{
	models.WasteDefects:           25000,
	models.WasteOverproduction:    8000,
	models.WasteWaiting:           18000,
	models.WasteNonUtilizedTalent: 12000,
	models.WasteTransportation:    6000,
	models.WasteInventory:         10000,
	models.WasteMotion:            5000,
	models.WasteExtraProcessing:   7000,
}

// Config holds the engine's scoring thresholds. Construct once at startup
// and treat as immutable.
type Config struct {
	// DetectionThreshold is the module-wide default severity at which a
	// category flips to detected. Overrides apply per category.
	DetectionThreshold float64
	ThresholdOverrides map[models.WasteCategory]float64

	// Health status cut points over the overall score.
	HealthyBelow float64
	SevereAbove  float64

	// Priority tier cut points over category severity.
	HighTierAt   float64
	MediumTierAt float64
}

// DefaultConfig returns the product-facing default thresholds.
func DefaultConfig() Config {
	return Config{
		DetectionThreshold: 0.3,
		HealthyBelow:       0.2,
		SevereAbove:        0.5,
		HighTierAt:         0.6,
		MediumTierAt:       0.4,
	}
}

// Engine assesses waste indicator bundles. Safe for concurrent use.
type Engine struct {
	cfg Config
}

// New creates an Engine with the given thresholds.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Assess scores the indicator set against all eight categories. Every
// category is always present in the result; missing signals read as zero
// rather than failing, since upstream telemetry sources are heterogeneous.
func (e *Engine) Assess(set models.WasteIndicatorSet) models.WasteAssessment {
	scale := set.Budget / 1_000_000
	if scale <= 0 {
		scale = 1
	}

	categories := make(map[models.WasteCategory]models.WasteCategoryResult, len(models.WasteCategories))
	sum := 0.0
	for _, cat := range models.WasteCategories {
		result := e.assessCategory(cat, set, scale)
		categories[cat] = result
		sum += result.SeverityScore
	}

	overall := sum / float64(len(models.WasteCategories))

	return models.WasteAssessment{
		OverallWasteScore: overall,
		HealthStatus:      e.healthStatus(overall),
		Categories:        categories,
		PriorityActions:   e.priorityActions(categories),
	}
}

func (e *Engine) assessCategory(cat models.WasteCategory, set models.WasteIndicatorSet, scale float64) models.WasteCategoryResult {
	severity := 0.0
	var triggered []string
	for _, ind := range categoryIndicators[cat] {
		value := set.Signal(ind.signal)
		if value <= 0 {
			continue
		}
		normalized := value / ind.ref
		if normalized > 1 {
			normalized = 1
		}
		severity += ind.weight * normalized
		triggered = append(triggered, ind.signal)
	}
	severity = clamp01(severity)

	detected := severity >= e.threshold(cat)
	cost := 0.0
	if detected {
		cost = severity * costSensitivity[cat] * scale
	}

	return models.WasteCategoryResult{
		Detected:            detected,
		SeverityScore:       severity,
		EstimatedCostImpact: cost,
		Indicators:          triggered,
	}
}

func (e *Engine) threshold(cat models.WasteCategory) float64 {
	if t, ok := e.cfg.ThresholdOverrides[cat]; ok {
		return t
	}
	return e.cfg.DetectionThreshold
}

func (e *Engine) healthStatus(overall float64) models.HealthStatus {
	switch {
	case overall < e.cfg.HealthyBelow:
		return models.HealthHealthy
	case overall > e.cfg.SevereAbove:
		return models.HealthSevere
	default:
		return models.HealthModerate
	}
}

// priorityActions maps detected categories to remediation actions, sorted
// by severity descending with ties broken by category enumeration order.
func (e *Engine) priorityActions(categories map[models.WasteCategory]models.WasteCategoryResult) []models.PriorityAction {
	var detected []models.WasteCategory
	for _, cat := range models.WasteCategories {
		if categories[cat].Detected {
			detected = append(detected, cat)
		}
	}

	sort.SliceStable(detected, func(i, j int) bool {
		return categories[detected[i]].SeverityScore > categories[detected[j]].SeverityScore
	})

	actions := make([]models.PriorityAction, 0, len(detected))
	for _, cat := range detected {
		actions = append(actions, models.PriorityAction{
			Category: cat,
			Action:   remediationActions[cat],
			Priority: e.tier(categories[cat].SeverityScore),
		})
	}
	return actions
}

func (e *Engine) tier(severity float64) models.PriorityTier {
	switch {
	case severity >= e.cfg.HighTierAt:
		return models.PriorityHigh
	case severity >= e.cfg.MediumTierAt:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
