package models

import "fmt"

// WasteCategory is one of the eight DOWNTIME lean-construction waste
// categories. Declaration order is the canonical tie-break order for
// priority actions.
type WasteCategory string

const (
	WasteDefects           WasteCategory = "defects"
	WasteOverproduction    WasteCategory = "overproduction"
	WasteWaiting           WasteCategory = "waiting"
	WasteNonUtilizedTalent WasteCategory = "non_utilized_talent"
	WasteTransportation    WasteCategory = "transportation"
	WasteInventory         WasteCategory = "inventory"
	WasteMotion            WasteCategory = "motion"
	WasteExtraProcessing   WasteCategory = "extra_processing"
)

// WasteCategories lists all eight categories in canonical order.
var WasteCategories = []WasteCategory{
	WasteDefects,
	WasteOverproduction,
	WasteWaiting,
	WasteNonUtilizedTalent,
	WasteTransportation,
	WasteInventory,
	WasteMotion,
	WasteExtraProcessing,
}

var wasteOrdinals = func() map[WasteCategory]int {
	m := make(map[WasteCategory]int, len(WasteCategories))
	for i, c := range WasteCategories {
		m[c] = i
	}
	return m
}()

// Ordinal returns the canonical position of c and whether c is known.
func (c WasteCategory) Ordinal() (int, bool) {
	i, ok := wasteOrdinals[c]
	return i, ok
}

// Valid reports whether c is a member of the closed category set.
func (c WasteCategory) Valid() bool {
	_, ok := wasteOrdinals[c]
	return ok
}

// ParseWasteCategory converts a string into a WasteCategory, rejecting
// unknown values.
func ParseWasteCategory(v string) (WasteCategory, error) {
	c := WasteCategory(v)
	if !c.Valid() {
		return "", fmt.Errorf("unknown waste category %q", v)
	}
	return c, nil
}

// WasteIndicatorSet is the per-project input bundle for one waste
// assessment. Numeric signals live in the three group maps; boolean signals
// live in Flags. Missing signals read as zero; the engine holds no state
// across calls.
type WasteIndicatorSet struct {
	Schedule map[string]float64 `json:"schedule,omitempty"`
	Resource map[string]float64 `json:"resource,omitempty"`
	Quality  map[string]float64 `json:"quality,omitempty"`
	Flags    map[string]bool    `json:"flags,omitempty"`

	// Budget scales cost impact estimates. Zero means unknown.
	Budget float64 `json:"budget,omitempty"`
}

// Signal returns the named numeric signal from whichever group holds it,
// or 0 when absent. Boolean flags read as 0 or 1.
func (s WasteIndicatorSet) Signal(name string) float64 {
	if v, ok := s.Schedule[name]; ok {
		return v
	}
	if v, ok := s.Resource[name]; ok {
		return v
	}
	if v, ok := s.Quality[name]; ok {
		return v
	}
	if b, ok := s.Flags[name]; ok && b {
		return 1
	}
	return 0
}

// HealthStatus is the ordinal project health derived from the overall
// waste score.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthModerate HealthStatus = "moderate"
	HealthSevere   HealthStatus = "severe"
)

// PriorityTier ranks remediation actions.
type PriorityTier string

const (
	PriorityHigh   PriorityTier = "high"
	PriorityMedium PriorityTier = "medium"
	PriorityLow    PriorityTier = "low"
)

// WasteCategoryResult is the per-category assessment outcome.
// Detected is true iff SeverityScore crossed the category threshold.
type WasteCategoryResult struct {
	Detected            bool     `json:"detected"`
	SeverityScore       float64  `json:"severity_score"`
	EstimatedCostImpact float64  `json:"estimated_cost_impact"`
	Indicators          []string `json:"indicators"`
}

// PriorityAction is one remediation recommendation.
type PriorityAction struct {
	Category WasteCategory `json:"category"`
	Action   string        `json:"action"`
	Priority PriorityTier  `json:"priority"`
}

// WasteAssessment is the full engine output. All eight categories are
// always present, even when nothing was detected.
type WasteAssessment struct {
	OverallWasteScore float64                               `json:"overall_waste_score"`
	HealthStatus      HealthStatus                          `json:"health_status"`
	Categories        map[WasteCategory]WasteCategoryResult `json:"categories"`
	PriorityActions   []PriorityAction                      `json:"priority_actions"`
}
