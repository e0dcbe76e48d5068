// Package models contains shared data models used across the construction
// analytics codebase.
package models

import "fmt"

// Stage is one of the fixed, ordered construction lifecycle phases.
type Stage string

const (
	StageSitePreparation  Stage = "site_preparation"
	StageExcavation       Stage = "excavation"
	StageFoundation       Stage = "foundation"
	StageStructuralFrame  Stage = "structural_frame"
	StageRoofing          Stage = "roofing"
	StageExteriorEnvelope Stage = "exterior_envelope"
	StageMEPRoughIn       Stage = "mep_rough_in"
	StageInsulationDrywall Stage = "insulation_drywall"
	StageInteriorFinishes Stage = "interior_finishes"
	StageFlooring         Stage = "flooring"
	StageFixturesFittings Stage = "fixtures_fittings"
	StageLandscaping      Stage = "landscaping"
	StageCompletion       Stage = "completion"
)

// Stages lists every stage in lifecycle order. The ordinal position of a
// stage in this slice drives the progress band mapping.
var Stages = []Stage{
	StageSitePreparation,
	StageExcavation,
	StageFoundation,
	StageStructuralFrame,
	StageRoofing,
	StageExteriorEnvelope,
	StageMEPRoughIn,
	StageInsulationDrywall,
	StageInteriorFinishes,
	StageFlooring,
	StageFixturesFittings,
	StageLandscaping,
	StageCompletion,
}

var stageOrdinals = func() map[Stage]int {
	m := make(map[Stage]int, len(Stages))
	for i, s := range Stages {
		m[s] = i
	}
	return m
}()

// Ordinal returns the zero-based lifecycle position of s and whether s is a
// known stage.
func (s Stage) Ordinal() (int, bool) {
	i, ok := stageOrdinals[s]
	return i, ok
}

// Valid reports whether s is a member of the closed stage set.
func (s Stage) Valid() bool {
	_, ok := stageOrdinals[s]
	return ok
}

// ParseStage converts a string into a Stage, rejecting unknown values.
func ParseStage(v string) (Stage, error) {
	s := Stage(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown construction stage %q", v)
	}
	return s, nil
}

// ImageFeatures is the output of the external feature-extraction
// collaborator for a single image. The core consumes it as a black box:
// per-stage raw scores from the underlying model plus whatever quality
// signals the extractor supplies.
type ImageFeatures struct {
	StageScores map[Stage]float64 `json:"stage_scores"`
	Activities  []string          `json:"activities,omitempty"`
	Brightness  float64           `json:"brightness"` // 0-1, 0 = black frame
	Sharpness   float64           `json:"sharpness"`  // 0-1, 0 = fully blurred
}

// ImageAnalysisResult is the stage classification output for one image.
// Immutable once produced.
type ImageAnalysisResult struct {
	DetectedStage      Stage             `db:"detected_stage"      json:"detected_stage"`
	Confidence         float64           `db:"confidence"          json:"confidence"`
	StageProbabilities map[Stage]float64 `db:"stage_probabilities" json:"stage_probabilities"`
	DetectedActivities []string          `db:"detected_activities" json:"detected_activities"`
	ProgressEstimate   float64           `db:"progress_estimate"   json:"progress_estimate"`
	QualityDegraded    bool              `db:"quality_degraded"    json:"quality_degraded"`
}
