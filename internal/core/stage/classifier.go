// Package stage classifies construction-site images into lifecycle stages
// from externally extracted feature vectors. Classification is pure and
// deterministic: the same features always produce the same result.
package stage

import (
	"fmt"
	"math"
	"sort"

	"github.com/codesleeps/leanConstruction-sub002/internal/core"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// Config holds the classifier thresholds. Construct once at startup and
// treat as immutable.
type Config struct {
	// ConfidenceCap bounds reported confidence when image quality is poor.
	ConfidenceCap float64
	// BrightnessFloor and SharpnessFloor are the quality signal levels
	// below which the input is judged unreliable.
	BrightnessFloor float64
	SharpnessFloor  float64
}

// DefaultConfig returns the product-facing default thresholds.
func DefaultConfig() Config {
	return Config{
		ConfidenceCap:   0.6,
		BrightnessFloor: 0.25,
		SharpnessFloor:  0.3,
	}
}

// Classifier turns extracted image features into stage classifications.
// Safe for concurrent use.
type Classifier struct {
	cfg Config
}

// New creates a Classifier with the given thresholds.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Activity tags that nudge the progress estimate within the detected
// stage's band. Positive offsets push toward the band top.
var activityOffsets = map[string]float64{
	"final_inspection": 0.45,
	"punch_list":       0.35,
	"cleanup":          0.25,
	"installation":     0.15,
	"mobilization":     -0.35,
	"layout":           -0.25,
}

// Classify returns the stage classification for one image's features.
// Guarantees: probabilities cover every stage, are non-negative, and sum
// to 1 within 1e-6; DetectedStage is the argmax; Confidence equals the
// maximum probability. Poor image quality degrades confidence, it never
// fails; the only fatal cases are a malformed score vector (validation
// error) and scores for a stage outside the closed set (configuration
// error).
func (c *Classifier) Classify(features models.ImageFeatures, projectID string) (models.ImageAnalysisResult, error) {
	if err := validate(features); err != nil {
		return models.ImageAnalysisResult{}, err
	}

	probs := normalize(features.StageScores)

	degraded := features.Brightness < c.cfg.BrightnessFloor || features.Sharpness < c.cfg.SharpnessFloor
	if degraded {
		probs = capConfidence(probs, c.cfg.ConfidenceCap)
	}

	detected, confidence := argmax(probs)

	result := models.ImageAnalysisResult{
		DetectedStage:      detected,
		Confidence:         confidence,
		StageProbabilities: probs,
		DetectedActivities: append([]string(nil), features.Activities...),
		ProgressEstimate:   progressEstimate(detected, features.Activities),
		QualityDegraded:    degraded,
	}
	return result, nil
}

func validate(features models.ImageFeatures) error {
	if len(features.StageScores) == 0 {
		return fmt.Errorf("%w: empty stage score vector", core.ErrValidation)
	}
	total := 0.0
	for s, v := range features.StageScores {
		if !s.Valid() {
			return fmt.Errorf("%w: unknown stage %q in score vector", core.ErrConfiguration, s)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite score for stage %q", core.ErrValidation, s)
		}
		if v < 0 {
			return fmt.Errorf("%w: negative score %v for stage %q", core.ErrValidation, v, s)
		}
		total += v
	}
	if total == 0 {
		return fmt.Errorf("%w: all stage scores are zero", core.ErrValidation)
	}
	return nil
}

// normalize converts raw non-negative scores into a probability
// distribution covering every stage in the closed set. Stages absent from
// the input read as zero score.
func normalize(scores map[models.Stage]float64) map[models.Stage]float64 {
	total := 0.0
	for _, v := range scores {
		total += v
	}
	probs := make(map[models.Stage]float64, len(models.Stages))
	for _, s := range models.Stages {
		probs[s] = scores[s] / total
	}
	return probs
}

// capConfidence blends the distribution toward uniform just enough to pin
// the maximum probability at cap. The blend keeps the sum at 1 and
// preserves the argmax.
func capConfidence(probs map[models.Stage]float64, cap float64) map[models.Stage]float64 {
	_, maxP := argmax(probs)
	if maxP <= cap {
		return probs
	}

	n := float64(len(models.Stages))
	uniform := 1.0 / n
	// lambda*maxP + (1-lambda)*uniform = cap
	lambda := (cap - uniform) / (maxP - uniform)
	if lambda < 0 {
		lambda = 0
	}

	blended := make(map[models.Stage]float64, len(probs))
	for _, s := range models.Stages {
		blended[s] = lambda*probs[s] + (1-lambda)*uniform
	}
	return blended
}

// argmax returns the most probable stage and its probability. Ties break
// by lifecycle order so classification is deterministic.
func argmax(probs map[models.Stage]float64) (models.Stage, float64) {
	best := models.Stages[0]
	bestP := probs[best]
	for _, s := range models.Stages[1:] {
		if probs[s] > bestP {
			best = s
			bestP = probs[s]
		}
	}
	return best, bestP
}

// progressEstimate maps the detected stage to its band of the 0-100 range
// and refines the position within the band from activity tags. Band
// membership makes the estimate monotone in stage order.
func progressEstimate(detected models.Stage, activities []string) float64 {
	ord, _ := detected.Ordinal()
	bandWidth := 100.0 / float64(len(models.Stages))
	lower := float64(ord) * bandWidth
	position := 0.5

	// Apply offsets in sorted tag order so duplicate-free inputs with the
	// same tag set always land on the same estimate.
	tags := append([]string(nil), activities...)
	sort.Strings(tags)
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		position += activityOffsets[tag]
	}

	if position < 0.05 {
		position = 0.05
	}
	if position > 0.95 {
		position = 0.95
	}
	return lower + position*bandWidth
}
