package models

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Sentinel errors every vision backend reports through. Defined next to
// the provider interface so backends and callers share one import.
var (
	ErrProviderUnavailable = errors.New("vision provider unavailable")
	ErrInferenceTimeout    = errors.New("vision inference timeout")
	ErrInvalidResponse     = errors.New("vision provider returned invalid response")
)

// ExtractionRequest describes one image to run through feature extraction.
type ExtractionRequest struct {
	ProjectID uuid.UUID
	ImageURL  string
}

// VisionProvider is the interface every image-feature-extraction backend
// must implement. Callers inject this interface rather than a concrete
// backend.
type VisionProvider interface {
	// ExtractFeatures runs the external model over one image and returns
	// the feature bundle the stage classifier consumes.
	ExtractFeatures(ctx context.Context, req ExtractionRequest) (ImageFeatures, error)
	// Name returns the provider identifier (e.g., "torchserve").
	Name() string
}
