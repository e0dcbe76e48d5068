// Package mock provides a configurable in-memory vision provider for
// tests and local development.
package mock

import (
	"context"

	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// Provider satisfies models.VisionProvider for testing.
type Provider struct {
	Name_       string
	ExtractFunc func(ctx context.Context, req models.ExtractionRequest) (models.ImageFeatures, error)
}

func (m *Provider) Name() string { return m.Name_ }

func (m *Provider) ExtractFeatures(ctx context.Context, req models.ExtractionRequest) (models.ImageFeatures, error) {
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, req)
	}
	return models.ImageFeatures{}, nil
}

// NewProvider returns a Provider with sensible default features: a clear
// image showing a structural-frame site.
func NewProvider() *Provider {
	return &Provider{
		Name_: "mock",
		ExtractFunc: func(_ context.Context, _ models.ExtractionRequest) (models.ImageFeatures, error) {
			return models.ImageFeatures{
				StageScores: map[models.Stage]float64{
					models.StageFoundation:      0.1,
					models.StageStructuralFrame: 0.75,
					models.StageRoofing:         0.15,
				},
				Activities: []string{"installation"},
				Brightness: 0.7,
				Sharpness:  0.8,
			}, nil
		},
	}
}

// NewFailingProvider returns a Provider that always returns the given
// error.
func NewFailingProvider(err error) *Provider {
	return &Provider{
		Name_: "mock-failing",
		ExtractFunc: func(_ context.Context, _ models.ExtractionRequest) (models.ImageFeatures, error) {
			return models.ImageFeatures{}, err
		},
	}
}

// NewTimeoutProvider returns a Provider that blocks until context is
// cancelled.
func NewTimeoutProvider() *Provider {
	return &Provider{
		Name_: "mock-timeout",
		ExtractFunc: func(ctx context.Context, _ models.ExtractionRequest) (models.ImageFeatures, error) {
			<-ctx.Done()
			return models.ImageFeatures{}, models.ErrInferenceTimeout
		},
	}
}

// Compile-time check that Provider implements VisionProvider.
var _ models.VisionProvider = (*Provider)(nil)
