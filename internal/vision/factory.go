// Package vision provides pluggable clients for the external
// image-feature-extraction service. The core never calls these directly;
// the orchestration layer injects the models.VisionProvider interface.
package vision

import (
	"fmt"

	"github.com/codesleeps/leanConstruction-sub002/internal/config"
	"github.com/codesleeps/leanConstruction-sub002/internal/vision/mock"
	"github.com/codesleeps/leanConstruction-sub002/internal/vision/roboflow"
	"github.com/codesleeps/leanConstruction-sub002/internal/vision/torchserve"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// NewProvider constructs the appropriate vision provider based on config.
// Called once at server startup.
func NewProvider(cfg config.VisionConfig) (models.VisionProvider, error) {
	switch cfg.Provider {
	case "torchserve":
		return torchserve.NewProvider(cfg.TorchServe, cfg.InferenceTimeout), nil
	case "roboflow":
		return roboflow.NewProvider(cfg.Roboflow, cfg.InferenceTimeout), nil
	case "mock":
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown vision provider %q: must be one of torchserve, roboflow, mock", cfg.Provider)
	}
}
