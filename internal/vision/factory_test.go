package vision_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesleeps/leanConstruction-sub002/internal/config"
	"github.com/codesleeps/leanConstruction-sub002/internal/vision"
)

func TestNewProvider_TorchServe(t *testing.T) {
	cfg := config.VisionConfig{
		Provider:         "torchserve",
		InferenceTimeout: 30 * time.Second,
		TorchServe:       config.TorchServeConfig{BaseURL: "http://localhost:8081", Model: "construction-stages"},
	}
	p, err := vision.NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "torchserve", p.Name())
}

func TestNewProvider_Roboflow(t *testing.T) {
	cfg := config.VisionConfig{
		Provider:         "roboflow",
		InferenceTimeout: 30 * time.Second,
		Roboflow:         config.RoboflowConfig{APIKey: "rf-test", Model: "construction-stages/1"},
	}
	p, err := vision.NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "roboflow", p.Name())
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := config.VisionConfig{Provider: "mock"}
	p, err := vision.NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
}

func TestNewProvider_Unknown(t *testing.T) {
	cfg := config.VisionConfig{Provider: "opencv"}
	_, err := vision.NewProvider(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown vision provider")
	assert.Contains(t, err.Error(), "opencv")
}

func TestNewProvider_Empty(t *testing.T) {
	cfg := config.VisionConfig{Provider: ""}
	_, err := vision.NewProvider(cfg)
	require.Error(t, err)
}
