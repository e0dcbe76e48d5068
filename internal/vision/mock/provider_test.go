package mock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesleeps/leanConstruction-sub002/internal/vision/mock"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

func sampleRequest() models.ExtractionRequest {
	return models.ExtractionRequest{
		ProjectID: uuid.New(),
		ImageURL:  "https://example.com/site.jpg",
	}
}

// --- NewProvider ---

func TestNewProvider_Name(t *testing.T) {
	p := mock.NewProvider()
	assert.Equal(t, "mock", p.Name())
}

func TestNewProvider_ExtractFeatures(t *testing.T) {
	p := mock.NewProvider()
	features, err := p.ExtractFeatures(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, features.StageScores)
	assert.Greater(t, features.StageScores[models.StageStructuralFrame], features.StageScores[models.StageFoundation])
	assert.Greater(t, features.Brightness, 0.0)
	assert.Greater(t, features.Sharpness, 0.0)
}

// --- NewFailingProvider ---

func TestNewFailingProvider_Name(t *testing.T) {
	p := mock.NewFailingProvider(models.ErrProviderUnavailable)
	assert.Equal(t, "mock-failing", p.Name())
}

func TestNewFailingProvider_Extract(t *testing.T) {
	p := mock.NewFailingProvider(models.ErrProviderUnavailable)
	_, err := p.ExtractFeatures(context.Background(), sampleRequest())

	assert.ErrorIs(t, err, models.ErrProviderUnavailable)
}

func TestNewFailingProvider_CustomError(t *testing.T) {
	customErr := errors.New("custom vision error")
	p := mock.NewFailingProvider(customErr)

	_, err := p.ExtractFeatures(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, customErr)
}

// --- NewTimeoutProvider ---

func TestNewTimeoutProvider_Extract(t *testing.T) {
	p := mock.NewTimeoutProvider()
	assert.Equal(t, "mock-timeout", p.Name())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.ExtractFeatures(ctx, sampleRequest())
	assert.ErrorIs(t, err, models.ErrInferenceTimeout)
}

// --- Sentinel errors ---

func TestSentinelErrors(t *testing.T) {
	assert.NotNil(t, models.ErrProviderUnavailable)
	assert.NotNil(t, models.ErrInferenceTimeout)
	assert.NotNil(t, models.ErrInvalidResponse)

	assert.NotEqual(t, models.ErrProviderUnavailable, models.ErrInferenceTimeout)
	assert.NotEqual(t, models.ErrInferenceTimeout, models.ErrInvalidResponse)
}

// --- Zero-value Provider ---

func TestProvider_NilFuncs(t *testing.T) {
	p := &mock.Provider{Name_: "bare"}

	features, err := p.ExtractFeatures(context.Background(), sampleRequest())
	assert.NoError(t, err)
	assert.Equal(t, models.ImageFeatures{}, features)
}

// --- Interface compliance ---

func TestProvider_ImplementsVisionProvider(t *testing.T) {
	var _ models.VisionProvider = mock.NewProvider()
	var _ models.VisionProvider = mock.NewFailingProvider(nil)
	var _ models.VisionProvider = mock.NewTimeoutProvider()
}
