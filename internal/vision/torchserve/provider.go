// Package torchserve implements models.VisionProvider against a
// TorchServe inference endpoint hosting the stage-detection model.
package torchserve

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/codesleeps/leanConstruction-sub002/internal/config"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// Provider implements models.VisionProvider using TorchServe's prediction
// API.
type Provider struct {
	cfg    config.TorchServeConfig
	client *http.Client
}

// NewProvider creates a TorchServe-backed provider.
func NewProvider(cfg config.TorchServeConfig, timeout time.Duration) *Provider {
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *Provider) Name() string { return "torchserve" }

type predictionRequest struct {
	ImageURL string `json:"image_url"`
}

type predictionResponse struct {
	StageScores map[string]float64 `json:"stage_scores"`
	Activities  []string           `json:"activities"`
	Brightness  float64            `json:"brightness"`
	Sharpness   float64            `json:"sharpness"`
}

// ExtractFeatures posts the image reference to the model endpoint and
// decodes the feature bundle.
func (p *Provider) ExtractFeatures(ctx context.Context, req models.ExtractionRequest) (models.ImageFeatures, error) {
	body, err := json.Marshal(predictionRequest{ImageURL: req.ImageURL})
	if err != nil {
		return models.ImageFeatures{}, fmt.Errorf("encode request: %w", err)
	}

	u := fmt.Sprintf("%s/predictions/%s", p.cfg.BaseURL, p.cfg.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return models.ImageFeatures{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return models.ImageFeatures{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= 500 {
			return models.ImageFeatures{}, fmt.Errorf("%w: status %d", models.ErrProviderUnavailable, resp.StatusCode)
		}
		return models.ImageFeatures{}, fmt.Errorf("%w: status %d", models.ErrInvalidResponse, resp.StatusCode)
	}

	var pred predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return models.ImageFeatures{}, fmt.Errorf("%w: %v", models.ErrInvalidResponse, err)
	}
	if len(pred.StageScores) == 0 {
		return models.ImageFeatures{}, fmt.Errorf("%w: empty stage scores", models.ErrInvalidResponse)
	}

	return toFeatures(pred)
}

func toFeatures(pred predictionResponse) (models.ImageFeatures, error) {
	scores := make(map[models.Stage]float64, len(pred.StageScores))
	for k, v := range pred.StageScores {
		stage, err := models.ParseStage(k)
		if err != nil {
			return models.ImageFeatures{}, fmt.Errorf("%w: %v", models.ErrInvalidResponse, err)
		}
		scores[stage] = v
	}
	return models.ImageFeatures{
		StageScores: scores,
		Activities:  pred.Activities,
		Brightness:  pred.Brightness,
		Sharpness:   pred.Sharpness,
	}, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
	}
	return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
}

var _ models.VisionProvider = (*Provider)(nil)
