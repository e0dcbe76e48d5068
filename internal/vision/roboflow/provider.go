// Package roboflow implements models.VisionProvider against the Roboflow
// hosted inference API.
package roboflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/codesleeps/leanConstruction-sub002/internal/config"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

const baseURL = "https://detect.roboflow.com"

// Provider implements models.VisionProvider using Roboflow hosted
// inference.
type Provider struct {
	cfg    config.RoboflowConfig
	client *http.Client
}

// NewProvider creates a Roboflow-backed provider.
func NewProvider(cfg config.RoboflowConfig, timeout time.Duration) *Provider {
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *Provider) Name() string { return "roboflow" }

type inferenceResponse struct {
	Predictions []struct {
		Class      string  `json:"class"`
		Confidence float64 `json:"confidence"`
	} `json:"predictions"`
	Image struct {
		Brightness float64 `json:"brightness"`
		Sharpness  float64 `json:"sharpness"`
	} `json:"image"`
	Tags []string `json:"tags"`
}

// ExtractFeatures runs hosted inference over the image URL. Detection
// classes that parse as stage labels feed the stage scores; every other
// class becomes an activity tag.
func (p *Provider) ExtractFeatures(ctx context.Context, req models.ExtractionRequest) (models.ImageFeatures, error) {
	params := url.Values{
		"api_key": {p.cfg.APIKey},
		"image":   {req.ImageURL},
	}
	u := fmt.Sprintf("%s/%s?%s", baseURL, p.cfg.Model, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return models.ImageFeatures{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return models.ImageFeatures{}, fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
		}
		return models.ImageFeatures{}, fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= 500 {
			return models.ImageFeatures{}, fmt.Errorf("%w: status %d", models.ErrProviderUnavailable, resp.StatusCode)
		}
		return models.ImageFeatures{}, fmt.Errorf("%w: status %d", models.ErrInvalidResponse, resp.StatusCode)
	}

	var inf inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&inf); err != nil {
		return models.ImageFeatures{}, fmt.Errorf("%w: %v", models.ErrInvalidResponse, err)
	}
	if len(inf.Predictions) == 0 {
		return models.ImageFeatures{}, fmt.Errorf("%w: no predictions", models.ErrInvalidResponse)
	}

	scores := make(map[models.Stage]float64)
	activities := append([]string(nil), inf.Tags...)
	for _, pred := range inf.Predictions {
		stage, err := models.ParseStage(pred.Class)
		if err != nil {
			activities = append(activities, pred.Class)
			continue
		}
		// A class can appear once per detection; keep the strongest.
		if pred.Confidence > scores[stage] {
			scores[stage] = pred.Confidence
		}
	}
	if len(scores) == 0 {
		return models.ImageFeatures{}, fmt.Errorf("%w: no stage classes in predictions", models.ErrInvalidResponse)
	}

	return models.ImageFeatures{
		StageScores: scores,
		Activities:  activities,
		Brightness:  inf.Image.Brightness,
		Sharpness:   inf.Image.Sharpness,
	}, nil
}

var _ models.VisionProvider = (*Provider)(nil)
