package torchserve

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codesleeps/leanConstruction-sub002/internal/config"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

func testProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	return NewProvider(config.TorchServeConfig{
		BaseURL: baseURL,
		Model:   "construction-stages",
	}, 5*time.Second)
}

func testRequest() models.ExtractionRequest {
	return models.ExtractionRequest{ImageURL: "https://example.com/site.jpg"}
}

func TestExtractFeatures_ValidResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predictions/construction-stages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}

		var req predictionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ImageURL != "https://example.com/site.jpg" {
			t.Errorf("unexpected image URL: %s", req.ImageURL)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(predictionResponse{
			StageScores: map[string]float64{
				"foundation":       0.7,
				"structural_frame": 0.3,
			},
			Activities: []string{"installation"},
			Brightness: 0.65,
			Sharpness:  0.8,
		})
	}))
	defer ts.Close()

	features, err := testProvider(t, ts.URL).ExtractFeatures(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if features.StageScores[models.StageFoundation] != 0.7 {
		t.Errorf("unexpected foundation score: %v", features.StageScores[models.StageFoundation])
	}
	if len(features.Activities) != 1 || features.Activities[0] != "installation" {
		t.Errorf("unexpected activities: %v", features.Activities)
	}
	if features.Brightness != 0.65 || features.Sharpness != 0.8 {
		t.Errorf("quality signals not carried through: %v / %v", features.Brightness, features.Sharpness)
	}
}

func TestExtractFeatures_ServerErrorIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := testProvider(t, ts.URL).ExtractFeatures(context.Background(), testRequest())
	if !errors.Is(err, models.ErrProviderUnavailable) {
		t.Errorf("expected provider-unavailable error, got %v", err)
	}
}

func TestExtractFeatures_ClientErrorIsInvalidResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := testProvider(t, ts.URL).ExtractFeatures(context.Background(), testRequest())
	if !errors.Is(err, models.ErrInvalidResponse) {
		t.Errorf("expected invalid-response error, got %v", err)
	}
}

func TestExtractFeatures_MalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	_, err := testProvider(t, ts.URL).ExtractFeatures(context.Background(), testRequest())
	if !errors.Is(err, models.ErrInvalidResponse) {
		t.Errorf("expected invalid-response error, got %v", err)
	}
}

func TestExtractFeatures_EmptyScores(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(predictionResponse{})
	}))
	defer ts.Close()

	_, err := testProvider(t, ts.URL).ExtractFeatures(context.Background(), testRequest())
	if !errors.Is(err, models.ErrInvalidResponse) {
		t.Errorf("expected invalid-response error, got %v", err)
	}
}

func TestExtractFeatures_UnknownStageRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(predictionResponse{
			StageScores: map[string]float64{"demolition": 1.0},
		})
	}))
	defer ts.Close()

	_, err := testProvider(t, ts.URL).ExtractFeatures(context.Background(), testRequest())
	if !errors.Is(err, models.ErrInvalidResponse) {
		t.Errorf("expected invalid-response error, got %v", err)
	}
}

func TestExtractFeatures_TimeoutClassified(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	p := NewProvider(config.TorchServeConfig{
		BaseURL: ts.URL,
		Model:   "construction-stages",
	}, 10*time.Millisecond)

	_, err := p.ExtractFeatures(context.Background(), testRequest())
	if !errors.Is(err, models.ErrInferenceTimeout) {
		t.Errorf("expected inference-timeout error, got %v", err)
	}
}

func TestExtractFeatures_ConnectionRefusedIsUnavailable(t *testing.T) {
	_, err := testProvider(t, "http://127.0.0.1:1").ExtractFeatures(context.Background(), testRequest())
	if !errors.Is(err, models.ErrProviderUnavailable) {
		t.Errorf("expected provider-unavailable error, got %v", err)
	}
}
