package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the analytics server.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Vision    VisionConfig
	Analytics AnalyticsConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// VisionConfig selects and configures the image-feature-extraction
// backend.
type VisionConfig struct {
	Provider         string
	InferenceTimeout time.Duration
	TorchServe       TorchServeConfig
	Roboflow         RoboflowConfig
}

type TorchServeConfig struct {
	BaseURL string
	Model   string
}

type RoboflowConfig struct {
	APIKey string
	Model  string
}

// AnalyticsConfig carries the core engine threshold overrides. Loaded once
// at startup and never mutated; engines receive it by value.
type AnalyticsConfig struct {
	ConfidenceCap           float64
	WasteDetectionThreshold float64
	MinHistoryDays          int
}

var validProviders = map[string]bool{
	"torchserve": true,
	"roboflow":   true,
	"mock":       true,
}

// Load reads configuration from environment variables and returns a
// validated Config. Returns an error with a descriptive message if any
// required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("SITESIGHT_PORT", 8080),
			Env:  envString("SITESIGHT_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Vision: VisionConfig{
			Provider:         os.Getenv("VISION_PROVIDER"),
			InferenceTimeout: envDurationSecs("VISION_INFERENCE_TIMEOUT_SECS", 60*time.Second),
			TorchServe: TorchServeConfig{
				BaseURL: envString("TORCHSERVE_BASE_URL", "http://localhost:8081"),
				Model:   envString("TORCHSERVE_MODEL", "construction-stages"),
			},
			Roboflow: RoboflowConfig{
				APIKey: os.Getenv("ROBOFLOW_API_KEY"),
				Model:  envString("ROBOFLOW_MODEL", "construction-stages/1"),
			},
		},
		Analytics: AnalyticsConfig{
			ConfidenceCap:           envFloat("ANALYTICS_CONFIDENCE_CAP", 0.6),
			WasteDetectionThreshold: envFloat("ANALYTICS_WASTE_DETECTION_THRESHOLD", 0.3),
			MinHistoryDays:          envInt("ANALYTICS_MIN_HISTORY_DAYS", 30),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Vision.Provider == "" {
		return fmt.Errorf("VISION_PROVIDER is required")
	}
	if !validProviders[c.Vision.Provider] {
		return fmt.Errorf("VISION_PROVIDER must be one of torchserve, roboflow, mock; got %q", c.Vision.Provider)
	}

	if c.Vision.Provider == "torchserve" {
		base := c.Vision.TorchServe.BaseURL
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			return fmt.Errorf("TORCHSERVE_BASE_URL must start with http:// or https://, got %q", base)
		}
	}
	if c.Vision.Provider == "roboflow" && c.Vision.Roboflow.APIKey == "" {
		return fmt.Errorf("ROBOFLOW_API_KEY is required when VISION_PROVIDER is roboflow")
	}

	if c.Analytics.ConfidenceCap <= 0 || c.Analytics.ConfidenceCap > 1 {
		return fmt.Errorf("ANALYTICS_CONFIDENCE_CAP must be in (0, 1], got %v", c.Analytics.ConfidenceCap)
	}
	if c.Analytics.WasteDetectionThreshold <= 0 || c.Analytics.WasteDetectionThreshold > 1 {
		return fmt.Errorf("ANALYTICS_WASTE_DETECTION_THRESHOLD must be in (0, 1], got %v", c.Analytics.WasteDetectionThreshold)
	}
	if c.Analytics.MinHistoryDays <= 0 {
		return fmt.Errorf("ANALYTICS_MIN_HISTORY_DAYS must be positive, got %d", c.Analytics.MinHistoryDays)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
