// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration for playlist extraction and
// export operations.
type Config struct {
	// APIKey is the YouTube Data API key. Empty means no primary source is
	// available and every run uses the fallback path.
	APIKey string `json:"api_key"`

	// CaptureEndpoint is the URL of the external screenshot service used
	// during primary-mode runs. Optional.
	CaptureEndpoint string `json:"capture_endpoint"`
	// CaptureToken is the access key for the screenshot service.
	CaptureToken string `json:"capture_token"`

	// OutputDir is where artifact files are written (default: ".")
	OutputDir string `json:"output_dir"`
	// MaxVideos limits the number of playlist items processed (0 = all)
	MaxVideos int `json:"max_videos"`
	// CaptureImages toggles per-video image capture.
	CaptureImages bool `json:"capture_images"`

	// HTTPTimeout bounds each outbound HTTP request.
	HTTPTimeout time.Duration `json:"http_timeout"`

	// MaxRetries is the maximum number of retries for failed operations
	MaxRetries int `json:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1)
	BackoffMultiplier float64 `json:"backoff_multiplier"`

	// WatchPageRPS and ThumbnailRPS throttle requests per second against
	// the respective hosts.
	WatchPageRPS float64 `json:"watch_page_rps"`
	ThumbnailRPS float64 `json:"thumbnail_rps"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:         ".",
		MaxVideos:         0,
		CaptureImages:     true,
		HTTPTimeout:       30 * time.Second,
		MaxRetries:        3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        15 * time.Second,
		BackoffMultiplier: 2.0,
		WatchPageRPS:      2.0,
		ThumbnailRPS:      8.0,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > .env file > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// A local .env feeds the environment before the override pass. Missing
	// files are fine; existing environment variables win.
	_ = godotenv.Load()

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytexport.json in current directory or home directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytexport.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytexport", "ytexport.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTEXPORT_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("YTEXPORT_CAPTURE_ENDPOINT"); v != "" {
		c.CaptureEndpoint = v
	}
	if v := os.Getenv("YTEXPORT_CAPTURE_TOKEN"); v != "" {
		c.CaptureToken = v
	}
	if v := os.Getenv("YTEXPORT_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("YTEXPORT_MAX_VIDEOS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxVideos = n
		}
	}
	if v := os.Getenv("YTEXPORT_CAPTURE_IMAGES"); v != "" {
		c.CaptureImages = v == "true" || v == "1"
	}
	if v := os.Getenv("YTEXPORT_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("YTEXPORT_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTEXPORT_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTEXPORT_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.MaxVideos < 0 {
		return fmt.Errorf("max_videos must be non-negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff <= 0 {
		return fmt.Errorf("max_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	if c.WatchPageRPS <= 0 || c.ThumbnailRPS <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	if c.CaptureEndpoint != "" && c.CaptureToken == "" {
		return fmt.Errorf("capture_endpoint set without capture_token")
	}
	return nil
}
