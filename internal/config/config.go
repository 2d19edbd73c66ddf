// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags or environment variables.
type Config struct {
	// Credentials
	GeminiAPIKey  string `json:"gemini_api_key,omitempty"`  // Gemini API key
	YouTubeAPIKey string `json:"youtube_api_key,omitempty"` // YouTube Data API key
	PexelsAPIKey  string `json:"pexels_api_key,omitempty"`  // Pexels API key
	UnsplashKey   string `json:"unsplash_access_key,omitempty"`
	DevToAPIKey   string `json:"devto_api_key,omitempty"`  // Dev.to API key
	HashnodeToken string `json:"hashnode_token,omitempty"` // Hashnode personal token
	HashnodePubID string `json:"hashnode_publication_id,omitempty"`

	// Run limits
	MaxVideos     int `json:"max_videos,omitempty" validate:"omitempty,min=1,max=10"`
	MinWordCount  int `json:"min_word_count,omitempty" validate:"omitempty,min=1"`
	MaxWordCount  int `json:"max_word_count,omitempty" validate:"omitempty,min=1"`
	ImageCount    int `json:"image_count,omitempty" validate:"omitempty,min=1,max=10"`
	FreshnessDays int `json:"freshness_days,omitempty" validate:"omitempty,min=1"`

	// Behavior
	Platform      string `json:"platform,omitempty" validate:"omitempty,oneof=devto hashnode local"`
	PublishStatus string `json:"publish_status,omitempty" validate:"omitempty,oneof=draft public"`
	OutDir        string `json:"out_dir,omitempty"`      // Directory for saved run artifacts
	DatabaseURL   string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Verbose       bool   `json:"verbose,omitempty"`      // Print detailed stage output
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are not checked here since those are handled by
// CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("config error: field %q failed %q validation", first.Field(), first.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.MinWordCount > 0 && c.MaxWordCount > 0 && c.MaxWordCount < c.MinWordCount {
		return fmt.Errorf("config error: 'max_word_count' must not be lower than 'min_word_count'")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.YouTubeAPIKey == "" {
		result.YouTubeAPIKey = defaults.YouTubeAPIKey
	}
	if result.PexelsAPIKey == "" {
		result.PexelsAPIKey = defaults.PexelsAPIKey
	}
	if result.UnsplashKey == "" {
		result.UnsplashKey = defaults.UnsplashKey
	}
	if result.DevToAPIKey == "" {
		result.DevToAPIKey = defaults.DevToAPIKey
	}
	if result.HashnodeToken == "" {
		result.HashnodeToken = defaults.HashnodeToken
	}
	if result.HashnodePubID == "" {
		result.HashnodePubID = defaults.HashnodePubID
	}
	if result.Platform == "" {
		result.Platform = defaults.Platform
	}
	if result.PublishStatus == "" {
		result.PublishStatus = defaults.PublishStatus
	}
	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.MaxVideos == 0 {
		result.MaxVideos = defaults.MaxVideos
	}
	if result.MinWordCount == 0 {
		result.MinWordCount = defaults.MinWordCount
	}
	if result.MaxWordCount == 0 {
		result.MaxWordCount = defaults.MaxWordCount
	}
	if result.ImageCount == 0 {
		result.ImageCount = defaults.ImageCount
	}
	if result.FreshnessDays == 0 {
		result.FreshnessDays = defaults.FreshnessDays
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
