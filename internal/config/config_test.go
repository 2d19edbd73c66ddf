package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"youtube_api_key": "yt-key",
		"platform": "devto",
		"max_videos": 5,
		"min_word_count": 1200,
		"max_word_count": 2000,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "yt-key", cfg.YouTubeAPIKey)
	assert.Equal(t, "devto", cfg.Platform)
	assert.Equal(t, 5, cfg.MaxVideos)
	assert.Equal(t, 1200, cfg.MinWordCount)
	assert.Equal(t, 2000, cfg.MaxWordCount)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_InvalidPlatform(t *testing.T) {
	cfg := &Config{Platform: "medium"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Platform")
}

func TestValidate_MaxVideosOutOfRange(t *testing.T) {
	cfg := &Config{MaxVideos: 25}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MaxVideos")
}

func TestValidate_WordCountWindow(t *testing.T) {
	cfg := &Config{MinWordCount: 2000, MaxWordCount: 1000}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_word_count")
}

func TestValidate_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		Platform:  "hashnode",
		MaxVideos: 5,
	}
	defaults := Config{
		Platform:      "devto",
		PublishStatus: "draft",
		MaxVideos:     3,
		MinWordCount:  1500,
		MaxWordCount:  2500,
		OutDir:        "local_blogs",
		GeminiAPIKey:  "default-key",
	}

	merged := cfg.MergeWithDefaults(defaults)

	// Explicit values win
	assert.Equal(t, "hashnode", merged.Platform)
	assert.Equal(t, 5, merged.MaxVideos)

	// Empty values are filled from defaults
	assert.Equal(t, "draft", merged.PublishStatus)
	assert.Equal(t, 1500, merged.MinWordCount)
	assert.Equal(t, 2500, merged.MaxWordCount)
	assert.Equal(t, "local_blogs", merged.OutDir)
	assert.Equal(t, "default-key", merged.GeminiAPIKey)
}

func TestMergeWithDefaults_AllEmpty(t *testing.T) {
	cfg := Config{}
	defaults := Config{Platform: "local", ImageCount: 4}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "local", merged.Platform)
	assert.Equal(t, 4, merged.ImageCount)
}
