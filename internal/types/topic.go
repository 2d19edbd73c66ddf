// Package types provides type definitions for structured data used throughout the blog-automation system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Platform identifies a publishing target
type Platform string

// Supported publishing platforms
const (
	PlatformDevTo    Platform = "devto"
	PlatformHashnode Platform = "hashnode"
	PlatformLocal    Platform = "local"
)

// PublishStatus controls whether a post goes live immediately or lands as a draft
type PublishStatus string

// Publish status values
const (
	StatusDraft  PublishStatus = "draft"
	StatusPublic PublishStatus = "public"
)

// RunConfig holds the run-scoped configuration for a single pipeline execution.
// It is created once at run start and treated as read-only afterward.
type RunConfig struct {
	MaxVideos         int           `json:"max_videos" validate:"min=1,max=10"`
	MinWordCount      int           `json:"min_word_count" validate:"min=1"`
	MaxWordCount      int           `json:"max_word_count" validate:"min=1,gtefield=MinWordCount"`
	ImageCount        int           `json:"image_count" validate:"min=0,max=10"`
	RecencyWindowDays int           `json:"recency_window_days" validate:"min=1"`
	TargetPlatform    Platform      `json:"target_platform" validate:"oneof=devto hashnode local"`
	PublishStatus     PublishStatus `json:"publish_status" validate:"oneof=draft public"`
}

// DefaultRunConfig returns the configuration used when no overrides are provided.
// Values mirror the defaults of the original automation scripts.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		MaxVideos:         3,
		MinWordCount:      1500,
		MaxWordCount:      2500,
		ImageCount:        4,
		RecencyWindowDays: 30,
		TargetPlatform:    PlatformDevTo,
		PublishStatus:     StatusDraft,
	}
}

// Topic pairs the immutable topic string with its run-scoped configuration
type Topic struct {
	Query  string    `json:"query"`
	Config RunConfig `json:"config"`
}

// NewTopic creates a Topic, rejecting an empty query or an out-of-bounds config
func NewTopic(query string, cfg RunConfig) (Topic, error) {
	if query == "" {
		return Topic{}, fmt.Errorf("topic query must not be empty")
	}
	if err := cfg.Validate(); err != nil {
		return Topic{}, err
	}
	return Topic{Query: query, Config: cfg}, nil
}

// Validate checks the run configuration against its declared bounds
func (c RunConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("run config: field %q failed %q validation", first.Field(), first.Tag())
		}
		return err
	}
	return nil
}
