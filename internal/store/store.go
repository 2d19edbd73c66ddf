// Package store persists per-run pipeline artifacts to the local
// filesystem. Each artifact is a self-describing JSON document saved as
// soon as its stage commits, so a failed later stage can be retried from
// disk without re-running earlier stages.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/blog-automation/internal/types"
)

// Artifact file names inside a run directory
const (
	FileResearchReport    = "research_report.json"
	FileBlogDraft         = "blog_draft.json"
	FileBlogPost          = "blog_post.md"
	FileImageCollection   = "image_collection.json"
	FilePublicationRecord = "publication_record.json"
	FileRunReport         = "run_report.json"
	FileMetadata          = "metadata.json"
)

// RunStore writes and reads the artifacts of one pipeline run
type RunStore struct {
	dir string
}

// NewRunStore creates the run directory under baseDir using the
// timestamp_slug layout of the original automation scripts
func NewRunStore(baseDir, topic string, now time.Time) (*RunStore, error) {
	dir := filepath.Join(baseDir, fmt.Sprintf("%s_%s", now.Format("20060102_150405"), Slugify(topic)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	return &RunStore{dir: dir}, nil
}

// OpenRunStore opens an existing run directory for artifact reloads
func OpenRunStore(dir string) (*RunStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("run directory not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("run path %s is not a directory", dir)
	}
	return &RunStore{dir: dir}, nil
}

// Dir returns the run directory path
func (s *RunStore) Dir() string { return s.dir }

// SaveJSON writes one artifact as indented JSON
func (s *RunStore) SaveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// SaveText writes one artifact as plain text
func (s *RunStore) SaveText(name, content string) error {
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// LoadJSON reads one artifact into v
func (s *RunStore) LoadJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// LoadDraft reloads the blog draft artifact
func (s *RunStore) LoadDraft() (*types.BlogDraft, error) {
	var draft types.BlogDraft
	if err := s.LoadJSON(FileBlogDraft, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// LoadImages reloads the image collection artifact
func (s *RunStore) LoadImages() (*types.ImageCollection, error) {
	var collection types.ImageCollection
	if err := s.LoadJSON(FileImageCollection, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// LoadMetadata reloads the run metadata artifact
func (s *RunStore) LoadMetadata() (*Metadata, error) {
	var meta Metadata
	if err := s.LoadJSON(FileMetadata, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Metadata summarizes the run for humans browsing the output directory
type Metadata struct {
	Topic           string          `json:"topic"`
	Title           string          `json:"title"`
	CreatedAt       time.Time       `json:"created_at"`
	WordCount       int             `json:"word_count"`
	ReadTimeMinutes int             `json:"estimated_read_time"`
	TargetPlatform  types.Platform  `json:"target_platform"`
	Config          types.RunConfig `json:"config"`
}

// SaveMetadata writes the run metadata artifact
func (s *RunStore) SaveMetadata(topic types.Topic, draft *types.BlogDraft, now time.Time) error {
	return s.SaveJSON(FileMetadata, Metadata{
		Topic:           topic.Query,
		Title:           draft.Title,
		CreatedAt:       now,
		WordCount:       draft.WordCount,
		ReadTimeMinutes: draft.EstimatedReadMinutes(),
		TargetPlatform:  topic.Config.TargetPlatform,
		Config:          topic.Config,
	})
}

// Slugify reduces a topic to a filesystem-safe lowercase slug
func Slugify(topic string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(topic)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteRune('-')
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		slug = "topic"
	}
	if len(slug) > 60 {
		slug = slug[:60]
	}
	return slug
}
