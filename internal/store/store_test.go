package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/blog-automation/internal/types"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		want  string
	}{
		{"simple", "Go Generics", "go-generics"},
		{"punctuation stripped", "What's new in Go 1.24?", "whats-new-in-go-124"},
		{"underscores and dashes", "ai_agents - deep dive", "ai-agents---deep-dive"},
		{"leading and trailing separators", "  --topic--  ", "topic"},
		{"empty falls back", "!!!", "topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.topic))
		})
	}
}

func TestSlugify_TruncatesLongTopics(t *testing.T) {
	long := "a very long topic title that keeps going and going and going and going"
	slug := Slugify(long)
	assert.LessOrEqual(t, len(slug), 60)
}

func TestNewRunStore_DirectoryLayout(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	s, err := NewRunStore(base, "Go Generics", now)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "20260314_150926_go-generics"), s.Dir())
	assert.DirExists(t, s.Dir())
}

func TestOpenRunStore_Missing(t *testing.T) {
	_, err := OpenRunStore(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSaveAndLoadDraft(t *testing.T) {
	s, err := NewRunStore(t.TempDir(), "topic", time.Now())
	require.NoError(t, err)

	draft := &types.BlogDraft{
		Title:        "Title",
		BodyMarkdown: "## Body",
		Tags:         []string{"go"},
		WordCount:    2,
	}
	require.NoError(t, s.SaveJSON(FileBlogDraft, draft))

	loaded, err := s.LoadDraft()
	require.NoError(t, err)
	assert.Equal(t, draft, loaded)
}

func TestLoadDraft_Missing(t *testing.T) {
	s, err := NewRunStore(t.TempDir(), "topic", time.Now())
	require.NoError(t, err)

	_, err = s.LoadDraft()
	assert.Error(t, err)
}

func TestSaveMetadataRoundTrip(t *testing.T) {
	s, err := NewRunStore(t.TempDir(), "topic", time.Now())
	require.NoError(t, err)

	topic := types.Topic{Query: "go generics", Config: types.DefaultRunConfig()}
	draft := &types.BlogDraft{Title: "Understanding Generics", WordCount: 1800}
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	require.NoError(t, s.SaveMetadata(topic, draft, now))

	meta, err := s.LoadMetadata()
	require.NoError(t, err)
	assert.Equal(t, "go generics", meta.Topic)
	assert.Equal(t, "Understanding Generics", meta.Title)
	assert.Equal(t, 1800, meta.WordCount)
	assert.Equal(t, 9, meta.ReadTimeMinutes)
	assert.Equal(t, types.PlatformDevTo, meta.TargetPlatform)
	assert.True(t, meta.CreatedAt.Equal(now))
}

func TestSaveText(t *testing.T) {
	s, err := NewRunStore(t.TempDir(), "topic", time.Now())
	require.NoError(t, err)

	require.NoError(t, s.SaveText(FileBlogPost, "## Hello"))
	assert.FileExists(t, filepath.Join(s.Dir(), FileBlogPost))
}
