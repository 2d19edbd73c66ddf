package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopic(t *testing.T) {
	topic, err := NewTopic("go generics", DefaultRunConfig())
	require.NoError(t, err)
	assert.Equal(t, "go generics", topic.Query)
	assert.Equal(t, PlatformDevTo, topic.Config.TargetPlatform)
}

func TestNewTopic_EmptyQuery(t *testing.T) {
	_, err := NewTopic("", DefaultRunConfig())
	assert.Error(t, err)
}

func TestNewTopic_InvalidConfig(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.MaxVideos = 50

	_, err := NewTopic("go generics", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxVideos")
}

func TestRunConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RunConfig)
		wantErr bool
	}{
		{"defaults are valid", func(*RunConfig) {}, false},
		{"zero max videos", func(c *RunConfig) { c.MaxVideos = 0 }, true},
		{"max below min words", func(c *RunConfig) { c.MaxWordCount = c.MinWordCount - 1 }, true},
		{"unknown platform", func(c *RunConfig) { c.TargetPlatform = "medium" }, true},
		{"unknown publish status", func(c *RunConfig) { c.PublishStatus = "scheduled" }, true},
		{"zero images allowed", func(c *RunConfig) { c.ImageCount = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRunConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVideoCandidate_URL(t *testing.T) {
	v := VideoCandidate{ID: "dQw4w9WgXcQ"}
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", v.URL())
}

func TestTranscriptResult_Usable(t *testing.T) {
	assert.True(t, FullTranscript("some text").Usable())
	assert.True(t, DescriptionOnly("a description", "not_available").Usable())
	assert.False(t, DescriptionOnly("", "not_available").Usable())
	assert.False(t, DescriptionOnly("   ", "not_available").Usable())
	assert.False(t, Unavailable("disabled").Usable())
}

func TestResearchReport_UsableEntries(t *testing.T) {
	report := ResearchReport{
		Entries: []ResearchEntry{
			{Transcript: FullTranscript("text")},
			{Transcript: Unavailable("disabled")},
			{Transcript: DescriptionOnly("desc", "not_available")},
		},
	}

	usable := report.UsableEntries()
	require.Len(t, usable, 2)
}

func TestResearchReport_Summarize(t *testing.T) {
	report := ResearchReport{
		Entries: []ResearchEntry{
			{Transcript: FullTranscript("text")},
			{Transcript: FullTranscript("more text")},
			{Transcript: DescriptionOnly("desc", "disabled")},
			{Transcript: Unavailable("disabled")},
		},
	}

	assert.Equal(t, "4 videos (2 with transcripts, 1 description-only)", report.Summarize())
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n\t "))
	assert.Equal(t, 3, CountWords("one two three"))
	assert.Equal(t, 5, CountWords("## Header\n\nSome body text"))
}

func TestBlogDraft_RecomputeWordCount(t *testing.T) {
	d := &BlogDraft{BodyMarkdown: "one two three four five"}

	d.RecomputeWordCount(1, 10)
	assert.Equal(t, 5, d.WordCount)
	assert.False(t, d.OutOfBounds)

	d.RecomputeWordCount(10, 20)
	assert.True(t, d.OutOfBounds)

	d.RecomputeWordCount(1, 4)
	assert.True(t, d.OutOfBounds)
}

func TestBlogDraft_EstimatedReadMinutes(t *testing.T) {
	assert.Equal(t, 1, (&BlogDraft{WordCount: 50}).EstimatedReadMinutes())
	assert.Equal(t, 9, (&BlogDraft{WordCount: 1800}).EstimatedReadMinutes())
}

func TestImageCollection_FeaturedAndSupporting(t *testing.T) {
	c := ImageCollection{
		Assets: []ImageAsset{
			{URL: "a", Role: RoleFeatured},
			{URL: "b", Role: RoleSupporting},
			{URL: "c", Role: RoleSupporting},
		},
	}

	featured := c.Featured()
	require.NotNil(t, featured)
	assert.Equal(t, "a", featured.URL)
	assert.Len(t, c.Supporting(), 2)

	empty := ImageCollection{}
	assert.True(t, empty.Empty())
	assert.Nil(t, empty.Featured())
}

func TestImageCollection_SortFeaturedFirst(t *testing.T) {
	c := ImageCollection{
		Assets: []ImageAsset{
			{URL: "low", Role: RoleSupporting, Score: 1},
			{URL: "lead", Role: RoleFeatured, Score: 2},
			{URL: "high", Role: RoleSupporting, Score: 5},
		},
	}

	c.SortFeaturedFirst()

	assert.Equal(t, "lead", c.Assets[0].URL)
	assert.Equal(t, "high", c.Assets[1].URL)
	assert.Equal(t, "low", c.Assets[2].URL)
}

func TestRunReport_AppendAndLookup(t *testing.T) {
	r := &RunReport{RunID: "run-1", StartedAt: time.Now().UTC()}

	r.Append(StageResearch, StageSuccess, "3 videos", 2*time.Second)
	r.Append(StageSynthesis, StageFailed, "OutOfBounds: 900 words", time.Second)

	require.Len(t, r.Stages, 2)
	status := r.StageStatusFor(StageSynthesis)
	require.NotNil(t, status)
	assert.Equal(t, StageFailed, status.State)
	assert.Nil(t, r.StageStatusFor(StagePublishing))
}
