package db

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/blog-automation/internal/types"
)

// These unit tests cover the artifact marshaling contracts; database
// operations are exercised by the integration tests.

func TestStepNamesMatchFileArtifacts(t *testing.T) {
	steps := []string{
		StepResearchReport,
		StepBlogDraft,
		StepImageCollection,
		StepPublicationRecord,
		StepRunReport,
	}

	seen := make(map[string]bool)
	for _, step := range steps {
		assert.NotEmpty(t, step)
		assert.False(t, seen[step], "duplicate step %s", step)
		seen[step] = true
	}
}

func TestBlogDraftArtifactRoundTrip(t *testing.T) {
	draft := &types.BlogDraft{
		Title:        "Understanding Go Generics",
		BodyMarkdown: "## Intro",
		Tags:         []string{"go"},
		WordCount:    1800,
	}
	data, err := json.Marshal(draft)
	require.NoError(t, err)

	var result types.BlogDraft
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, *draft, result)
}

func TestRunReportArtifactRoundTrip(t *testing.T) {
	report := &types.RunReport{
		RunID: "run-1",
		Topic: "go generics",
		Stages: []types.StageStatus{
			{Stage: types.StageResearch, State: types.StageSuccess, Detail: "3 videos"},
		},
		Publication: &types.PublicationRecord{
			Platform: types.PlatformDevTo,
			Status:   types.PublicationPublished,
		},
	}
	data, err := json.Marshal(report)
	require.NoError(t, err)

	var result types.RunReport
	require.NoError(t, json.Unmarshal(data, &result))
	require.Len(t, result.Stages, 1)
	assert.Equal(t, types.StageResearch, result.Stages[0].Stage)
	require.NotNil(t, result.Publication)
	assert.Equal(t, types.PlatformDevTo, result.Publication.Platform)
}
