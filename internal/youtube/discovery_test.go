package youtube

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/blog-automation/internal/types"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PT5M", 300},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"P1DT1H", 0}, // day components never appear on videos; reject
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseISODuration(tt.in), "input %q", tt.in)
	}
}

func TestScoreRelevance(t *testing.T) {
	recent := time.Now().Add(-24 * time.Hour)
	old := time.Now().AddDate(0, 0, -20)

	titleMatch := types.VideoCandidate{Title: "Go Generics Deep Dive", PublishedAt: old}
	descMatch := types.VideoCandidate{Title: "Weekly Update", Description: "we discuss go generics", PublishedAt: old}
	noMatch := types.VideoCandidate{Title: "Cooking Pasta", PublishedAt: old}

	topic := "go generics"
	assert.Greater(t, scoreRelevance(titleMatch, topic), scoreRelevance(descMatch, topic))
	assert.Greater(t, scoreRelevance(descMatch, topic), scoreRelevance(noMatch, topic))

	// Recency adds a bonus on top of term matches
	recentMatch := titleMatch
	recentMatch.PublishedAt = recent
	assert.Greater(t, scoreRelevance(recentMatch, topic), scoreRelevance(titleMatch, topic))
}

func TestSortCandidates(t *testing.T) {
	now := time.Now()
	candidates := []types.VideoCandidate{
		{ID: "low", RelevanceScore: 1, PublishedAt: now},
		{ID: "high", RelevanceScore: 5, PublishedAt: now.AddDate(0, 0, -10)},
		{ID: "tie-newer", RelevanceScore: 3, PublishedAt: now},
		{ID: "tie-older", RelevanceScore: 3, PublishedAt: now.AddDate(0, 0, -5)},
	}

	SortCandidates(candidates)

	assert.Equal(t, "high", candidates[0].ID)
	assert.Equal(t, "tie-newer", candidates[1].ID)
	assert.Equal(t, "tie-older", candidates[2].ID)
	assert.Equal(t, "low", candidates[3].ID)
}

func TestSortCandidates_ViewCountTieBreak(t *testing.T) {
	published := time.Now().AddDate(0, 0, -3)
	candidates := []types.VideoCandidate{
		{ID: "fewer", RelevanceScore: 2, PublishedAt: published, ViewCount: 100},
		{ID: "more", RelevanceScore: 2, PublishedAt: published, ViewCount: 9000},
	}

	SortCandidates(candidates)

	assert.Equal(t, "more", candidates[0].ID)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))
}

func TestTruncate_MultiByteRunes(t *testing.T) {
	// Cutting must land on a rune boundary, not a byte offset
	got := truncate("héllo wörld", 7)
	assert.Equal(t, "héllo w...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "日本語", truncate("日本語", 3))
	assert.Equal(t, "日本...", truncate("日本語です", 2))
}
