// Package youtube provides the video discovery and transcript provider
// clients used by the research stage.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/jonathan/blog-automation/internal/provider"
	"github.com/jonathan/blog-automation/internal/types"
)

// minDurationSeconds filters out videos too short to carry substantial content
const minDurationSeconds = 300

// Discovery searches for candidate videos on a topic
type Discovery interface {
	Search(ctx context.Context, topic string, maxResults, recencyWindowDays int) ([]types.VideoCandidate, error)
}

// DiscoveryClient implements Discovery against the YouTube Data API v3
type DiscoveryClient struct {
	svc *yt.Service
}

// NewDiscoveryClient creates a discovery client with an API key
func NewDiscoveryClient(ctx context.Context, apiKey string) (*DiscoveryClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &DiscoveryClient{svc: svc}, nil
}

// Search returns candidates published inside the recency window, enriched
// with duration and view counts, ranked by relevance score then recency.
// Videos shorter than five minutes are skipped.
func (c *DiscoveryClient) Search(ctx context.Context, topic string, maxResults, recencyWindowDays int) ([]types.VideoCandidate, error) {
	publishedAfter := time.Now().AddDate(0, 0, -recencyWindowDays).Format(time.RFC3339)

	searchResp, err := c.svc.Search.List([]string{"snippet"}).
		Q(topic).
		Type("video").
		Order("relevance").
		MaxResults(int64(maxResults * 3)). // over-fetch, short videos are filtered
		PublishedAfter(publishedAfter).
		VideoDuration("medium").
		SafeSearch("moderate").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError("youtube-search", err)
	}

	ids := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return nil, provider.NewError("youtube-search", provider.KindNoResults, "no videos found for topic", nil)
	}

	videosResp, err := c.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError("youtube-videos", err)
	}

	candidates := make([]types.VideoCandidate, 0, len(videosResp.Items))
	for _, item := range videosResp.Items {
		if item.Snippet == nil || item.ContentDetails == nil {
			continue
		}
		duration := parseISODuration(item.ContentDetails.Duration)
		if duration < minDurationSeconds {
			continue
		}

		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		var views uint64
		if item.Statistics != nil {
			views = item.Statistics.ViewCount
		}

		candidate := types.VideoCandidate{
			ID:              item.Id,
			Title:           item.Snippet.Title,
			Channel:         item.Snippet.ChannelTitle,
			PublishedAt:     publishedAt,
			DurationSeconds: duration,
			Description:     truncate(item.Snippet.Description, 500),
			ViewCount:       views,
		}
		candidate.RelevanceScore = scoreRelevance(candidate, topic)
		candidates = append(candidates, candidate)
	}

	if len(candidates) == 0 {
		return nil, provider.NewError("youtube-videos", provider.KindNoResults, "no videos of sufficient length", nil)
	}

	SortCandidates(candidates)
	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates, nil
}

// SortCandidates orders candidates by relevance score, breaking ties by
// recency then view count. Fan-out completion order never affects this.
func SortCandidates(candidates []types.VideoCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidateLess(candidates[i], candidates[j])
	})
}

func candidateLess(a, b types.VideoCandidate) bool {
	if a.RelevanceScore != b.RelevanceScore {
		return a.RelevanceScore > b.RelevanceScore
	}
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.After(b.PublishedAt)
	}
	return a.ViewCount > b.ViewCount
}

// scoreRelevance mirrors the original ranking heuristic: topic-term matches
// in title and description, with a recency bonus.
func scoreRelevance(v types.VideoCandidate, topic string) float64 {
	score := 0.0
	title := strings.ToLower(v.Title)
	description := strings.ToLower(v.Description)
	for _, term := range strings.Fields(strings.ToLower(topic)) {
		if strings.Contains(title, term) {
			score += 3
		}
		if strings.Contains(description, term) {
			score += 1
		}
	}
	ageDays := time.Since(v.PublishedAt).Hours() / 24
	switch {
	case ageDays <= 7:
		score += 2
	case ageDays <= 14:
		score += 1
	}
	return score
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts the API's PT#H#M#S format to seconds
func parseISODuration(s string) int {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(zeroIfEmpty(m[1]))
	minutes, _ := strconv.Atoi(zeroIfEmpty(m[2]))
	seconds, _ := strconv.Atoi(zeroIfEmpty(m[3]))
	return hours*3600 + minutes*60 + seconds
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// truncate caps s at max runes, never splitting a multi-byte character
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

// classifyAPIError maps Google API errors onto the shared failure taxonomy
func classifyAPIError(name string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401:
			return provider.NewError(name, provider.KindAuthError, "authentication failed", err)
		case 403:
			// The Data API reports quota exhaustion as 403 with a quota reason
			for _, item := range apiErr.Errors {
				if strings.Contains(item.Reason, "quota") {
					return provider.NewError(name, provider.KindQuotaExceeded, "quota exceeded", err)
				}
			}
			return provider.NewError(name, provider.KindAuthError, "access forbidden", err)
		case 429:
			return provider.NewError(name, provider.KindRateLimited, "rate limited", err)
		}
	}
	return provider.NewError(name, provider.KindNetwork, "api call failed", err)
}
