// Package research implements the research stage: video discovery plus
// transcript fetching with graceful degradation to description text.
package research

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jonathan/blog-automation/internal/provider"
	"github.com/jonathan/blog-automation/internal/retry"
	"github.com/jonathan/blog-automation/internal/types"
	"github.com/jonathan/blog-automation/internal/youtube"
)

// transcriptConcurrency caps concurrent transcript fetches to respect the
// provider's rate ceiling
const transcriptConcurrency = 2

// ErrInsufficientMaterial is returned when no candidate yields usable content
var ErrInsufficientMaterial = errors.New("insufficient research material")

// Stage is the research stage
type Stage struct {
	discovery   youtube.Discovery
	transcripts youtube.TranscriptFetcher
	policy      retry.Policy
}

// NewStage creates a research stage over the discovery and transcript clients
func NewStage(discovery youtube.Discovery, transcripts youtube.TranscriptFetcher, policy retry.Policy) *Stage {
	return &Stage{discovery: discovery, transcripts: transcripts, policy: policy}
}

// Discover finds candidate videos for the topic and fetches their
// transcripts concurrently. Every discovered candidate appears in the
// report: a failed transcript degrades to DescriptionOnly when the video
// has a description, and Unavailable only when it does not. At least one
// entry must carry usable content or the stage fails with
// ErrInsufficientMaterial.
func (s *Stage) Discover(ctx context.Context, topic types.Topic) (*types.ResearchReport, error) {
	cfg := topic.Config

	var candidates []types.VideoCandidate
	err := s.policy.Do(ctx, func(ctx context.Context) error {
		var searchErr error
		candidates, searchErr = s.discovery.Search(ctx, topic.Query, cfg.MaxVideos, cfg.RecencyWindowDays)
		return searchErr
	})
	if err != nil {
		if provider.KindOf(err) == provider.KindNoResults {
			return nil, ErrInsufficientMaterial
		}
		return nil, err
	}

	entries := s.fetchTranscripts(ctx, candidates)

	report := &types.ResearchReport{
		Topic:     topic.Query,
		Entries:   entries,
		CreatedAt: time.Now().UTC(),
	}
	report.Summary = report.Summarize()

	if len(report.UsableEntries()) == 0 {
		return nil, ErrInsufficientMaterial
	}
	return report, nil
}

// fetchTranscripts runs the per-video fan-out. Each goroutine owns one
// output slot, so results merge without locks; a single video's failure
// never cancels its siblings.
func (s *Stage) fetchTranscripts(ctx context.Context, candidates []types.VideoCandidate) []types.ResearchEntry {
	entries := make([]types.ResearchEntry, len(candidates))
	sem := semaphore.NewWeighted(transcriptConcurrency)

	for i, candidate := range candidates {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Run cancelled: record the remaining candidates without content
			for j := i; j < len(candidates); j++ {
				entries[j] = types.ResearchEntry{
					Video:      candidates[j],
					Transcript: degrade(candidates[j], "run cancelled"),
				}
			}
			break
		}
		go func(i int, candidate types.VideoCandidate) {
			defer sem.Release(1)
			entries[i] = types.ResearchEntry{
				Video:      candidate,
				Transcript: s.fetchOne(ctx, candidate),
			}
		}(i, candidate)
	}

	// Wait for the in-flight fetches
	_ = sem.Acquire(context.Background(), transcriptConcurrency)
	sem.Release(transcriptConcurrency)
	return entries
}

// fetchOne fetches a single transcript with its own timeout and retry
// budget, then degrades on failure
func (s *Stage) fetchOne(ctx context.Context, candidate types.VideoCandidate) types.TranscriptResult {
	var text string
	err := s.policy.Do(ctx, func(ctx context.Context) error {
		var fetchErr error
		text, fetchErr = s.transcripts.Fetch(ctx, candidate.ID)
		return fetchErr
	})
	if err == nil && strings.TrimSpace(text) != "" {
		return types.FullTranscript(text)
	}

	reason := "empty transcript"
	if err != nil {
		reason = string(provider.KindOf(err))
	}
	return degrade(candidate, reason)
}

// degrade falls back to the candidate's description, or Unavailable when
// the description is empty
func degrade(candidate types.VideoCandidate, reason string) types.TranscriptResult {
	if strings.TrimSpace(candidate.Description) != "" {
		return types.DescriptionOnly(candidate.Description, reason)
	}
	return types.Unavailable(reason)
}
