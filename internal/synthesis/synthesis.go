// Package synthesis implements the synthesis stage: it turns a research
// report into a validated blog draft through a single generation call,
// with a bounded number of regeneration retries when the draft falls
// outside the word-count window.
package synthesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/blog-automation/internal/llm"
	"github.com/jonathan/blog-automation/internal/prompts"
	"github.com/jonathan/blog-automation/internal/retry"
	"github.com/jonathan/blog-automation/internal/schemas"
	"github.com/jonathan/blog-automation/internal/types"
)

// maxRegenerations bounds length-correction attempts after the first call
const maxRegenerations = 1

// ErrOutOfBounds is returned when every regeneration attempt still falls
// outside the configured word-count window
var ErrOutOfBounds = errors.New("draft word count out of bounds")

// Stage is the synthesis stage
type Stage struct {
	client llm.Client
	policy retry.Policy
}

// NewStage creates a synthesis stage over a text-generation client
func NewStage(client llm.Client, policy retry.Policy) *Stage {
	return &Stage{client: client, policy: policy}
}

// draftPayload is the JSON structure the model must return
type draftPayload struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	BodyMarkdown    string   `json:"body_markdown"`
	Tags            []string `json:"tags"`
}

// Synthesize builds one prompt from all research entries, invokes the
// generation provider, and validates the result. The draft word count is
// recomputed locally; a draft outside [min,max] triggers regeneration with
// an adjusted length instruction before the stage declares OutOfBounds.
func (s *Stage) Synthesize(ctx context.Context, topic types.Topic, report *types.ResearchReport) (*types.BlogDraft, error) {
	cfg := topic.Config
	basePrompt := buildPrompt(topic, report)

	prompt := basePrompt
	var lastDraft *types.BlogDraft
	for attempt := 0; attempt <= maxRegenerations; attempt++ {
		draft, err := s.generateOnce(ctx, prompt, cfg)
		if err != nil {
			return nil, err
		}
		draft.SourceAttributions = attributions(report)

		if !draft.OutOfBounds {
			return draft, nil
		}

		lastDraft = draft
		prompt = basePrompt + "\n\n" + lengthAdjustment(draft.WordCount, cfg)
	}

	if lastDraft != nil {
		return lastDraft, fmt.Errorf("%w: %d words after %d attempts (window %d-%d)",
			ErrOutOfBounds, lastDraft.WordCount, maxRegenerations+1, cfg.MinWordCount, cfg.MaxWordCount)
	}
	return nil, ErrOutOfBounds
}

// generateOnce performs one generation call and maps the payload into a draft
func (s *Stage) generateOnce(ctx context.Context, prompt string, cfg types.RunConfig) (*types.BlogDraft, error) {
	var raw string
	err := s.policy.Do(ctx, func(ctx context.Context) error {
		var callErr error
		raw, callErr = s.client.GenerateJSON(ctx, llm.GenerateRequest{
			Prompt:        prompt,
			Tier:          llm.TierAdvanced,
			MaxTokensHint: int32(cfg.MaxWordCount * 3), // rough words-to-tokens margin
		})
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}

	if err := schemas.ValidateDraftJSON(raw); err != nil {
		return nil, fmt.Errorf("model returned malformed draft: %w", err)
	}

	var payload draftPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode draft payload: %w", err)
	}

	title := strings.TrimSpace(payload.Title)
	meta := strings.TrimSpace(payload.MetaDescription)
	if title == "" || meta == "" {
		return nil, fmt.Errorf("model returned empty title or meta description")
	}

	draft := &types.BlogDraft{
		Title:           title,
		MetaDescription: meta,
		BodyMarkdown:    SanitizeMarkdown(payload.BodyMarkdown),
		Tags:            normalizeTags(payload.Tags),
	}
	draft.RecomputeWordCount(cfg.MinWordCount, cfg.MaxWordCount)
	return draft, nil
}

// buildPrompt assembles the research context: full transcript preferred,
// description fallback, Unavailable entries skipped
func buildPrompt(topic types.Topic, report *types.ResearchReport) string {
	entryTemplate := prompts.MustGet("synthesis.json", "research_entry")

	var research strings.Builder
	index := 0
	for _, entry := range report.Entries {
		if !entry.Transcript.Usable() {
			continue
		}
		index++
		research.WriteString(prompts.Format(entryTemplate, map[string]string{
			"Index":   fmt.Sprintf("%d", index),
			"Title":   entry.Video.Title,
			"Channel": entry.Video.Channel,
			"Kind":    string(entry.Transcript.Kind),
			"Content": entry.Transcript.Text,
		}))
		research.WriteString("\n")
	}

	return prompts.Format(prompts.MustGet("synthesis.json", "article"), map[string]string{
		"Topic":    topic.Query,
		"Research": research.String(),
		"MinWords": fmt.Sprintf("%d", topic.Config.MinWordCount),
		"MaxWords": fmt.Sprintf("%d", topic.Config.MaxWordCount),
	})
}

// lengthAdjustment produces the corrective instruction for a regeneration
func lengthAdjustment(actualWords int, cfg types.RunConfig) string {
	direction := "longer"
	if actualWords > cfg.MaxWordCount {
		direction = "shorter"
	}
	return prompts.Format(prompts.MustGet("synthesis.json", "length_adjustment"), map[string]string{
		"ActualWords": fmt.Sprintf("%d", actualWords),
		"MinWords":    fmt.Sprintf("%d", cfg.MinWordCount),
		"MaxWords":    fmt.Sprintf("%d", cfg.MaxWordCount),
		"Direction":   direction,
	})
}

// attributions credits every research source, including degraded ones
func attributions(report *types.ResearchReport) []types.SourceAttribution {
	out := make([]types.SourceAttribution, 0, len(report.Entries))
	for _, entry := range report.Entries {
		out = append(out, types.SourceAttribution{
			Title:   entry.Video.Title,
			Channel: entry.Video.Channel,
			URL:     entry.Video.URL(),
		})
	}
	return out
}

// normalizeTags lowercases, deduplicates, and caps tags at four, matching
// the strictest target platform limit
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, 4)
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		tag = strings.ReplaceAll(tag, " ", "")
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == 4 {
			break
		}
	}
	return out
}
