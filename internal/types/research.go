package types

import (
	"fmt"
	"strings"
	"time"
)

// VideoCandidate represents a video discovered for a topic
type VideoCandidate struct {
	ID              string    `json:"video_id"`
	Title           string    `json:"title"`
	Channel         string    `json:"channel"`
	PublishedAt     time.Time `json:"published_at"`
	DurationSeconds int       `json:"duration_seconds"`
	Description     string    `json:"description"`
	ViewCount       uint64    `json:"view_count"`
	RelevanceScore  float64   `json:"relevance_score"`
}

// URL returns the canonical watch URL for the candidate
func (v VideoCandidate) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// TranscriptKind tags the content state of a TranscriptResult
type TranscriptKind string

// Transcript content states. A video never silently disappears from a
// ResearchReport; a missing transcript is recorded as one of these.
const (
	TranscriptFull            TranscriptKind = "full_transcript"
	TranscriptDescriptionOnly TranscriptKind = "description_only"
	TranscriptUnavailable     TranscriptKind = "unavailable"
)

// TranscriptResult is the typed outcome of a transcript fetch for one video
type TranscriptResult struct {
	Kind   TranscriptKind `json:"kind"`
	Text   string         `json:"text,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

// FullTranscript builds a TranscriptResult carrying the fetched transcript text
func FullTranscript(text string) TranscriptResult {
	return TranscriptResult{Kind: TranscriptFull, Text: text}
}

// DescriptionOnly builds a degraded TranscriptResult backed by the video description
func DescriptionOnly(description, reason string) TranscriptResult {
	return TranscriptResult{Kind: TranscriptDescriptionOnly, Text: description, Reason: reason}
}

// Unavailable builds a TranscriptResult with no usable content
func Unavailable(reason string) TranscriptResult {
	return TranscriptResult{Kind: TranscriptUnavailable, Reason: reason}
}

// Usable reports whether the result carries content a later stage can draw on
func (t TranscriptResult) Usable() bool {
	return t.Kind != TranscriptUnavailable && strings.TrimSpace(t.Text) != ""
}

// ResearchEntry pairs one candidate with its transcript outcome
type ResearchEntry struct {
	Video      VideoCandidate   `json:"video"`
	Transcript TranscriptResult `json:"transcript"`
}

// ResearchReport is the ordered output of the research stage,
// capped at the configured max videos
type ResearchReport struct {
	Topic     string          `json:"topic"`
	Entries   []ResearchEntry `json:"entries"`
	Summary   string          `json:"summary"`
	CreatedAt time.Time       `json:"created_at"`
}

// UsableEntries returns the entries with non-Unavailable content
func (r *ResearchReport) UsableEntries() []ResearchEntry {
	usable := make([]ResearchEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Transcript.Usable() {
			usable = append(usable, e)
		}
	}
	return usable
}

// Summarize derives the one-line summary recorded on the report
func (r *ResearchReport) Summarize() string {
	full, desc := 0, 0
	for _, e := range r.Entries {
		switch e.Transcript.Kind {
		case TranscriptFull:
			full++
		case TranscriptDescriptionOnly:
			desc++
		}
	}
	return fmt.Sprintf("%d videos (%d with transcripts, %d description-only)", len(r.Entries), full, desc)
}
