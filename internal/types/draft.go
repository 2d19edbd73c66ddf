package types

import "strings"

// SourceAttribution credits one research source used by the draft
type SourceAttribution struct {
	Title   string `json:"title"`
	Channel string `json:"channel"`
	URL     string `json:"url"`
}

// BlogDraft is the synthesized article produced by the synthesis stage.
// WordCount is recomputed locally from BodyMarkdown, never trusted from the model.
type BlogDraft struct {
	Title              string              `json:"title"`
	MetaDescription    string              `json:"meta_description"`
	BodyMarkdown       string              `json:"body_markdown"`
	Tags               []string            `json:"tags,omitempty"`
	WordCount          int                 `json:"word_count"`
	OutOfBounds        bool                `json:"out_of_bounds,omitempty"`
	SourceAttributions []SourceAttribution `json:"source_attributions"`
}

// CountWords counts whitespace-separated words in markdown text
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// RecomputeWordCount refreshes WordCount from the current body and
// re-evaluates the bounds flag against the configured window
func (d *BlogDraft) RecomputeWordCount(minWords, maxWords int) {
	d.WordCount = CountWords(d.BodyMarkdown)
	d.OutOfBounds = d.WordCount < minWords || d.WordCount > maxWords
}

// EstimatedReadMinutes returns the read-time estimate recorded in run metadata
func (d *BlogDraft) EstimatedReadMinutes() int {
	minutes := d.WordCount / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
