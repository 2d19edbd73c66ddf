// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/blog-automation/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResearchReport outputs a human-readable summary of the research stage output
func (p *Printer) PrintResearchReport(report *types.ResearchReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic:   %s\n", report.Topic))
	sb.WriteString(fmt.Sprintf("Summary: %s\n\n", report.Summary))

	count := min(len(report.Entries), maxItemsToShow)
	for i := 0; i < count; i++ {
		entry := report.Entries[i]
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", entry.Video.Title, entry.Video.Channel))
		sb.WriteString(fmt.Sprintf("  content: %s", entry.Transcript.Kind))
		if entry.Transcript.Reason != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", entry.Transcript.Reason))
		}
		sb.WriteString("\n")
	}
	if len(report.Entries) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(report.Entries)-maxItemsToShow))
	}

	p.printBox("Research Report", sb.String())
}

// PrintDraft outputs a human-readable summary of the synthesized draft
func (p *Printer) PrintDraft(draft *types.BlogDraft) {
	if draft == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title: %s\n", draft.Title))
	sb.WriteString(fmt.Sprintf("Meta:  %s\n", draft.MetaDescription))
	sb.WriteString(fmt.Sprintf("Words: %d (read ~%d min)\n", draft.WordCount, draft.EstimatedReadMinutes()))
	if len(draft.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags:  %s\n", strings.Join(draft.Tags, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Sources: %d\n", len(draft.SourceAttributions)))

	p.printBox("Blog Draft", sb.String())
}

// PrintImageCollection outputs a human-readable summary of curated images
func (p *Printer) PrintImageCollection(collection *types.ImageCollection) {
	if collection == nil {
		return
	}

	var sb strings.Builder
	if collection.Empty() {
		sb.WriteString("No images found\n")
	}
	count := min(len(collection.Assets), maxItemsToShow)
	for i := 0; i < count; i++ {
		asset := collection.Assets[i]
		sb.WriteString(fmt.Sprintf("• [%s] %dx%d %s\n", asset.Role, asset.Width, asset.Height, asset.Attribution))
	}
	if len(collection.Assets) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(collection.Assets)-maxItemsToShow))
	}

	p.printBox("Image Collection", sb.String())
}

// PrintRunReport outputs the final per-stage summary of a run
func (p *Printer) PrintRunReport(report *types.RunReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	for _, stage := range report.Stages {
		sb.WriteString(fmt.Sprintf("%-11s %-9s %s\n", stage.Stage, stage.State, stage.Detail))
	}
	if report.Publication != nil {
		sb.WriteString(fmt.Sprintf("\nPublication: %s on %s\n", report.Publication.Status, report.Publication.Platform))
		if report.Publication.URL != "" {
			sb.WriteString(fmt.Sprintf("URL: %s\n", report.Publication.URL))
		}
	}
	if report.Failed {
		sb.WriteString(fmt.Sprintf("\nRun failed: %s\n", report.FailReason))
	}

	p.printBox("Run Report", sb.String())
}
