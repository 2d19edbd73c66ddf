package synthesis

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SanitizeMarkdown strips structural HTML artifacts the model sometimes
// leaks into the article body (wrapper divs, html/body tags). Markdown-only
// bodies pass through untouched; bodies with block-level HTML are reduced
// to their text content.
func SanitizeMarkdown(body string) string {
	body = strings.TrimSpace(body)
	if !looksLikeHTML(body) {
		return body
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}

	// Reassemble top-level blocks separated by blank lines so headings and
	// paragraphs survive as distinct markdown paragraphs
	var blocks []string
	doc.Find("body").Children().Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		text := strings.TrimSpace(doc.Text())
		if text == "" {
			return body
		}
		return text
	}
	return strings.Join(blocks, "\n\n")
}

// looksLikeHTML detects block-level wrapper tags; inline code samples in
// fenced blocks do not count
func looksLikeHTML(body string) bool {
	lower := strings.ToLower(body)
	for _, tag := range []string{"<html", "<body", "<div", "<article", "<section"} {
		if idx := strings.Index(lower, tag); idx >= 0 && !insideCodeFence(lower, idx) {
			return true
		}
	}
	return false
}

// insideCodeFence reports whether the byte offset falls inside a ``` block
func insideCodeFence(s string, offset int) bool {
	return strings.Count(s[:offset], "```")%2 == 1
}
