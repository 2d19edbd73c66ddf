package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMarkdown_PlainMarkdownUntouched(t *testing.T) {
	body := "## Heading\n\nSome **bold** text with a [link](https://example.com)."
	assert.Equal(t, body, SanitizeMarkdown(body))
}

func TestSanitizeMarkdown_TrimsWhitespace(t *testing.T) {
	assert.Equal(t, "text", SanitizeMarkdown("  \ntext\n  "))
}

func TestSanitizeMarkdown_StripsWrapperDiv(t *testing.T) {
	body := "<div><p>First paragraph.</p><p>Second paragraph.</p></div>"
	got := SanitizeMarkdown(body)

	assert.NotContains(t, got, "<div>")
	assert.Contains(t, got, "First paragraph.")
	assert.Contains(t, got, "Second paragraph.")
}

func TestSanitizeMarkdown_StripsHTMLDocument(t *testing.T) {
	body := "<html><body><h2>Heading</h2><p>Body text.</p></body></html>"
	got := SanitizeMarkdown(body)

	assert.NotContains(t, got, "<")
	assert.Contains(t, got, "Heading")
	assert.Contains(t, got, "Body text.")
}

func TestSanitizeMarkdown_HTMLInCodeFenceIsKept(t *testing.T) {
	body := "Here is a template:\n\n```\n<div class=\"card\">content</div>\n```\n\nDone."
	assert.Equal(t, body, SanitizeMarkdown(body))
}

func TestSanitizeMarkdown_InlineTagsPassThrough(t *testing.T) {
	// Inline elements are not wrapper artifacts; leave them alone
	body := "Use the <code>context</code> package."
	assert.Equal(t, body, SanitizeMarkdown(body))
}
