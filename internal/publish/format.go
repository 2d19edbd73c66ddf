package publish

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jonathan/blog-automation/internal/types"
)

// tokenMarker wraps the idempotency token in an HTML comment at the end of
// the post body. Platforms render it invisibly; FindByToken scans for it.
const tokenMarker = "blog-automation-token"

// IdempotencyToken derives the deterministic publish token from the topic,
// target platform, and draft content. Re-running publish for the same
// finalized draft always yields the same token.
func IdempotencyToken(topic string, platform types.Platform, draft *types.BlogDraft) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s", topic, platform, draft.Title, draft.BodyMarkdown)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// TokenComment renders the marker comment embedded in published bodies
func TokenComment(token string) string {
	return fmt.Sprintf("<!-- %s: %s -->", tokenMarker, token)
}

// FormatBody renders the platform-ready markdown: featured image first,
// article body, supporting images with attribution, source list, and the
// idempotency marker comment.
func FormatBody(draft *types.BlogDraft, images *types.ImageCollection, token string) string {
	var sb strings.Builder

	if images != nil {
		if featured := images.Featured(); featured != nil {
			writeImage(&sb, *featured)
			sb.WriteString("\n")
		}
	}

	sb.WriteString(strings.TrimSpace(draft.BodyMarkdown))
	sb.WriteString("\n")

	if images != nil {
		supporting := images.Supporting()
		if len(supporting) > 0 {
			sb.WriteString("\n---\n\n")
			for _, asset := range supporting {
				writeImage(&sb, asset)
			}
		}
	}

	if len(draft.SourceAttributions) > 0 {
		sb.WriteString("\n## Sources\n\n")
		for _, src := range draft.SourceAttributions {
			fmt.Fprintf(&sb, "- [%s](%s) by %s\n", src.Title, src.URL, src.Channel)
		}
	}

	sb.WriteString("\n")
	sb.WriteString(TokenComment(token))
	sb.WriteString("\n")
	return sb.String()
}

func writeImage(sb *strings.Builder, asset types.ImageAsset) {
	fmt.Fprintf(sb, "![%s](%s)\n", asset.Attribution, asset.URL)
	if asset.AttributionURL != "" {
		fmt.Fprintf(sb, "*[%s](%s)*\n", asset.Attribution, asset.AttributionURL)
	} else {
		fmt.Fprintf(sb, "*%s*\n", asset.Attribution)
	}
	sb.WriteString("\n")
}
