package youtube

import (
	"github.com/jonathan/blog-automation/internal/provider"
)

const transcriptProvider = "youtube-transcript"

func errNotAvailable(videoID string) error {
	return provider.NewError(transcriptProvider, provider.KindNotAvailable, "no transcript for video "+videoID, nil)
}

func errDisabled(videoID string) error {
	return provider.NewError(transcriptProvider, provider.KindDisabled, "captions disabled for video "+videoID, nil)
}

func errRateLimited(videoID string) error {
	return provider.NewError(transcriptProvider, provider.KindRateLimited, "rate limited fetching transcript for "+videoID, nil)
}

func classifyTranscriptError(videoID string, cause error) error {
	return provider.NewError(transcriptProvider, provider.KindOf(cause), "transcript fetch failed for "+videoID, cause)
}
