package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// transcriptTimeout bounds a single transcript fetch independently of the
// stage timeout
const transcriptTimeout = 15 * time.Second

// timedTextBaseURL is YouTube's caption endpoint. It returns XML caption
// tracks for videos whose owners have not disabled them.
const timedTextBaseURL = "https://video.google.com/timedtext"

// TranscriptFetcher retrieves a transcript for one video
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// TranscriptClient implements TranscriptFetcher against the timedtext endpoint
type TranscriptClient struct {
	httpClient *http.Client
	baseURL    string
	languages  []string
}

// NewTranscriptClient creates a transcript client with its built-in timeout
func NewTranscriptClient() *TranscriptClient {
	return &TranscriptClient{
		httpClient: &http.Client{Timeout: transcriptTimeout},
		baseURL:    timedTextBaseURL,
		languages:  []string{"en", "en-US", "en-GB"},
	}
}

// NewTranscriptClientWithBase creates a client against a custom endpoint.
// Used by tests to point at a local server.
func NewTranscriptClientWithBase(baseURL string, httpClient *http.Client) *TranscriptClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: transcriptTimeout}
	}
	return &TranscriptClient{httpClient: httpClient, baseURL: baseURL, languages: []string{"en"}}
}

// timedTextDoc is the caption track XML shape
type timedTextDoc struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Content string `xml:",chardata"`
	} `xml:"text"`
}

// Fetch retrieves the transcript text for a video, trying each configured
// language in order. An empty caption track means the video has no
// transcript (owner disabled or never generated); that is reported as a
// classified NotAvailable failure, not a transport error.
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string) (string, error) {
	var lastErr error
	for _, lang := range c.languages {
		text, err := c.fetchLanguage(ctx, videoID, lang)
		if err == nil && text != "" {
			return text, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", errNotAvailable(videoID)
}

func (c *TranscriptClient) fetchLanguage(ctx context.Context, videoID, lang string) (string, error) {
	endpoint := fmt.Sprintf("%s?lang=%s&v=%s", c.baseURL, url.QueryEscape(lang), url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build transcript request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTranscriptError(videoID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", errRateLimited(videoID)
	case resp.StatusCode == http.StatusNotFound:
		return "", errNotAvailable(videoID)
	case resp.StatusCode != http.StatusOK:
		return "", errNotAvailable(videoID)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", classifyTranscriptError(videoID, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		// The endpoint answers 200 with an empty body when captions are disabled
		return "", errDisabled(videoID)
	}

	var doc timedTextDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", errNotAvailable(videoID)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		line := strings.TrimSpace(html.UnescapeString(t.Content))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " "), nil
}
