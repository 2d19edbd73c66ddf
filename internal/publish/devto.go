package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/blog-automation/internal/provider"
	"github.com/jonathan/blog-automation/internal/types"
)

const devtoBaseURL = "https://dev.to/api"

// devtoTimeout bounds one Dev.to API call
const devtoTimeout = 30 * time.Second

// devtoPageSize is the articles-per-page for idempotency lookups
const devtoPageSize = 100

// DevToClient publishes through the Dev.to (Forem) REST API
type DevToClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewDevToClient creates a Dev.to client
func NewDevToClient(apiKey string) (*DevToClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Dev.to API key is required")
	}
	return &DevToClient{
		apiKey:     apiKey,
		baseURL:    devtoBaseURL,
		httpClient: &http.Client{Timeout: devtoTimeout},
	}, nil
}

// NewDevToClientWithBase creates a client against a custom endpoint, for tests
func NewDevToClientWithBase(apiKey, baseURL string, httpClient *http.Client) *DevToClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: devtoTimeout}
	}
	return &DevToClient{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

// Platform identifies the target platform
func (c *DevToClient) Platform() types.Platform { return types.PlatformDevTo }

type devtoArticle struct {
	ID           int    `json:"id"`
	URL          string `json:"url"`
	BodyMarkdown string `json:"body_markdown"`
}

// FindByToken scans the authenticated user's articles for the idempotency
// marker comment. Dev.to has no native idempotency key, so the token
// embedded in the body is the duplicate guard. The scan pages through the
// full article list until the token is found or a short page ends it.
func (c *DevToClient) FindByToken(ctx context.Context, token string) (*PostRef, error) {
	marker := TokenComment(token)
	for page := 1; ; page++ {
		articles, err := c.listArticles(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, article := range articles {
			if strings.Contains(article.BodyMarkdown, marker) {
				return &PostRef{ID: strconv.Itoa(article.ID), URL: article.URL}, nil
			}
		}
		if len(articles) < devtoPageSize {
			return nil, nil
		}
	}
}

func (c *DevToClient) listArticles(ctx context.Context, page int) ([]devtoArticle, error) {
	url := fmt.Sprintf("%s/articles/me/all?per_page=%d&page=%d", c.baseURL, devtoPageSize, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, provider.NewError("devto", provider.KindOf(err), "article lookup failed", err)
	}
	defer resp.Body.Close()

	if err := c.classifyStatus(resp.StatusCode, http.StatusOK); err != nil {
		return nil, err
	}

	var articles []devtoArticle
	if err := json.NewDecoder(resp.Body).Decode(&articles); err != nil {
		return nil, provider.NewError("devto", provider.KindNetwork, "failed to decode article list", err)
	}
	return articles, nil
}

// CreatePost publishes or drafts an article
func (c *DevToClient) CreatePost(ctx context.Context, post PostRequest) (*PostRef, error) {
	payload := map[string]any{
		"article": map[string]any{
			"title":         post.Title,
			"body_markdown": post.BodyMarkdown,
			"published":     post.Publish,
			"tags":          post.Tags,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode article: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/articles", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build publish request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, provider.NewError("devto", provider.KindOf(err), "publish request failed", err)
	}
	defer resp.Body.Close()

	if err := c.classifyStatus(resp.StatusCode, http.StatusCreated); err != nil {
		return nil, err
	}

	var article devtoArticle
	if err := json.NewDecoder(resp.Body).Decode(&article); err != nil {
		return nil, provider.NewError("devto", provider.KindNetwork, "failed to decode publish response", err)
	}
	return &PostRef{ID: strconv.Itoa(article.ID), URL: article.URL}, nil
}

func (c *DevToClient) setHeaders(req *http.Request) {
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Accept", "application/vnd.forem.api-v1+json")
}

func (c *DevToClient) classifyStatus(status, want int) error {
	switch {
	case status == want:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return provider.NewError("devto", provider.KindAuthError, "authentication failed", nil)
	case status == http.StatusUnprocessableEntity:
		return provider.NewError("devto", provider.KindValidationRejected, "article rejected by validation", nil)
	case status == http.StatusTooManyRequests:
		return provider.NewError("devto", provider.KindRateLimited, "rate limited", nil)
	case status >= 500:
		return provider.NewError("devto", provider.KindNetwork, fmt.Sprintf("server error %d", status), nil)
	default:
		return provider.NewError("devto", provider.KindValidationRejected, fmt.Sprintf("unexpected status %d", status), nil)
	}
}
