package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jonathan/blog-automation/internal/provider"
	"github.com/jonathan/blog-automation/internal/types"
)

const unsplashBaseURL = "https://api.unsplash.com"

// UnsplashClient searches the Unsplash photo API
type UnsplashClient struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

// NewUnsplashClient creates an Unsplash client with its built-in timeout
func NewUnsplashClient(accessKey string) (*UnsplashClient, error) {
	if accessKey == "" {
		return nil, fmt.Errorf("Unsplash access key is required")
	}
	return &UnsplashClient{
		accessKey:  accessKey,
		baseURL:    unsplashBaseURL,
		httpClient: &http.Client{Timeout: searchTimeout},
	}, nil
}

// NewUnsplashClientWithBase creates a client against a custom endpoint, for tests
func NewUnsplashClientWithBase(accessKey, baseURL string, httpClient *http.Client) *UnsplashClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: searchTimeout}
	}
	return &UnsplashClient{accessKey: accessKey, baseURL: baseURL, httpClient: httpClient}
}

// Name identifies the provider
func (c *UnsplashClient) Name() string { return "unsplash" }

type unsplashResponse struct {
	Results []struct {
		ID     string `json:"id"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
		URLs   struct {
			Regular string `json:"regular"`
			Full    string `json:"full"`
		} `json:"urls"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}

// Search queries Unsplash for landscape photos matching the query
func (c *UnsplashClient) Search(ctx context.Context, query string, perPage int) ([]types.ImageAsset, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("orientation", "landscape")
	params.Set("content_filter", "high")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build unsplash request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, provider.NewError(c.Name(), provider.KindOf(err), "search request failed", err)
	}
	defer resp.Body.Close()

	if err := classifyImageStatus(c.Name(), resp.StatusCode); err != nil {
		return nil, err
	}

	var payload unsplashResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, provider.NewError(c.Name(), provider.KindNetwork, "failed to decode response", err)
	}

	assets := make([]types.ImageAsset, 0, len(payload.Results))
	for _, photo := range payload.Results {
		imageURL := photo.URLs.Regular
		if imageURL == "" {
			imageURL = photo.URLs.Full
		}
		if imageURL == "" {
			continue
		}
		assets = append(assets, types.ImageAsset{
			URL:             imageURL,
			Width:           photo.Width,
			Height:          photo.Height,
			Provider:        c.Name(),
			ProviderAssetID: photo.ID,
			Attribution:     fmt.Sprintf("Photo by %s on Unsplash", photo.User.Name),
			AttributionURL:  photo.Links.HTML,
		})
	}
	return assets, nil
}
