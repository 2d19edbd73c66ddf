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

const pexelsBaseURL = "https://api.pexels.com/v1"

// PexelsClient searches the Pexels photo API
type PexelsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewPexelsClient creates a Pexels client with its built-in timeout
func NewPexelsClient(apiKey string) (*PexelsClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Pexels API key is required")
	}
	return &PexelsClient{
		apiKey:     apiKey,
		baseURL:    pexelsBaseURL,
		httpClient: &http.Client{Timeout: searchTimeout},
	}, nil
}

// NewPexelsClientWithBase creates a client against a custom endpoint, for tests
func NewPexelsClientWithBase(apiKey, baseURL string, httpClient *http.Client) *PexelsClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: searchTimeout}
	}
	return &PexelsClient{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

// Name identifies the provider
func (c *PexelsClient) Name() string { return "pexels" }

type pexelsResponse struct {
	Photos []struct {
		ID              int    `json:"id"`
		Width           int    `json:"width"`
		Height          int    `json:"height"`
		URL             string `json:"url"`
		Photographer    string `json:"photographer"`
		PhotographerURL string `json:"photographer_url"`
		Alt             string `json:"alt"`
		Src             struct {
			Large     string `json:"large"`
			Landscape string `json:"landscape"`
		} `json:"src"`
	} `json:"photos"`
}

// Search queries Pexels for landscape photos matching the query
func (c *PexelsClient) Search(ctx context.Context, query string, perPage int) ([]types.ImageAsset, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build pexels request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, provider.NewError(c.Name(), provider.KindOf(err), "search request failed", err)
	}
	defer resp.Body.Close()

	if err := classifyImageStatus(c.Name(), resp.StatusCode); err != nil {
		return nil, err
	}

	var payload pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, provider.NewError(c.Name(), provider.KindNetwork, "failed to decode response", err)
	}

	assets := make([]types.ImageAsset, 0, len(payload.Photos))
	for _, photo := range payload.Photos {
		imageURL := photo.Src.Landscape
		if imageURL == "" {
			imageURL = photo.Src.Large
		}
		if imageURL == "" {
			continue
		}
		assets = append(assets, types.ImageAsset{
			URL:             imageURL,
			Width:           photo.Width,
			Height:          photo.Height,
			Provider:        c.Name(),
			ProviderAssetID: strconv.Itoa(photo.ID),
			Attribution:     fmt.Sprintf("Photo by %s from Pexels", photo.Photographer),
			AttributionURL:  photo.URL,
		})
	}
	return assets, nil
}

// classifyImageStatus maps HTTP status codes shared by the image providers
// onto the failure taxonomy
func classifyImageStatus(name string, status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return provider.NewError(name, provider.KindAuthError, "authentication failed", nil)
	case status == http.StatusTooManyRequests:
		return provider.NewError(name, provider.KindRateLimited, "rate limited", nil)
	case status >= 500:
		return provider.NewError(name, provider.KindNetwork, fmt.Sprintf("server error %d", status), nil)
	default:
		return provider.NewError(name, provider.KindValidationRejected, fmt.Sprintf("unexpected status %d", status), nil)
	}
}
