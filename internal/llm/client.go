package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jonathan/blog-automation/internal/provider"
)

// Client is an abstraction over text-generation providers. Generation is a
// pure function call (prompt in, text out); it carries no authority over
// pipeline control flow.
type Client interface {
	// GenerateContent generates free-form text using the specified model tier
	GenerateContent(ctx context.Context, req GenerateRequest) (string, error)
	// GenerateJSON generates a JSON document using the specified model tier
	GenerateJSON(ctx context.Context, req GenerateRequest) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// GenerateRequest is one generation call
type GenerateRequest struct {
	Prompt        string
	Tier          ModelTier
	MaxTokensHint int32
}

// NewClient creates a new LLM client based on configuration.
// Gemini is the only wired provider today; the Config keeps room for more.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return NewGeminiClient(ctx, config, apiKey)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config}, nil
}

// GenerateContent generates free-form text using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, req GenerateRequest) (string, error) {
	return c.generate(ctx, req, "")
}

// GenerateJSON generates a JSON document using the specified model tier
func (c *GeminiClient) GenerateJSON(ctx context.Context, req GenerateRequest) (string, error) {
	text, err := c.generate(ctx, req, "application/json")
	if err != nil {
		return "", err
	}
	// Models occasionally wrap JSON in markdown fences even in JSON mode
	return CleanJSONBlock(text), nil
}

func (c *GeminiClient) generate(ctx context.Context, req GenerateRequest, mimeType string) (string, error) {
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.3)
	if req.MaxTokensHint > 0 {
		model.SetMaxOutputTokens(req.MaxTokensHint)
	}
	if mimeType != "" {
		model.ResponseMIMEType = mimeType
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", classifyGenerationError(err)
	}

	return extractTextFromResponse(resp)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// classifyGenerationError maps Gemini transport errors onto the shared
// failure taxonomy before they cross the stage boundary
func classifyGenerationError(err error) error {
	const name = "gemini"
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return provider.NewError(name, provider.KindAuthError, "authentication failed", err)
		case 429:
			return provider.NewError(name, provider.KindRateLimited, "rate limited", err)
		}
	}
	return provider.NewError(name, provider.KindNetwork, "generation call failed", err)
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", provider.NewError("gemini", provider.KindContentFiltered, "no candidates in response", nil)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", provider.NewError("gemini", provider.KindContentFiltered, "response blocked by safety filter", nil)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", provider.NewError("gemini", provider.KindContentFiltered, "no content in response", nil)
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", provider.NewError("gemini", provider.KindContentFiltered, "no text parts in response", nil)
	}

	return strings.Join(parts, ""), nil
}
