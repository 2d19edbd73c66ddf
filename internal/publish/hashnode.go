package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/blog-automation/internal/provider"
	"github.com/jonathan/blog-automation/internal/types"
)

const hashnodeEndpoint = "https://gql.hashnode.com"

const hashnodeTimeout = 30 * time.Second

// HashnodeClient publishes through the Hashnode GraphQL API
type HashnodeClient struct {
	token         string
	publicationID string
	endpoint      string
	httpClient    *http.Client
}

// NewHashnodeClient creates a Hashnode client for one publication
func NewHashnodeClient(token, publicationID string) (*HashnodeClient, error) {
	if token == "" {
		return nil, fmt.Errorf("Hashnode token is required")
	}
	if publicationID == "" {
		return nil, fmt.Errorf("Hashnode publication ID is required")
	}
	return &HashnodeClient{
		token:         token,
		publicationID: publicationID,
		endpoint:      hashnodeEndpoint,
		httpClient:    &http.Client{Timeout: hashnodeTimeout},
	}, nil
}

// NewHashnodeClientWithBase creates a client against a custom endpoint, for tests
func NewHashnodeClientWithBase(token, publicationID, endpoint string, httpClient *http.Client) *HashnodeClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: hashnodeTimeout}
	}
	return &HashnodeClient{token: token, publicationID: publicationID, endpoint: endpoint, httpClient: httpClient}
}

// Platform identifies the target platform
func (c *HashnodeClient) Platform() types.Platform { return types.PlatformHashnode }

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code string `json:"code"`
		} `json:"extensions"`
	} `json:"errors"`
}

const findPostsQuery = `query Posts($publicationId: ObjectId!, $after: String) {
  publication(id: $publicationId) {
    posts(first: 50, after: $after) {
      edges { node { id url content { markdown } } }
      pageInfo { hasNextPage endCursor }
    }
  }
}`

const publishPostMutation = `mutation PublishPost($input: PublishPostInput!) {
  publishPost(input: $input) {
    post { id url }
  }
}`

const createDraftMutation = `mutation CreateDraft($input: CreateDraftInput!) {
  createDraft(input: $input) {
    draft { id }
  }
}`

// FindByToken scans the publication's posts for the idempotency marker
// comment, following the cursor until the token is found or the list ends
func (c *HashnodeClient) FindByToken(ctx context.Context, token string) (*PostRef, error) {
	marker := TokenComment(token)
	var cursor string
	for {
		vars := map[string]any{"publicationId": c.publicationID}
		if cursor != "" {
			vars["after"] = cursor
		}
		data, err := c.call(ctx, graphqlRequest{Query: findPostsQuery, Variables: vars})
		if err != nil {
			return nil, err
		}

		var payload struct {
			Publication struct {
				Posts struct {
					Edges []struct {
						Node struct {
							ID      string `json:"id"`
							URL     string `json:"url"`
							Content struct {
								Markdown string `json:"markdown"`
							} `json:"content"`
						} `json:"node"`
					} `json:"edges"`
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
				} `json:"posts"`
			} `json:"publication"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, provider.NewError("hashnode", provider.KindNetwork, "failed to decode post list", err)
		}

		for _, edge := range payload.Publication.Posts.Edges {
			if strings.Contains(edge.Node.Content.Markdown, marker) {
				return &PostRef{ID: edge.Node.ID, URL: edge.Node.URL}, nil
			}
		}

		info := payload.Publication.Posts.PageInfo
		if !info.HasNextPage || info.EndCursor == "" {
			return nil, nil
		}
		cursor = info.EndCursor
	}
}

// CreatePost publishes a post to the publication, or creates a draft when
// the request is not marked for publishing. Hashnode separates the two as
// distinct mutations.
func (c *HashnodeClient) CreatePost(ctx context.Context, post PostRequest) (*PostRef, error) {
	tags := make([]map[string]any, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, map[string]any{"slug": tag, "name": tag})
	}
	input := map[string]any{
		"publicationId":   c.publicationID,
		"title":           post.Title,
		"contentMarkdown": post.BodyMarkdown,
		"tags":            tags,
	}

	mutation := publishPostMutation
	if !post.Publish {
		mutation = createDraftMutation
	}

	data, err := c.call(ctx, graphqlRequest{
		Query:     mutation,
		Variables: map[string]any{"input": input},
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		PublishPost struct {
			Post struct {
				ID  string `json:"id"`
				URL string `json:"url"`
			} `json:"post"`
		} `json:"publishPost"`
		CreateDraft struct {
			Draft struct {
				ID string `json:"id"`
			} `json:"draft"`
		} `json:"createDraft"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, provider.NewError("hashnode", provider.KindNetwork, "failed to decode publish response", err)
	}

	if !post.Publish {
		if payload.CreateDraft.Draft.ID == "" {
			return nil, provider.NewError("hashnode", provider.KindValidationRejected, "draft creation returned no draft", nil)
		}
		return &PostRef{ID: payload.CreateDraft.Draft.ID}, nil
	}
	if payload.PublishPost.Post.ID == "" {
		return nil, provider.NewError("hashnode", provider.KindValidationRejected, "publish returned no post", nil)
	}
	return &PostRef{ID: payload.PublishPost.Post.ID, URL: payload.PublishPost.Post.URL}, nil
}

// call executes one GraphQL request and maps transport and GraphQL-level
// failures onto the taxonomy
func (c *HashnodeClient) call(ctx context.Context, gqlReq graphqlRequest) (json.RawMessage, error) {
	body, err := json.Marshal(gqlReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, provider.NewError("hashnode", provider.KindOf(err), "graphql request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, provider.NewError("hashnode", provider.KindAuthError, "authentication failed", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, provider.NewError("hashnode", provider.KindRateLimited, "rate limited", nil)
	case resp.StatusCode >= 500:
		return nil, provider.NewError("hashnode", provider.KindNetwork, fmt.Sprintf("server error %d", resp.StatusCode), nil)
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, provider.NewError("hashnode", provider.KindNetwork, "failed to decode graphql response", err)
	}
	if len(gqlResp.Errors) > 0 {
		first := gqlResp.Errors[0]
		kind := provider.KindValidationRejected
		switch first.Extensions.Code {
		case "UNAUTHENTICATED", "FORBIDDEN":
			kind = provider.KindAuthError
		case "RATE_LIMITED":
			kind = provider.KindRateLimited
		}
		return nil, provider.NewError("hashnode", kind, first.Message, nil)
	}
	return gqlResp.Data, nil
}
