package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/blog-automation/internal/provider"
)

func TestDevToFindByToken_Found(t *testing.T) {
	token := "deadbeef00112233"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/articles/me/all", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		assert.Equal(t, "application/vnd.forem.api-v1+json", r.Header.Get("Accept"))
		fmt.Fprintf(w, `[
			{"id": 1, "url": "https://dev.to/p/1", "body_markdown": "other post"},
			{"id": 2, "url": "https://dev.to/p/2", "body_markdown": "body\n%s\n"}
		]`, TokenComment(token))
	}))
	defer server.Close()

	client := NewDevToClientWithBase("test-key", server.URL, nil)
	ref, err := client.FindByToken(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "2", ref.ID)
	assert.Equal(t, "https://dev.to/p/2", ref.URL)
}

func TestDevToFindByToken_ScansBeyondFirstPage(t *testing.T) {
	token := "deadbeef00112233"
	fullPage := make([]devtoArticle, devtoPageSize)
	for i := range fullPage {
		fullPage[i] = devtoArticle{ID: i + 1, BodyMarkdown: "newer post"}
	}

	var pages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		if page == "1" {
			require.NoError(t, json.NewEncoder(w).Encode(fullPage))
			return
		}
		fmt.Fprintf(w, `[{"id": 777, "url": "https://dev.to/p/777", "body_markdown": "body\n%s\n"}]`, TokenComment(token))
	}))
	defer server.Close()

	client := NewDevToClientWithBase("test-key", server.URL, nil)
	ref, err := client.FindByToken(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "777", ref.ID)
	assert.Equal(t, []string{"1", "2"}, pages)
}

func TestDevToFindByToken_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"id": 1, "url": "https://dev.to/p/1", "body_markdown": "unrelated"}]`)
	}))
	defer server.Close()

	client := NewDevToClientWithBase("test-key", server.URL, nil)
	ref, err := client.FindByToken(context.Background(), "missing-token")
	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestDevToCreatePost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/articles", r.URL.Path)

		var payload struct {
			Article struct {
				Title        string   `json:"title"`
				BodyMarkdown string   `json:"body_markdown"`
				Published    bool     `json:"published"`
				Tags         []string `json:"tags"`
			} `json:"article"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Title", payload.Article.Title)
		assert.True(t, payload.Article.Published)
		assert.Equal(t, []string{"go"}, payload.Article.Tags)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 42, "url": "https://dev.to/p/42"}`)
	}))
	defer server.Close()

	client := NewDevToClientWithBase("test-key", server.URL, nil)
	ref, err := client.CreatePost(context.Background(), PostRequest{
		Title:        "Title",
		BodyMarkdown: "body",
		Tags:         []string{"go"},
		Publish:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "42", ref.ID)
	assert.Equal(t, "https://dev.to/p/42", ref.URL)
}

func TestDevToCreatePost_StatusClassification(t *testing.T) {
	tests := []struct {
		status int
		kind   provider.FailureKind
	}{
		{http.StatusUnauthorized, provider.KindAuthError},
		{http.StatusUnprocessableEntity, provider.KindValidationRejected},
		{http.StatusTooManyRequests, provider.KindRateLimited},
		{http.StatusServiceUnavailable, provider.KindNetwork},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))

		client := NewDevToClientWithBase("key", server.URL, nil)
		_, err := client.CreatePost(context.Background(), PostRequest{Title: "t"})
		require.Error(t, err, "status %d", tt.status)
		assert.Equal(t, tt.kind, provider.KindOf(err), "status %d", tt.status)
		server.Close()
	}
}

func TestNewDevToClient_RequiresKey(t *testing.T) {
	_, err := NewDevToClient("")
	assert.Error(t, err)
}
