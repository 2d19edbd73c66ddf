package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/blog-automation/internal/provider"
)

const transcriptXML = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
	<text start="0.0" dur="2.5">Welcome to the talk</text>
	<text start="2.5" dur="3.0">about Go generics &amp; type parameters</text>
	<text start="5.5" dur="1.0">  </text>
</transcript>`

func TestTranscriptFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.URL.Query().Get("v"))
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		_, _ = w.Write([]byte(transcriptXML))
	}))
	defer server.Close()

	client := NewTranscriptClientWithBase(server.URL, nil)
	text, err := client.Fetch(context.Background(), "abc123")
	require.NoError(t, err)

	// Lines joined with spaces, entities unescaped, blank lines dropped
	assert.Equal(t, "Welcome to the talk about Go generics & type parameters", text)
}

func TestTranscriptFetch_EmptyBodyMeansDisabled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK) // captions disabled: 200 with empty body
	}))
	defer server.Close()

	client := NewTranscriptClientWithBase(server.URL, nil)
	_, err := client.Fetch(context.Background(), "abc123")
	require.Error(t, err)
	assert.Equal(t, provider.KindDisabled, provider.KindOf(err))
}

func TestTranscriptFetch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewTranscriptClientWithBase(server.URL, nil)
	_, err := client.Fetch(context.Background(), "abc123")
	require.Error(t, err)
	assert.Equal(t, provider.KindNotAvailable, provider.KindOf(err))
	assert.False(t, provider.IsTransient(err))
}

func TestTranscriptFetch_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewTranscriptClientWithBase(server.URL, nil)
	_, err := client.Fetch(context.Background(), "abc123")
	require.Error(t, err)
	assert.Equal(t, provider.KindRateLimited, provider.KindOf(err))
	assert.True(t, provider.IsTransient(err))
}

func TestTranscriptFetch_MalformedXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<not-a-transcript"))
	}))
	defer server.Close()

	client := NewTranscriptClientWithBase(server.URL, nil)
	_, err := client.Fetch(context.Background(), "abc123")
	require.Error(t, err)
	assert.Equal(t, provider.KindNotAvailable, provider.KindOf(err))
}
