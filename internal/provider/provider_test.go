package provider

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureKind_Transient(t *testing.T) {
	tests := []struct {
		kind FailureKind
		want bool
	}{
		{KindRateLimited, true},
		{KindTimeout, true},
		{KindNetwork, true},
		{KindQuotaExceeded, true},
		{KindAuthError, false},
		{KindValidationRejected, false},
		{KindContentFiltered, false},
		{KindNoResults, false},
		{KindNotAvailable, false},
		{KindDisabled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Transient())
		})
	}
}

func TestError_Message(t *testing.T) {
	err := NewError("devto", KindAuthError, "invalid api key", nil)
	assert.Equal(t, "devto: invalid api key (auth_error)", err.Error())

	cause := fmt.Errorf("status 401")
	err = NewError("devto", KindAuthError, "invalid api key", cause)
	assert.Contains(t, err.Error(), "status 401")
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := NewError("pexels", KindNetwork, "request failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestKindOf(t *testing.T) {
	classified := NewError("youtube", KindQuotaExceeded, "daily quota spent", nil)
	assert.Equal(t, KindQuotaExceeded, KindOf(classified))

	// Classified errors survive wrapping
	wrapped := fmt.Errorf("search failed: %w", classified)
	assert.Equal(t, KindQuotaExceeded, KindOf(wrapped))

	assert.Equal(t, KindTimeout, KindOf(context.DeadlineExceeded))
	assert.Equal(t, KindTimeout, KindOf(fmt.Errorf("call: %w", context.DeadlineExceeded)))

	// Unclassified errors stay retryable
	assert.Equal(t, KindNetwork, KindOf(fmt.Errorf("connection reset")))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(NewError("gemini", KindRateLimited, "429", nil)))
	assert.False(t, IsTransient(NewError("gemini", KindContentFiltered, "safety block", nil)))
	assert.True(t, IsTransient(fmt.Errorf("plain error")))
}
