// Package publish implements the publishing stage: platform formatting,
// idempotent publish calls, and the platform provider clients.
package publish

import (
	"context"
	"time"

	"github.com/jonathan/blog-automation/internal/provider"
	"github.com/jonathan/blog-automation/internal/retry"
	"github.com/jonathan/blog-automation/internal/types"
)

// Client is the capability interface for one publishing platform
type Client interface {
	// Platform identifies the target platform
	Platform() types.Platform
	// FindByToken looks for an already-published post carrying the
	// idempotency token. Returns nil when no such post exists.
	FindByToken(ctx context.Context, token string) (*PostRef, error)
	// CreatePost publishes or drafts a new post and returns its reference
	CreatePost(ctx context.Context, req PostRequest) (*PostRef, error)
}

// PostRequest is one publish call
type PostRequest struct {
	Title        string
	BodyMarkdown string
	Tags         []string
	Publish      bool
}

// PostRef identifies a post on the remote platform
type PostRef struct {
	ID  string
	URL string
}

// Stage is the publishing stage
type Stage struct {
	client Client
	policy retry.Policy
}

// NewStage creates a publishing stage over one platform client
func NewStage(client Client, policy retry.Policy) *Stage {
	return &Stage{client: client, policy: policy}
}

// Publish formats the draft for the target platform and issues exactly one
// publish call, guarded by a deterministic idempotency token: if a post
// carrying the token already exists, its identifier is returned and no new
// post is created. Permanent failures (auth, validation) are surfaced in
// the record without retry; transient failures go through the retry policy.
func (s *Stage) Publish(ctx context.Context, topic types.Topic, draft *types.BlogDraft, images *types.ImageCollection) *types.PublicationRecord {
	platform := topic.Config.TargetPlatform
	token := IdempotencyToken(topic.Query, platform, draft)
	body := FormatBody(draft, images, token)

	record := &types.PublicationRecord{
		Platform:         platform,
		IdempotencyToken: token,
		TimestampUTC:     time.Now().UTC(),
	}

	// Pre-flight: a re-run for the same finalized draft must not duplicate
	var existing *PostRef
	err := s.policy.Do(ctx, func(ctx context.Context) error {
		var lookupErr error
		existing, lookupErr = s.client.FindByToken(ctx, token)
		return lookupErr
	})
	if err != nil {
		return failed(record, err)
	}
	if existing != nil {
		record.ExternalPostID = existing.ID
		record.URL = existing.URL
		record.Status = statusFor(topic.Config.PublishStatus)
		return record
	}

	req := PostRequest{
		Title:        draft.Title,
		BodyMarkdown: body,
		Tags:         draft.Tags,
		Publish:      topic.Config.PublishStatus == types.StatusPublic,
	}

	var ref *PostRef
	err = s.policy.Do(ctx, func(ctx context.Context) error {
		var createErr error
		ref, createErr = s.client.CreatePost(ctx, req)
		return createErr
	})
	if err != nil {
		return failed(record, err)
	}

	record.ExternalPostID = ref.ID
	record.URL = ref.URL
	record.Status = statusFor(topic.Config.PublishStatus)
	return record
}

func statusFor(status types.PublishStatus) types.PublicationState {
	if status == types.StatusPublic {
		return types.PublicationPublished
	}
	return types.PublicationDraft
}

func failed(record *types.PublicationRecord, err error) *types.PublicationRecord {
	record.Status = types.PublicationFailed
	record.FailureReason = string(provider.KindOf(err)) + ": " + err.Error()
	return record
}
