package publish

import (
	"context"
	"time"

	"github.com/jonathan/blog-automation/internal/types"
)

// LocalStage is the publish stage for local-only runs: the draft is already
// persisted by the artifact store, so no remote call is made and the record
// simply marks the run as a saved draft.
type LocalStage struct{}

// NewLocalStage creates the local publish stage
func NewLocalStage() *LocalStage { return &LocalStage{} }

// Publish records a local draft publication
func (*LocalStage) Publish(_ context.Context, topic types.Topic, draft *types.BlogDraft, _ *types.ImageCollection) *types.PublicationRecord {
	return &types.PublicationRecord{
		Platform:         types.PlatformLocal,
		Status:           types.PublicationDraft,
		IdempotencyToken: IdempotencyToken(topic.Query, types.PlatformLocal, draft),
		TimestampUTC:     time.Now().UTC(),
	}
}
