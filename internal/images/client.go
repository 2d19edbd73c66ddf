// Package images provides the stock-image provider clients and the
// curation stage that merges, deduplicates, and ranks their results.
package images

import (
	"context"
	"time"

	"github.com/jonathan/blog-automation/internal/types"
)

// searchTimeout bounds a single provider search call
const searchTimeout = 10 * time.Second

// SearchClient is the capability interface for one stock-image provider
type SearchClient interface {
	// Name identifies the provider in assets and errors
	Name() string
	// Search returns assets for a query; failures are classified provider errors
	Search(ctx context.Context, query string, perPage int) ([]types.ImageAsset, error)
}
