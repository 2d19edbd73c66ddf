package images

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/blog-automation/internal/retry"
	"github.com/jonathan/blog-automation/internal/types"
)

// perProviderFetch is how many assets each provider is asked for; curation
// selects the final set from the merged pool
const perProviderFetch = 8

// Stage is the image curation stage. Providers fail independently: an
// outage reduces the candidate pool but never fails the stage.
type Stage struct {
	clients []SearchClient
	policy  retry.Policy
}

// NewStage creates a curation stage over the configured providers
func NewStage(clients []SearchClient, policy retry.Policy) *Stage {
	return &Stage{clients: clients, policy: policy}
}

// Result carries the curated collection plus per-provider outcomes so the
// orchestrator can report partial outages
type Result struct {
	Collection     *types.ImageCollection
	ProviderErrors map[string]error
}

// Curate queries all providers in parallel, merges and deduplicates their
// assets, ranks them, and selects one featured image plus imageCount-1
// supporting images. Zero assets across all providers yields an empty
// collection, not an error.
func (s *Stage) Curate(ctx context.Context, draft *types.BlogDraft, topic string, imageCount int) (*Result, error) {
	query := deriveQuery(draft, topic)

	type outcome struct {
		name   string
		assets []types.ImageAsset
		err    error
	}

	outcomes := make([]outcome, len(s.clients))
	var wg sync.WaitGroup
	for i, client := range s.clients {
		wg.Add(1)
		go func(i int, client SearchClient) {
			defer wg.Done()
			var assets []types.ImageAsset
			err := s.policy.Do(ctx, func(ctx context.Context) error {
				callCtx, cancel := context.WithTimeout(ctx, searchTimeout)
				defer cancel()
				var callErr error
				assets, callErr = client.Search(callCtx, query, perProviderFetch)
				return callErr
			})
			// Each goroutine writes only its own slot; merge happens after Wait
			outcomes[i] = outcome{name: client.Name(), assets: assets, err: err}
		}(i, client)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := make([]types.ImageAsset, 0)
	providerErrors := make(map[string]error)
	for _, o := range outcomes {
		if o.err != nil {
			providerErrors[o.name] = o.err
			continue
		}
		merged = append(merged, o.assets...)
	}

	collection := buildCollection(query, merged, imageCount)
	return &Result{Collection: collection, ProviderErrors: providerErrors}, nil
}

// deriveQuery builds the provider search query from the draft title,
// falling back to the raw topic
func deriveQuery(draft *types.BlogDraft, topic string) string {
	title := ""
	if draft != nil {
		title = strings.TrimSpace(draft.Title)
	}
	if title == "" {
		return topic
	}
	// Strip punctuation the image APIs tend to choke on
	title = strings.Map(func(r rune) rune {
		switch r {
		case ':', '?', '!', '"', '\'', ',', '.':
			return -1
		}
		return r
	}, title)
	words := strings.Fields(title)
	if len(words) > 6 {
		words = words[:6]
	}
	return strings.Join(words, " ")
}

// buildCollection deduplicates, ranks, and assigns roles
func buildCollection(query string, assets []types.ImageAsset, imageCount int) *types.ImageCollection {
	deduped := dedupe(assets)
	for i := range deduped {
		deduped[i].Score = rank(deduped[i], query)
	}
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})

	if imageCount < 1 {
		imageCount = 1
	}
	if len(deduped) > imageCount {
		deduped = deduped[:imageCount]
	}
	for i := range deduped {
		if i == 0 {
			deduped[i].Role = types.RoleFeatured
		} else {
			deduped[i].Role = types.RoleSupporting
		}
	}

	collection := &types.ImageCollection{Query: query, Assets: deduped}
	collection.SortFeaturedFirst()
	return collection
}

// dedupe removes assets with the same provider asset identity or the same
// (url, dimensions) across providers
func dedupe(assets []types.ImageAsset) []types.ImageAsset {
	seen := make(map[string]bool, len(assets))
	out := make([]types.ImageAsset, 0, len(assets))
	for _, a := range assets {
		idKey := a.Provider + "/" + a.ProviderAssetID
		contentKey := fmt.Sprintf("%s|%dx%d", a.URL, a.Width, a.Height)
		if seen[idKey] || seen[contentKey] {
			continue
		}
		seen[idKey] = true
		seen[contentKey] = true
		out = append(out, a)
	}
	return out
}

// rank scores an asset by query-term match in its attribution text plus a
// resolution bonus
func rank(a types.ImageAsset, query string) float64 {
	score := 0.0
	haystack := strings.ToLower(a.Attribution + " " + a.URL)
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(haystack, term) {
			score += 1
		}
	}
	megapixels := float64(a.Width) * float64(a.Height) / 1e6
	if megapixels > 4 {
		megapixels = 4
	}
	return score + megapixels
}
