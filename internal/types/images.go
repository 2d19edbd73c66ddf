package types

import "sort"

// ImageRole distinguishes the single lead image from supporting ones
type ImageRole string

// Image roles within a collection
const (
	RoleFeatured   ImageRole = "featured"
	RoleSupporting ImageRole = "supporting"
)

// ImageAsset is one curated stock image with its provenance and attribution
type ImageAsset struct {
	URL             string    `json:"url"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	Provider        string    `json:"provider"`
	ProviderAssetID string    `json:"provider_asset_id"`
	Attribution     string    `json:"attribution"`
	AttributionURL  string    `json:"attribution_url,omitempty"`
	Role            ImageRole `json:"role"`
	Score           float64   `json:"score,omitempty"`
}

// ImageCollection is a deduplicated, featured-first ordered set of assets
type ImageCollection struct {
	Query  string       `json:"query"`
	Assets []ImageAsset `json:"assets"`
}

// Empty reports whether curation found no assets at all
func (c *ImageCollection) Empty() bool {
	return len(c.Assets) == 0
}

// Featured returns the lead image, or nil when the collection is empty
func (c *ImageCollection) Featured() *ImageAsset {
	for i := range c.Assets {
		if c.Assets[i].Role == RoleFeatured {
			return &c.Assets[i]
		}
	}
	return nil
}

// Supporting returns the non-featured assets in ranked order
func (c *ImageCollection) Supporting() []ImageAsset {
	out := make([]ImageAsset, 0, len(c.Assets))
	for _, a := range c.Assets {
		if a.Role == RoleSupporting {
			out = append(out, a)
		}
	}
	return out
}

// SortFeaturedFirst orders assets featured-first, then by descending score
func (c *ImageCollection) SortFeaturedFirst() {
	sort.SliceStable(c.Assets, func(i, j int) bool {
		if c.Assets[i].Role != c.Assets[j].Role {
			return c.Assets[i].Role == RoleFeatured
		}
		return c.Assets[i].Score > c.Assets[j].Score
	})
}
