package services

import (
	"context"
	"time"
)

// MaxPageSize is the provider maximum for playlistItems.list pages.
const MaxPageSize = 50

// MaxBatchSize is the provider maximum for a videos.list id batch.
const MaxBatchSize = 50

// PlaylistAPI is the boundary to the remote metadata provider: one paginated
// listing operation and one batched detail lookup. Both are read-only.
type PlaylistAPI interface {
	// PlaylistItemsPage fetches a single page of playlist items. An empty
	// pageToken requests the first page.
	PlaylistItemsPage(ctx context.Context, playlistID, pageToken string) (*PlaylistItemsPage, error)

	// VideoDetails fetches detail records (duration etc.) for up to
	// MaxBatchSize video ids.
	VideoDetails(ctx context.Context, ids []string) ([]VideoDetail, error)
}

// Thumbnail is one thumbnail variant from the provider.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ThumbnailSet holds the provider's fixed quality tiers. Absent tiers are nil.
type ThumbnailSet struct {
	Maxres   *Thumbnail `json:"maxres"`
	Standard *Thumbnail `json:"standard"`
	High     *Thumbnail `json:"high"`
	Medium   *Thumbnail `json:"medium"`
	Default  *Thumbnail `json:"default"`
}

// Ordered returns the thumbnail URLs highest quality first, absent tiers
// filtered out.
func (t ThumbnailSet) Ordered() []string {
	var urls []string
	for _, tier := range []*Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if tier != nil && tier.URL != "" {
			urls = append(urls, tier.URL)
		}
	}
	return urls
}

// RawPlaylistItem is one playlistItems.list resource as returned by the
// provider, limited to the fields the engine depends on.
type RawPlaylistItem struct {
	Snippet struct {
		PublishedAt            time.Time    `json:"publishedAt"`
		Title                  string       `json:"title"`
		Description            string       `json:"description"`
		VideoOwnerChannelID    string       `json:"videoOwnerChannelId"`
		VideoOwnerChannelTitle string       `json:"videoOwnerChannelTitle"`
		Thumbnails             ThumbnailSet `json:"thumbnails"`
		ResourceID             struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
	} `json:"snippet"`
	ContentDetails struct {
		VideoID          string     `json:"videoId"`
		VideoPublishedAt *time.Time `json:"videoPublishedAt"`
	} `json:"contentDetails"`
}

// PlaylistItemsPage is one page of playlist items plus the continuation token.
type PlaylistItemsPage struct {
	Items         []RawPlaylistItem `json:"items"`
	NextPageToken string            `json:"nextPageToken"`
	PageInfo      struct {
		TotalResults int `json:"totalResults"`
	} `json:"pageInfo"`
}

// VideoDetail is one videos.list resource, limited to the detail-only fields.
type VideoDetail struct {
	ID             string `json:"id"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
}
