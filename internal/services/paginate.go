package services

import (
	"context"

	"github.com/qodesmith/dl-yt-playlist/internal/models"
)

// FetchPlaylistItems walks the playlist's continuation tokens and returns the
// flat item list in provider order plus the number of page calls made.
//
// The loop stops when no token remains or when the committed item count has
// reached itemCap (0 = unbounded); the cap decision only ever looks at fully
// parsed pages. A page error is recorded as a metadataFetch failure and stops
// pagination with whatever was collected so far, so sync may be incomplete on
// transient errors rather than aborting.
func FetchPlaylistItems(ctx context.Context, api PlaylistAPI, playlistID string, itemCap int, c *models.Collector) ([]RawPlaylistItem, int) {
	var items []RawPlaylistItem
	calls := 0
	pageToken := ""

	for {
		page, err := api.PlaylistItemsPage(ctx, playlistID, pageToken)
		calls++
		if err != nil {
			c.Append(models.Failure{
				Kind:    models.FailureMetadataFetch,
				Err:     err,
				Message: "playlist page fetch failed for " + playlistID,
			})
			break
		}

		items = append(items, page.Items...)

		if page.NextPageToken == "" {
			break
		}
		if itemCap > 0 && len(items) >= itemCap {
			break
		}
		pageToken = page.NextPageToken
	}

	if itemCap > 0 && len(items) > itemCap {
		items = items[:itemCap]
	}
	return items, calls
}
