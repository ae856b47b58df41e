package services

import (
	"fmt"

	"github.com/qodesmith/dl-yt-playlist/internal/models"
)

// Sentinel strings the provider substitutes for items it will no longer
// describe. Matching either set marks the record unavailable.
var (
	unavailableTitles = map[string]bool{
		"Private video": true,
		"Deleted video": true,
	}
	unavailableDescriptions = map[string]bool{
		"This video is private.":     true,
		"This video is unavailable.": true,
	}
)

// Normalize validates one raw playlist item and converts it into a
// PartialVideo. The error reports a schema violation; callers skip the item
// rather than aborting the batch.
func Normalize(raw RawPlaylistItem) (models.PartialVideo, error) {
	id := raw.Snippet.ResourceID.VideoID
	if id == "" {
		id = raw.ContentDetails.VideoID
	}
	if id == "" {
		return models.PartialVideo{}, fmt.Errorf("playlist item missing video id")
	}
	if raw.Snippet.PublishedAt.IsZero() {
		return models.PartialVideo{}, fmt.Errorf("playlist item %s missing playlist-add timestamp", id)
	}

	return models.PartialVideo{
		ID:                  id,
		Title:               raw.Snippet.Title,
		Description:         raw.Snippet.Description,
		ChannelID:           raw.Snippet.VideoOwnerChannelID,
		ChannelName:         raw.Snippet.VideoOwnerChannelTitle,
		DateCreated:         raw.ContentDetails.VideoPublishedAt,
		DateAddedToPlaylist: raw.Snippet.PublishedAt,
		ThumbnailURLs:       raw.Snippet.Thumbnails.Ordered(),
		IsUnavailable:       isUnavailable(raw),
	}, nil
}

// NormalizeAll converts a raw item list, recording a failure for each item
// that fails validation and returning the rest in input order.
func NormalizeAll(raw []RawPlaylistItem, c *models.Collector) []models.PartialVideo {
	partials := make([]models.PartialVideo, 0, len(raw))
	for _, item := range raw {
		partial, err := Normalize(item)
		if err != nil {
			c.Append(models.Failure{
				Kind:    models.FailureGeneric,
				VideoID: item.Snippet.ResourceID.VideoID,
				Err:     err,
				Message: "invalid playlist item",
			})
			continue
		}
		partials = append(partials, partial)
	}
	return partials
}

func isUnavailable(raw RawPlaylistItem) bool {
	return unavailableTitles[raw.Snippet.Title] || unavailableDescriptions[raw.Snippet.Description]
}
