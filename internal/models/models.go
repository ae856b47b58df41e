package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Video is the canonical persisted record describing one playlist item and
// its derived download state. The JSON shape is the on-disk metadata.json
// contract.
//
// Once a record is marked unavailable every previously known field (other
// than availability) is retained, because the provider stops returning them.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ChannelID   string `json:"channelId"`
	ChannelName string `json:"channelName"`

	// DateCreated is when the underlying media was published. Unknown for
	// items that were already unavailable when first seen.
	DateCreated *time.Time `json:"dateCreated"`
	// DateAddedToPlaylist is when the item entered the playlist. Always known
	// while the item is listed, and the persisted sort key.
	DateAddedToPlaylist time.Time `json:"dateAddedToPlaylist"`

	// ThumbnailURLs is ordered highest quality first. Any entry may be
	// invalid at fetch time.
	ThumbnailURLs []string `json:"thumbnailUrls"`

	// DurationInSeconds is nil until the detail fetch ran. nil means
	// unknown, never zero.
	DurationInSeconds *float64 `json:"durationInSeconds"`

	URL        string `json:"url"`
	ChannelURL string `json:"channelUrl"`

	// Extensions are nil until a successful download of that kind occurred.
	AudioFileExtension *string `json:"audioFileExtension"`
	VideoFileExtension *string `json:"videoFileExtension"`

	IsUnavailable bool `json:"isUnavailable"`

	// LUFS is an optional loudness metric reported by the download tool.
	LUFS *float64 `json:"lufs,omitempty"`
}

// PartialVideo is a validated playlist item before detail enrichment. It
// carries everything the playlist listing provides; duration and download
// state arrive later.
type PartialVideo struct {
	ID                  string
	Title               string
	Description         string
	ChannelID           string
	ChannelName         string
	DateCreated         *time.Time
	DateAddedToPlaylist time.Time
	ThumbnailURLs       []string
	IsUnavailable       bool
}

// Complete promotes the partial record to a full Video with the given
// duration (nil = unknown) and the derived URL fields filled in.
func (p PartialVideo) Complete(duration *float64) Video {
	return Video{
		ID:                  p.ID,
		Title:               p.Title,
		Description:         p.Description,
		ChannelID:           p.ChannelID,
		ChannelName:         p.ChannelName,
		DateCreated:         p.DateCreated,
		DateAddedToPlaylist: p.DateAddedToPlaylist,
		ThumbnailURLs:       p.ThumbnailURLs,
		DurationInSeconds:   duration,
		URL:                 WatchURL(p.ID),
		ChannelURL:          ChannelURL(p.ChannelID),
		IsUnavailable:       p.IsUnavailable,
	}
}

// WatchURL derives the watch URL for a video id.
func WatchURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + id
}

// ChannelURL derives the channel URL for a channel id. Empty when the channel
// id is unknown, which happens for items that were unavailable at first sight.
func ChannelURL(channelID string) string {
	if channelID == "" {
		return ""
	}
	return "https://www.youtube.com/channel/" + channelID
}

// SortVideos orders records descending by DateAddedToPlaylist with the id as
// a deterministic tiebreak. This is the persisted, externally visible order.
func SortVideos(videos []Video) {
	slices.SortStableFunc(videos, func(a, b Video) int {
		if a.DateAddedToPlaylist.After(b.DateAddedToPlaylist) {
			return -1
		}
		if a.DateAddedToPlaylist.Before(b.DateAddedToPlaylist) {
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// DownloadKind selects what a sync run downloads.
type DownloadKind string

const (
	KindNone       DownloadKind = "none"
	KindAudio      DownloadKind = "audio"
	KindVideo      DownloadKind = "video"
	KindBoth       DownloadKind = "both"
	KindThumbnails DownloadKind = "thumbnails"
)

// ParseDownloadKind validates a user-supplied kind string.
func ParseDownloadKind(s string) (DownloadKind, error) {
	switch DownloadKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindNone, "":
		return KindNone, nil
	case KindAudio:
		return KindAudio, nil
	case KindVideo:
		return KindVideo, nil
	case KindBoth:
		return KindBoth, nil
	case KindThumbnails:
		return KindThumbnails, nil
	default:
		return "", fmt.Errorf("unknown download kind %q (expected none, audio, video, both, or thumbnails)", s)
	}
}

// WantsAudio reports whether the kind includes an audio download.
func (k DownloadKind) WantsAudio() bool { return k == KindAudio || k == KindBoth }

// WantsVideo reports whether the kind includes a video download.
func (k DownloadKind) WantsVideo() bool { return k == KindVideo || k == KindBoth }

// WantsMedia reports whether the kind invokes the external download tool at all.
func (k DownloadKind) WantsMedia() bool { return k.WantsAudio() || k.WantsVideo() }
