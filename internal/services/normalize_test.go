package services

import (
	"testing"
	"time"

	"github.com/qodesmith/dl-yt-playlist/internal/models"
)

func rawItem(id, title, description string) RawPlaylistItem {
	var item RawPlaylistItem
	item.Snippet.ResourceID.VideoID = id
	item.Snippet.Title = title
	item.Snippet.Description = description
	item.Snippet.PublishedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return item
}

func TestNormalize(t *testing.T) {
	t.Run("valid item", func(t *testing.T) {
		item := rawItem("vid1", "A Title", "words")
		item.Snippet.VideoOwnerChannelID = "chan1"
		item.Snippet.VideoOwnerChannelTitle = "Channel One"
		item.Snippet.Thumbnails = ThumbnailSet{
			Maxres:  &Thumbnail{URL: "https://img/maxres.jpg"},
			Default: &Thumbnail{URL: "https://img/default.jpg"},
		}

		partial, err := Normalize(item)
		if err != nil {
			t.Fatalf("Normalize returned error: %v", err)
		}
		if partial.IsUnavailable {
			t.Error("ordinary item marked unavailable")
		}
		if len(partial.ThumbnailURLs) != 2 || partial.ThumbnailURLs[0] != "https://img/maxres.jpg" {
			t.Errorf("thumbnails not ordered best first: %v", partial.ThumbnailURLs)
		}
		if partial.ChannelName != "Channel One" {
			t.Errorf("channel name lost: %q", partial.ChannelName)
		}
	})

	t.Run("sentinel titles mark unavailable", func(t *testing.T) {
		for _, title := range []string{"Private video", "Deleted video"} {
			partial, err := Normalize(rawItem("vid2", title, ""))
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", title, err)
			}
			if !partial.IsUnavailable {
				t.Errorf("title %q should mark the item unavailable", title)
			}
		}
	})

	t.Run("sentinel descriptions mark unavailable", func(t *testing.T) {
		for _, desc := range []string{"This video is private.", "This video is unavailable."} {
			partial, err := Normalize(rawItem("vid3", "Some title", desc))
			if err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}
			if !partial.IsUnavailable {
				t.Errorf("description %q should mark the item unavailable", desc)
			}
		}
	})

	t.Run("similar but non-sentinel text stays available", func(t *testing.T) {
		partial, err := Normalize(rawItem("vid4", "My Private video essay", "This video is private. Kind of."))
		if err != nil {
			t.Fatalf("Normalize returned error: %v", err)
		}
		if partial.IsUnavailable {
			t.Error("sentinel matching must be exact, not substring")
		}
	})

	t.Run("video id fallback to contentDetails", func(t *testing.T) {
		item := rawItem("", "Title", "")
		item.ContentDetails.VideoID = "fallback"

		partial, err := Normalize(item)
		if err != nil {
			t.Fatalf("Normalize returned error: %v", err)
		}
		if partial.ID != "fallback" {
			t.Errorf("expected fallback id, got %q", partial.ID)
		}
	})

	t.Run("missing id rejected", func(t *testing.T) {
		if _, err := Normalize(rawItem("", "Title", "")); err == nil {
			t.Error("item without any video id should fail validation")
		}
	})

	t.Run("missing playlist-add timestamp rejected", func(t *testing.T) {
		item := rawItem("vid5", "Title", "")
		item.Snippet.PublishedAt = time.Time{}
		if _, err := Normalize(item); err == nil {
			t.Error("item without publishedAt should fail validation")
		}
	})
}

func TestNormalizeAll(t *testing.T) {
	c := models.NewCollector()
	items := []RawPlaylistItem{
		rawItem("good1", "One", ""),
		rawItem("", "Broken", ""),
		rawItem("good2", "Two", ""),
	}

	partials := NormalizeAll(items, c)

	if len(partials) != 2 {
		t.Fatalf("expected 2 partials, got %d", len(partials))
	}
	if partials[0].ID != "good1" || partials[1].ID != "good2" {
		t.Errorf("input order not preserved: %v", partials)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 recorded failure, got %d", c.Len())
	}
	if failures := c.Failures(); failures[0].Kind != models.FailureGeneric {
		t.Errorf("unexpected failure kind: %v", failures[0].Kind)
	}
}
