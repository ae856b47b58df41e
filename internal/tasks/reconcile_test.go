package tasks

import (
	"testing"
	"time"

	"github.com/qodesmith/dl-yt-playlist/internal/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func freshVideo(id string, added time.Time) models.Video {
	return models.Video{
		ID:                  id,
		Title:               "Title " + id,
		DateAddedToPlaylist: added,
		URL:                 models.WatchURL(id),
	}
}

func TestReconcile(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("new records inserted", func(t *testing.T) {
		fresh := []models.Video{freshVideo("a", day(2)), freshVideo("b", day(1))}

		merged, updates := Reconcile(fresh, nil)

		if updates != 2 {
			t.Errorf("expected 2 updates, got %d", updates)
		}
		if len(merged) != 2 || merged[0].ID != "a" || merged[1].ID != "b" {
			t.Errorf("unexpected merged set: %+v", merged)
		}
	})

	t.Run("absent records are retained", func(t *testing.T) {
		persisted := []models.Video{freshVideo("old", day(1))}
		fresh := []models.Video{freshVideo("new", day(2))}

		merged, updates := Reconcile(fresh, persisted)

		if updates != 1 {
			t.Errorf("expected 1 update, got %d", updates)
		}
		if len(merged) != 2 {
			t.Fatalf("record dropped from history: %+v", merged)
		}
	})

	t.Run("availability flip keeps captured fields", func(t *testing.T) {
		persisted := freshVideo("v", day(1))
		persisted.Title = "Original Title"
		persisted.Description = "Original description"
		persisted.AudioFileExtension = strPtr("mp3")
		persisted.DurationInSeconds = floatPtr(120)

		fresh := freshVideo("v", day(1))
		fresh.Title = "Private video"
		fresh.IsUnavailable = true

		merged, updates := Reconcile([]models.Video{fresh}, []models.Video{persisted})

		if updates != 1 {
			t.Errorf("expected 1 update, got %d", updates)
		}

		got := merged[0]
		if !got.IsUnavailable {
			t.Error("flag not flipped")
		}
		if got.Title != "Original Title" || got.Description != "Original description" {
			t.Error("sentinel text must not overwrite captured metadata")
		}
		if got.AudioFileExtension == nil || *got.AudioFileExtension != "mp3" {
			t.Error("download state lost on availability flip")
		}
		if got.DurationInSeconds == nil || *got.DurationInSeconds != 120 {
			t.Error("duration lost on availability flip")
		}
	})

	t.Run("recovered record replaced wholesale", func(t *testing.T) {
		persisted := freshVideo("v", day(1))
		persisted.Title = "Private video"
		persisted.IsUnavailable = true

		fresh := freshVideo("v", day(1))
		fresh.Title = "Now Public"
		fresh.DurationInSeconds = floatPtr(300)

		merged, updates := Reconcile([]models.Video{fresh}, []models.Video{persisted})

		if updates != 1 {
			t.Errorf("expected 1 update, got %d", updates)
		}
		if merged[0].Title != "Now Public" || merged[0].IsUnavailable {
			t.Errorf("recovery should adopt the fresh record: %+v", merged[0])
		}
	})

	t.Run("both unavailable is a no-op", func(t *testing.T) {
		persisted := freshVideo("v", day(1))
		persisted.Title = "Captured Before Deletion"
		persisted.IsUnavailable = true

		fresh := freshVideo("v", day(1))
		fresh.Title = "Deleted video"
		fresh.IsUnavailable = true

		merged, updates := Reconcile([]models.Video{fresh}, []models.Video{persisted})

		if updates != 0 {
			t.Errorf("expected no updates, got %d", updates)
		}
		if merged[0].Title != "Captured Before Deletion" {
			t.Error("historical record mutated")
		}
	})

	t.Run("mutable fields adopted only when different", func(t *testing.T) {
		persisted := freshVideo("v", day(1))
		persisted.DurationInSeconds = floatPtr(100)

		unchanged := freshVideo("v", day(1))
		unchanged.DurationInSeconds = floatPtr(100)

		if _, updates := Reconcile([]models.Video{unchanged}, []models.Video{persisted}); updates != 0 {
			t.Errorf("identical fresh record counted as update: %d", updates)
		}

		changed := freshVideo("v", day(1))
		changed.DurationInSeconds = floatPtr(101)

		merged, updates := Reconcile([]models.Video{changed}, []models.Video{persisted})
		if updates != 1 {
			t.Errorf("expected 1 update, got %d", updates)
		}
		if *merged[0].DurationInSeconds != 101 {
			t.Error("duration not adopted")
		}
	})

	t.Run("fresh nil fields never clear persisted state", func(t *testing.T) {
		persisted := freshVideo("v", day(1))
		persisted.AudioFileExtension = strPtr("mp3")
		persisted.LUFS = floatPtr(-14)

		fresh := freshVideo("v", day(1))

		merged, updates := Reconcile([]models.Video{fresh}, []models.Video{persisted})
		if updates != 0 {
			t.Errorf("expected no updates, got %d", updates)
		}
		if merged[0].AudioFileExtension == nil || merged[0].LUFS == nil {
			t.Error("nil fresh fields cleared persisted download state")
		}
	})

	t.Run("result sorted by date added descending", func(t *testing.T) {
		fresh := []models.Video{
			freshVideo("b", day(2)),
			freshVideo("a", day(2)),
			freshVideo("old", day(1)),
			freshVideo("newest", day(9)),
		}

		merged, _ := Reconcile(fresh, nil)

		want := []string{"newest", "a", "b", "old"}
		for i, id := range want {
			if merged[i].ID != id {
				t.Errorf("position %d: got %s, want %s", i, merged[i].ID, id)
			}
		}
	})

	t.Run("second run with unchanged upstream is idempotent", func(t *testing.T) {
		fresh := []models.Video{freshVideo("a", day(1)), freshVideo("b", day(2))}

		merged, first := Reconcile(fresh, nil)
		if first != 2 {
			t.Fatalf("first run expected 2 updates, got %d", first)
		}

		again, second := Reconcile(fresh, merged)
		if second != 0 {
			t.Errorf("second run expected 0 updates, got %d", second)
		}
		if len(again) != len(merged) {
			t.Errorf("record count changed on idempotent run")
		}
	})
}
