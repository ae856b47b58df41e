package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/qodesmith/dl-yt-playlist/internal/models"
	"github.com/qodesmith/dl-yt-playlist/internal/shared"
	th "github.com/qodesmith/dl-yt-playlist/internal/testing"
)

func TestLoad(t *testing.T) {
	t.Run("missing file is an empty set", func(t *testing.T) {
		videos, err := Load(Path(t.TempDir()))
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if videos == nil || len(videos) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", videos)
		}
	})

	t.Run("corrupt file refuses to load", func(t *testing.T) {
		dir := t.TempDir()
		path := Path(dir)
		if err := os.WriteFile(path, []byte("{not valid json"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := Load(path); !errors.Is(err, shared.ErrCorruptState) {
			t.Errorf("expected ErrCorruptState, got %v", err)
		}
	})

	t.Run("null document is an empty set", func(t *testing.T) {
		dir := t.TempDir()
		path := Path(dir)
		if err := os.WriteFile(path, []byte("null\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		videos, err := Load(path)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if videos == nil {
			t.Error("expected non-nil slice for null document")
		}
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir)

	duration := 253.0
	ext := "mp3"
	videos := []models.Video{
		{
			ID:                  "v1",
			Title:               "Kept",
			DateAddedToPlaylist: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			DurationInSeconds:   &duration,
			AudioFileExtension:  &ext,
			URL:                 "https://www.youtube.com/watch?v=v1",
		},
		{
			ID:                  "v2",
			Title:               "Private video",
			DateAddedToPlaylist: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			IsUnavailable:       true,
		},
	}

	if err := Save(path, videos); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	th.AssertFileExists(t, path)

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded))
	}
	if loaded[0].AudioFileExtension == nil || *loaded[0].AudioFileExtension != "mp3" {
		t.Error("audio extension lost in round trip")
	}
	if !loaded[1].IsUnavailable {
		t.Error("availability flag lost in round trip")
	}

	content := th.MustReadFile(t, path)
	for _, field := range []string{`"dateAddedToPlaylist"`, `"isUnavailable"`, `"thumbnailUrls"`, `"durationInSeconds"`} {
		if !strings.Contains(content, field) {
			t.Errorf("document missing field %s", field)
		}
	}

	t.Run("no temp files left behind", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, entry := range entries {
			if entry.Name() != filepath.Base(path) {
				t.Errorf("unexpected file in target dir: %s", entry.Name())
			}
		}
	})
}

func TestFileStore(t *testing.T) {
	fs := FileStore{Path: Path(t.TempDir())}

	if err := fs.Save([]models.Video{{ID: "a"}}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	videos, err := fs.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(videos) != 1 || videos[0].ID != "a" {
		t.Errorf("unexpected records: %+v", videos)
	}
}
