package ytdlp

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/qodesmith/dl-yt-playlist/internal/shared"
)

func TestParseResult(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		result, err := ParseResult([]byte(`{
			"id": "abc123",
			"ext": "webm",
			"requested_downloads": [{"ext": "mp3"}],
			"loudness": -14.2
		}`))
		if err != nil {
			t.Fatalf("ParseResult returned error: %v", err)
		}
		if result.ID != "abc123" {
			t.Errorf("unexpected id: %s", result.ID)
		}
		if result.FileExtension() != "mp3" {
			t.Errorf("expected post-processed extension mp3, got %s", result.FileExtension())
		}
		if result.Loudness == nil || *result.Loudness != -14.2 {
			t.Errorf("loudness lost: %v", result.Loudness)
		}
	})

	t.Run("falls back to container extension", func(t *testing.T) {
		result, err := ParseResult([]byte(`{"id": "abc", "ext": "mp4"}`))
		if err != nil {
			t.Fatalf("ParseResult returned error: %v", err)
		}
		if result.FileExtension() != "mp4" {
			t.Errorf("expected mp4, got %s", result.FileExtension())
		}
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		for name, data := range map[string]string{
			"empty":       "",
			"whitespace":  "  \n",
			"not json":    "yt-dlp: error: something broke",
			"missing id":  `{"ext": "mp4"}`,
			"missing ext": `{"id": "abc"}`,
			"wrong shape": `[1, 2, 3]`,
		} {
			if _, err := ParseResult([]byte(data)); !errors.Is(err, ErrOutputParse) {
				t.Errorf("%s: expected ErrOutputParse, got %v", name, err)
			}
		}
	})
}

func TestBuildArgs(t *testing.T) {
	t.Run("audio extraction", func(t *testing.T) {
		args := buildArgs(Options{
			VideoURL:     "https://youtube.com/watch?v=x",
			OutputDir:    "/tmp/audio",
			ExtractAudio: true,
			AudioFormat:  "mp3",
		})

		for _, want := range []string{"--no-playlist", "-J", "--no-simulate", "-x", "mp3"} {
			if !slices.Contains(args, want) {
				t.Errorf("args missing %q: %v", want, args)
			}
		}
		if slices.Contains(args, "-f") {
			t.Error("audio invocation should not carry a video format selector")
		}
		if args[len(args)-1] != "https://youtube.com/watch?v=x" {
			t.Error("URL must be the final argument")
		}
	})

	t.Run("video with default format", func(t *testing.T) {
		args := buildArgs(Options{VideoURL: "u", OutputDir: "/tmp/video"})

		i := slices.Index(args, "-f")
		if i < 0 || args[i+1] != defaultVideoFormat {
			t.Errorf("expected default video format selector, got %v", args)
		}
	})

	t.Run("output template uses id and ext", func(t *testing.T) {
		args := buildArgs(Options{VideoURL: "u", OutputDir: "/data/video"})

		i := slices.Index(args, "-o")
		if i < 0 || !strings.Contains(args[i+1], "%(id)s.%(ext)s") {
			t.Errorf("output template missing: %v", args)
		}
	})
}

func TestCheckDependencies(t *testing.T) {
	t.Run("missing binary", func(t *testing.T) {
		c := &Client{Binary: "definitely-not-a-real-binary-xyz", FFmpeg: "ffmpeg"}
		err := c.CheckDependencies(false)
		if err == nil {
			t.Fatal("expected error for missing binary")
		}
		if !errors.Is(err, shared.ErrMissingTool) {
			t.Errorf("expected ErrMissingTool, got %v", err)
		}
	})

	t.Run("missing ffmpeg only matters for audio", func(t *testing.T) {
		c := &Client{Binary: "sh", FFmpeg: "definitely-not-ffmpeg-xyz"}
		if err := c.CheckDependencies(false); err != nil {
			t.Errorf("ffmpeg should not be required without audio: %v", err)
		}
		if err := c.CheckDependencies(true); !errors.Is(err, shared.ErrMissingTool) {
			t.Errorf("expected ErrMissingTool when ffmpeg is required and missing, got %v", err)
		}
	})
}

func TestDownloadValidation(t *testing.T) {
	c := NewClient()

	if _, _, err := c.Download(context.Background(), Options{OutputDir: "/tmp"}); err == nil {
		t.Error("expected error for missing URL")
	}
	if _, _, err := c.Download(context.Background(), Options{VideoURL: "u"}); err == nil {
		t.Error("expected error for missing output directory")
	}
}
