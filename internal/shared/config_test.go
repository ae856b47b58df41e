package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.YouTube.BaseURL == "" {
		t.Error("default base URL missing")
	}
	if config.Download.AudioFormat != "mp3" {
		t.Errorf("unexpected default audio format: %q", config.Download.AudioFormat)
	}
	if config.Engine.Concurrency <= 0 {
		t.Errorf("default concurrency must be positive, got %d", config.Engine.Concurrency)
	}
	if config.Database.Path == "" {
		t.Error("default database path missing")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[youtube]
api_key = "secret"

[download]
directory = "/data/music"
kind = "both"
max_duration_seconds = 600.5

[engine]
concurrency = 8
item_cap = 100
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig returned error: %v", err)
		}
		if config.YouTube.APIKey != "secret" {
			t.Error("api key not loaded")
		}
		if config.Download.Kind != "both" || config.Download.MaxDurationSeconds != 600.5 {
			t.Errorf("download section not loaded: %+v", config.Download)
		}
		if config.Engine.Concurrency != 8 || config.Engine.ItemCap != 100 {
			t.Errorf("engine section not loaded: %+v", config.Engine)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("[[[["), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile returned error: %v", err)
	}

	// The written template must itself be loadable.
	if _, err := LoadConfig(path); err != nil {
		t.Errorf("created config does not load: %v", err)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error when config already exists")
	}
}
