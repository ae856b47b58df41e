package main

import (
	"context"
	"errors"
	"os"

	"github.com/qodesmith/dl-yt-playlist/internal/services"
	"github.com/qodesmith/dl-yt-playlist/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var api services.PlaylistAPI
	if client, err := services.NewYouTubeClient(services.YouTubeClientOptions{
		APIKey:      config.YouTube.APIKey,
		TokenSource: services.StaticTokenSource(config.YouTube.OAuthToken),
		BaseURL:     config.YouTube.BaseURL,
		RateLimit:   config.Engine.RateLimit,
	}); err == nil {
		api = client
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		API:    api,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "dl-yt-playlist",
		Usage:    "Sync and download YouTube playlists",
		Version:  "1.0.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrMissingTool):
			logger.Fatal("yt-dlp (and ffmpeg for audio) must be on PATH", "error", err)
		case errors.Is(err, shared.ErrMissingDirectory):
			logger.Fatal("create the target directory before syncing", "error", err)
		case errors.Is(err, shared.ErrCorruptState):
			logger.Fatal("metadata.json is unreadable; refusing to overwrite it", "error", err)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
