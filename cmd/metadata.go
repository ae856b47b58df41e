package main

import (
	"context"

	"github.com/qodesmith/dl-yt-playlist/internal/formatter"
	"github.com/qodesmith/dl-yt-playlist/internal/models"
	"github.com/qodesmith/dl-yt-playlist/internal/store"
	"github.com/urfave/cli/v3"
)

// Metadata prints the persisted record set without touching the network.
func (r *Runner) Metadata(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("downloads")
	if dir == "" {
		dir = r.config.Download.Directory
	}

	videos, err := store.Load(store.Path(dir))
	if err != nil {
		return err
	}

	if cmd.Bool("unavailable") {
		var unavailable []models.Video
		for _, video := range videos {
			if video.IsUnavailable {
				unavailable = append(unavailable, video)
			}
		}
		videos = unavailable
	}

	if limit := cmd.Int("limit"); limit > 0 && limit < len(videos) {
		videos = videos[:limit]
	}

	if cmd.Bool("json") {
		out, err := formatter.VideosToJSON(videos)
		if err != nil {
			return err
		}
		return r.writePlain("%s", out)
	}

	out, err := formatter.VideosToText(videos)
	if err != nil {
		return err
	}

	return r.writePlain("%s", out)
}
