package main

import (
	"context"
	"fmt"

	"github.com/qodesmith/dl-yt-playlist/internal/models"
	"github.com/qodesmith/dl-yt-playlist/internal/repositories"
	"github.com/qodesmith/dl-yt-playlist/internal/shared"
	"github.com/qodesmith/dl-yt-playlist/internal/store"
	"github.com/urfave/cli/v3"
)

// reportData aggregates record-set and history stats for output.
type reportData struct {
	Records     int                         `json:"records"`
	Unavailable int                         `json:"unavailable"`
	WithAudio   int                         `json:"withAudio"`
	WithVideo   int                         `json:"withVideo"`
	History     map[models.DownloadKind]int `json:"history,omitempty"`
}

// Report summarizes the local state: record counts from the metadata document
// and download totals from the history database.
func (r *Runner) Report(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("downloads")
	if dir == "" {
		dir = r.config.Download.Directory
	}

	videos, err := store.Load(store.Path(dir))
	if err != nil {
		return err
	}

	data := reportData{Records: len(videos)}

	for _, video := range videos {
		if video.IsUnavailable {
			data.Unavailable++
		}
		if video.AudioFileExtension != nil {
			data.WithAudio++
		}
		if video.VideoFileExtension != nil {
			data.WithVideo++
		}
	}

	if r.config.Database.Path != "" {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			r.logger.Warn("download history unavailable", "error", err)
		} else {
			defer db.Close()

			repo := repositories.NewDownloadRepository(db)
			if data.History, err = repo.Summary(ctx); err != nil {
				return fmt.Errorf("failed to read download history: %w", err)
			}
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(data, true)
	}

	r.writePlainHeader("Library Report")
	r.writePlain("Records: %d\n", data.Records)
	r.writePlain("Unavailable: %d\n", data.Unavailable)
	r.writePlain("With audio: %d\n", data.WithAudio)
	r.writePlain("With video: %d\n", data.WithVideo)

	if len(data.History) > 0 {
		r.writePlain("\nDownload history:\n")
		for _, kind := range []models.DownloadKind{models.KindAudio, models.KindVideo, models.KindThumbnails} {
			if count := data.History[kind]; count > 0 {
				r.writePlain("  %s: %d\n", kind, count)
			}
		}
	}

	return nil
}
