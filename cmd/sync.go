package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qodesmith/dl-yt-playlist/internal/downloader"
	"github.com/qodesmith/dl-yt-playlist/internal/formatter"
	"github.com/qodesmith/dl-yt-playlist/internal/models"
	"github.com/qodesmith/dl-yt-playlist/internal/repositories"
	"github.com/qodesmith/dl-yt-playlist/internal/shared"
	"github.com/qodesmith/dl-yt-playlist/internal/tasks"
	"github.com/qodesmith/dl-yt-playlist/internal/ui"
	"github.com/urfave/cli/v3"
)

// Sync fetches playlist metadata, reconciles it with the persisted record set
// and downloads whatever media the flags request.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	if r.api == nil {
		return fmt.Errorf("%w: set youtube.api_key or youtube.oauth_token in config.toml", shared.ErrMissingAPIKey)
	}

	playlistID := cmd.String("playlist-id")
	dir := cmd.String("downloads")
	if dir == "" {
		dir = r.config.Download.Directory
	}

	kindFlag := cmd.String("kind")
	if kindFlag == "" {
		kindFlag = r.config.Download.Kind
	}

	kind, err := models.ParseDownloadKind(kindFlag)
	if err != nil {
		return fmt.Errorf("%w: kind %q", shared.ErrInvalidFlag, kindFlag)
	}

	opts := tasks.SyncOptions{
		PlaylistID:  playlistID,
		ItemCap:     cmd.Int("limit"),
		Concurrency: cmd.Int("concurrency"),
		Kind:        kind,
		Thumbnails:  cmd.Bool("thumbnails") || r.config.Download.Thumbnails,
	}

	if opts.ItemCap == 0 {
		opts.ItemCap = r.config.Engine.ItemCap
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = r.config.Engine.Concurrency
	}

	collector := models.NewCollector()
	engine := r.buildEngine(dir, collector, nil)

	var result *tasks.SyncResult

	if cmd.Bool("ui") {
		model := ui.NewModel(ctx, engine, opts)
		if _, err := tea.NewProgram(model).Run(); err != nil {
			return fmt.Errorf("failed to run interface: %w", err)
		}
		if result, err = model.Result(); err != nil {
			return err
		}
	} else {
		progressCh := make(chan tasks.ProgressUpdate, 50)
		drained := make(chan struct{})
		go func() {
			defer close(drained)
			for update := range progressCh {
				r.writePlain("%s\n", update.Message)
			}
		}()

		result, err = engine.Sync(ctx, opts, progressCh)
		close(progressCh)
		// The summary shares the output writer with the drain goroutine.
		<-drained

		if err != nil {
			return err
		}
	}

	if result == nil {
		return nil
	}

	r.recordHistory(ctx, result)

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	summary, err := formatter.SummaryToText(result)
	if err != nil {
		return err
	}

	r.writePlainHeader("Sync Complete")
	return r.writePlain("%s", summary)
}

// recordHistory writes download outcomes into the history database. History is
// best effort: a missing or broken database logs a warning and never fails the
// run that already happened.
func (r *Runner) recordHistory(ctx context.Context, result *tasks.SyncResult) {
	if r.config.Database.Path == "" || len(result.Outcomes) == 0 {
		return
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Warn("download history unavailable", "error", err)
		return
	}
	defer db.Close()

	repo := repositories.NewDownloadRepository(db)
	now := time.Now().UTC()

	for _, outcome := range result.Outcomes {
		records := historyRecords(outcome, result.RunID, now)

		for _, rec := range records {
			if err := repo.Record(ctx, rec); err != nil {
				r.logger.Warn("history row not recorded", "videoId", rec.VideoID, "error", err)
			}
		}
	}
}

func historyRecords(outcome downloader.Outcome, runID string, at time.Time) []repositories.DownloadRecord {
	var records []repositories.DownloadRecord

	if outcome.AudioExt != nil {
		records = append(records, repositories.DownloadRecord{
			VideoID:      outcome.VideoID,
			Kind:         models.KindAudio,
			Extension:    *outcome.AudioExt,
			RunID:        runID,
			DownloadedAt: at,
		})
	}

	if outcome.VideoExt != nil {
		records = append(records, repositories.DownloadRecord{
			VideoID:      outcome.VideoID,
			Kind:         models.KindVideo,
			Extension:    *outcome.VideoExt,
			RunID:        runID,
			DownloadedAt: at,
		})
	}

	if outcome.ThumbnailSaved {
		records = append(records, repositories.DownloadRecord{
			VideoID:      outcome.VideoID,
			Kind:         models.KindThumbnails,
			Extension:    "jpg",
			RunID:        runID,
			DownloadedAt: at,
		})
	}

	return records
}
