package tasks

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/qodesmith/dl-yt-playlist/internal/downloader"
	"github.com/qodesmith/dl-yt-playlist/internal/models"
	"github.com/qodesmith/dl-yt-playlist/internal/services"
	"github.com/qodesmith/dl-yt-playlist/internal/shared"
)

// StateStore persists and restores the canonical record set.
type StateStore interface {
	Load() ([]models.Video, error)
	Save([]models.Video) error
}

// Downloader runs download units for the selected records.
type Downloader interface {
	Run(ctx context.Context, videos []models.Video, kind models.DownloadKind, wantThumbs bool, limit int) []downloader.Outcome
}

// Engine wires the sync pipeline together.
type Engine struct {
	api        services.PlaylistAPI
	store      StateStore
	downloader Downloader
	checkTool  func(needFFmpeg bool) error
	targetDir  string
	collector  *models.Collector
	logger     *log.Logger
}

// EngineOptions configures an Engine. API, Store and TargetDir are required;
// Downloader and CheckTool may be nil when no media is requested.
type EngineOptions struct {
	API        services.PlaylistAPI
	Store      StateStore
	Downloader Downloader
	CheckTool  func(needFFmpeg bool) error
	TargetDir  string
	// Collector, when set, must be the same instance the downloader reports
	// into so one run aggregates all failures in one place.
	Collector *models.Collector
	Logger    *log.Logger
}

func NewEngine(opts EngineOptions) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}

	collector := opts.Collector
	if collector == nil {
		collector = models.NewCollector()
	}

	return &Engine{
		api:        opts.API,
		store:      opts.Store,
		downloader: opts.Downloader,
		checkTool:  opts.CheckTool,
		targetDir:  opts.TargetDir,
		collector:  collector,
		logger:     logger,
	}
}

// SyncOptions parameterizes a single run.
type SyncOptions struct {
	PlaylistID  string
	ItemCap     int
	Concurrency int
	Kind        models.DownloadKind
	Thumbnails  bool
}

// SyncResult summarizes a completed run.
type SyncResult struct {
	RunID        string                                  `json:"runId"`
	PlaylistID   string                                  `json:"playlistId"`
	FetchCalls   int                                     `json:"fetchCalls"`
	ItemsFetched int                                     `json:"itemsFetched"`
	UpdateCount  int                                     `json:"updateCount"`
	Persisted    bool                                    `json:"persisted"`
	Counts       models.DownloadCounts                   `json:"downloadCounts"`
	FailureTotal int                                     `json:"failureTotal"`
	Failures     map[models.FailureKind][]models.Failure `json:"failures,omitempty"`
	Outcomes     []downloader.Outcome                    `json:"-"`
	Videos       []models.Video                          `json:"-"`
}

// Sync runs the full pipeline: fetch, normalize, enrich, reconcile, download,
// persist. Only three conditions abort the run: a failed preflight check, an
// unreadable persisted record set, and a missing playlist id. Everything else
// degrades into recorded failures on the result.
func (e *Engine) Sync(ctx context.Context, opts SyncOptions, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if opts.PlaylistID == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	sendUpdate(progress, ProgressUpdate{Phase: PhasePreflight, Message: "checking prerequisites"})

	if err := e.preflight(opts.Kind); err != nil {
		return nil, err
	}

	runID := shared.GenerateRunID()
	collector := e.collector

	e.logger.Info("starting sync", "runId", runID, "playlistId", opts.PlaylistID)

	sendUpdate(progress, fetchUpdate(opts.PlaylistID))

	raw, calls := services.FetchPlaylistItems(ctx, e.api, opts.PlaylistID, opts.ItemCap, collector)

	sendUpdate(progress, normalizeUpdate(len(raw)))

	partials := services.NormalizeAll(raw, collector)

	sendUpdate(progress, detailsUpdate(len(partials)))

	fresh := FetchDetails(ctx, e.api, partials, opts.Concurrency, collector)

	persisted, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	merged, updates := Reconcile(fresh, persisted)

	sendUpdate(progress, reconcileUpdate(updates))

	var outcomes []downloader.Outcome

	if e.downloader != nil && (opts.Kind.WantsMedia() || opts.Kind == models.KindThumbnails || opts.Thumbnails) {
		sendUpdate(progress, downloadUpdate(len(merged)))

		wantThumbs := opts.Thumbnails || opts.Kind == models.KindThumbnails
		outcomes = e.downloader.Run(ctx, merged, opts.Kind, wantThumbs, opts.Concurrency)
		updates += applyOutcomes(merged, outcomes)
	}

	saved := false

	if updates > 0 {
		sendUpdate(progress, persistUpdate())

		if err := e.store.Save(merged); err != nil {
			e.logger.Error("record set not written", "error", err)
			collector.Append(models.Failure{Kind: models.FailurePersistWrite, Err: err})
		} else {
			saved = true
		}
	}

	result := &SyncResult{
		RunID:        runID,
		PlaylistID:   opts.PlaylistID,
		FetchCalls:   calls,
		ItemsFetched: len(raw),
		UpdateCount:  updates,
		Persisted:    saved,
		Counts:       collector.Counts(),
		FailureTotal: collector.Len(),
		Outcomes:     outcomes,
		Videos:       merged,
	}

	if result.FailureTotal > 0 {
		result.Failures = collector.Grouped()
	}

	e.logger.Info("sync finished",
		"runId", runID,
		"records", len(merged),
		"updates", updates,
		"downloads", result.Counts.Total(),
		"failures", result.FailureTotal,
	)

	sendUpdate(progress, doneUpdate())

	return result, nil
}

// preflight validates the environment once, up front. The target directory
// must already exist; only its media subdirectories are created on demand.
func (e *Engine) preflight(kind models.DownloadKind) error {
	info, err := os.Stat(e.targetDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", shared.ErrMissingDirectory, e.targetDir)
	}

	if kind.WantsMedia() && e.checkTool != nil {
		if err := e.checkTool(kind.WantsAudio()); err != nil {
			return err
		}
	}

	return nil
}

// applyOutcomes folds download results back into the merged record set and
// returns the number of records that changed as a consequence.
func applyOutcomes(merged []models.Video, outcomes []downloader.Outcome) int {
	index := make(map[string]int, len(merged))

	for i, video := range merged {
		index[video.ID] = i
	}

	updates := 0

	for _, outcome := range outcomes {
		i, ok := index[outcome.VideoID]
		if !ok {
			continue
		}

		video := &merged[i]
		changed := false

		if outcome.AudioExt != nil && !equalStringPtr(video.AudioFileExtension, outcome.AudioExt) {
			video.AudioFileExtension = outcome.AudioExt
			changed = true
		}

		if outcome.VideoExt != nil && !equalStringPtr(video.VideoFileExtension, outcome.VideoExt) {
			video.VideoFileExtension = outcome.VideoExt
			changed = true
		}

		if outcome.Loudness != nil && !equalFloatPtr(video.LUFS, outcome.Loudness) {
			video.LUFS = outcome.Loudness
			changed = true
		}

		if changed {
			updates++
		}
	}

	return updates
}
