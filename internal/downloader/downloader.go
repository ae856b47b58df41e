// Package downloader executes per-item download units with bounded
// concurrency: an optional thumbnail fallback cascade followed by one
// external tool invocation per requested media kind.
package downloader

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/qodesmith/dl-yt-playlist/internal/models"
	"github.com/qodesmith/dl-yt-playlist/internal/shared"
	"github.com/qodesmith/dl-yt-playlist/internal/ytdlp"
)

// MediaTool is the external download tool boundary.
type MediaTool interface {
	Download(ctx context.Context, opts ytdlp.Options) (*ytdlp.Result, []byte, error)
}

// SelectionPolicy decides whether a record should be downloaded for a given
// kind. It is injected by the caller so the engine stays agnostic to whatever
// source of truth (database, disk inspection) the caller maintains.
type SelectionPolicy func(v models.Video, kind models.DownloadKind) bool

// Dirs holds the per-kind output directories.
type Dirs struct {
	Audio      string
	Video      string
	Thumbnails string
}

// DirsFor derives the standard layout under a target directory.
func DirsFor(base string) Dirs {
	return Dirs{
		Audio:      filepath.Join(base, "audio"),
		Video:      filepath.Join(base, "video"),
		Thumbnails: filepath.Join(base, "thumbnails"),
	}
}

// Outcome is the terminal result of one unit of work.
type Outcome struct {
	VideoID        string
	AudioExt       *string
	VideoExt       *string
	Loudness       *float64
	ThumbnailSaved bool
	MediaFailed    bool
}

// Options configures a Scheduler.
type Options struct {
	Tool              MediaTool
	HTTPClient        *http.Client
	Dirs              Dirs
	Policy            SelectionPolicy
	Collector         *models.Collector
	Logger            *log.Logger
	AudioFormat       string
	VideoFormat       string
	MaxDuration       float64 // seconds, 0 = no ceiling
	ConvertThumbnails bool
	MaxThumbnailSize  int
}

// Scheduler turns selected records into independent download units and runs
// them wave by wave. A unit's failure is recorded and excluded from the
// succeeded set; it never aborts sibling units.
type Scheduler struct {
	tool      MediaTool
	http      *http.Client
	dirs      Dirs
	policy    SelectionPolicy
	collector *models.Collector
	logger    *log.Logger
	opts      Options
}

// New creates a Scheduler. The HTTP client is rebuilt with redirect following
// disabled so the thumbnail cascade can observe 3xx statuses itself.
func New(opts Options) *Scheduler {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	// Shallow copy so the caller's client is untouched.
	noRedirect := *httpClient
	noRedirect.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Scheduler{
		tool:      opts.Tool,
		http:      &noRedirect,
		dirs:      opts.Dirs,
		policy:    opts.Policy,
		collector: opts.Collector,
		logger:    logger,
		opts:      opts,
	}
}

// unit is one independent piece of work. Progression is strictly forward:
// pending, thumbnail attempts, tool invocation, then a terminal parse/tool
// outcome; there is no retry across terminal states.
type unit struct {
	video     models.Video
	wantAudio bool
	wantVideo bool
	wantThumb bool
}

// buildUnit applies availability, the duration ceiling, and the injected
// policy. Records excluded here stay in metadata; exclusion is not a failure.
func (s *Scheduler) buildUnit(v models.Video, kind models.DownloadKind, wantThumbs bool) *unit {
	if v.IsUnavailable {
		return nil
	}

	u := unit{video: v}

	if kind.WantsAudio() && s.withinCeiling(v) && s.allowed(v, models.KindAudio) {
		u.wantAudio = true
	}
	if kind.WantsVideo() && s.withinCeiling(v) && s.allowed(v, models.KindVideo) {
		u.wantVideo = true
	}
	if (wantThumbs || kind == models.KindThumbnails) && len(v.ThumbnailURLs) > 0 && s.allowed(v, models.KindThumbnails) {
		u.wantThumb = true
	}

	if !u.wantAudio && !u.wantVideo && !u.wantThumb {
		return nil
	}
	return &u
}

// withinCeiling reports whether the record passes the max-duration ceiling.
// An unknown duration cannot be shown to satisfy a configured ceiling, so it
// fails the check; with no ceiling everything passes.
func (s *Scheduler) withinCeiling(v models.Video) bool {
	if s.opts.MaxDuration <= 0 {
		return true
	}
	if v.DurationInSeconds == nil {
		return false
	}
	return *v.DurationInSeconds <= s.opts.MaxDuration
}

func (s *Scheduler) allowed(v models.Video, kind models.DownloadKind) bool {
	if s.policy == nil {
		return true
	}
	return s.policy(v, kind)
}

// Run executes the selected records as units in waves of at most limit.
// Outcomes are returned in selection order regardless of completion order.
func (s *Scheduler) Run(ctx context.Context, videos []models.Video, kind models.DownloadKind, wantThumbs bool, limit int) []Outcome {
	units := make([]unit, 0, len(videos))
	for _, v := range videos {
		if u := s.buildUnit(v, kind, wantThumbs); u != nil {
			units = append(units, *u)
		}
	}

	outcomes := make([]Outcome, len(units))
	_ = shared.InWaves(ctx, len(units), limit, func(ctx context.Context, i int) error {
		outcomes[i] = s.runUnit(ctx, units[i])
		return nil
	})
	return outcomes
}

func (s *Scheduler) runUnit(ctx context.Context, u unit) Outcome {
	outcome := Outcome{VideoID: u.video.ID}
	logger := s.logger.With("video", u.video.ID)

	if u.wantThumb {
		outcome.ThumbnailSaved = s.fetchThumbnail(ctx, u.video)
	}

	if u.wantAudio {
		result := s.downloadMedia(ctx, u.video, ytdlp.Options{
			VideoURL:     u.video.URL,
			OutputDir:    s.dirs.Audio,
			ExtractAudio: true,
			AudioFormat:  s.opts.AudioFormat,
		})
		if result == nil {
			outcome.MediaFailed = true
		} else {
			ext := result.FileExtension()
			outcome.AudioExt = &ext
			outcome.Loudness = result.Loudness
			s.collector.CountAudio()
			logger.Debug("audio downloaded", "ext", ext)
		}
	}

	if u.wantVideo {
		result := s.downloadMedia(ctx, u.video, ytdlp.Options{
			VideoURL:    u.video.URL,
			OutputDir:   s.dirs.Video,
			VideoFormat: s.opts.VideoFormat,
		})
		if result == nil {
			outcome.MediaFailed = true
		} else {
			ext := result.FileExtension()
			outcome.VideoExt = &ext
			s.collector.CountVideo()
			logger.Debug("video downloaded", "ext", ext)
		}
	}

	return outcome
}

// downloadMedia invokes the tool once and records tool or parse failures.
// Returns nil on failure; the unit keeps going with its remaining work.
func (s *Scheduler) downloadMedia(ctx context.Context, v models.Video, opts ytdlp.Options) *ytdlp.Result {
	result, raw, err := s.tool.Download(ctx, opts)
	if err == nil {
		return result
	}

	kind := models.FailureDownloadTool
	if errors.Is(err, ytdlp.ErrOutputParse) {
		kind = models.FailureOutputParse
	}
	s.collector.Append(models.Failure{
		Kind:    kind,
		VideoID: v.ID,
		URL:     v.URL,
		Output:  string(raw),
		Err:     err,
	})
	return nil
}
