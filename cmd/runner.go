package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/qodesmith/dl-yt-playlist/internal/downloader"
	"github.com/qodesmith/dl-yt-playlist/internal/models"
	"github.com/qodesmith/dl-yt-playlist/internal/services"
	"github.com/qodesmith/dl-yt-playlist/internal/shared"
	"github.com/qodesmith/dl-yt-playlist/internal/store"
	"github.com/qodesmith/dl-yt-playlist/internal/tasks"
	"github.com/qodesmith/dl-yt-playlist/internal/ytdlp"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	api        services.PlaylistAPI
	tool       *ytdlp.Client
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	API        services.PlaylistAPI
	Tool       *ytdlp.Client
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Tool == nil {
		opts.Tool = ytdlp.NewClient()
	}

	return &Runner{
		config:     opts.Config,
		api:        opts.API,
		tool:       opts.Tool,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, metadataCommand, reportCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// buildEngine assembles the sync engine for one run against a target directory.
func (r *Runner) buildEngine(dir string, collector *models.Collector, policy downloader.SelectionPolicy) *tasks.Engine {
	dirs := downloader.DirsFor(dir)

	if policy == nil {
		policy = diskPolicy(dirs)
	}

	scheduler := downloader.New(downloader.Options{
		Tool:              r.tool,
		HTTPClient:        r.httpClient,
		Dirs:              dirs,
		Policy:            policy,
		Collector:         collector,
		Logger:            r.logger,
		AudioFormat:       r.config.Download.AudioFormat,
		VideoFormat:       r.config.Download.VideoFormat,
		MaxDuration:       r.config.Download.MaxDurationSeconds,
		ConvertThumbnails: r.config.Download.ConvertThumbnails,
		MaxThumbnailSize:  r.config.Download.MaxThumbnailSize,
	})

	return tasks.NewEngine(tasks.EngineOptions{
		API:        r.api,
		Store:      store.FileStore{Path: store.Path(dir)},
		Downloader: scheduler,
		CheckTool:  r.tool.CheckDependencies,
		TargetDir:  dir,
		Collector:  collector,
		Logger:     r.logger,
	})
}

// diskPolicy skips downloads whose artifact is already on disk with the
// extension recorded in the metadata document.
func diskPolicy(dirs downloader.Dirs) downloader.SelectionPolicy {
	return func(v models.Video, kind models.DownloadKind) bool {
		switch kind {
		case models.KindAudio:
			return v.AudioFileExtension == nil ||
				!fileExists(filepath.Join(dirs.Audio, v.ID+"."+*v.AudioFileExtension))
		case models.KindVideo:
			return v.VideoFileExtension == nil ||
				!fileExists(filepath.Join(dirs.Video, v.ID+"."+*v.VideoFileExtension))
		case models.KindThumbnails:
			return !fileExists(filepath.Join(dirs.Thumbnails, v.ID+".jpg"))
		}
		return true
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
