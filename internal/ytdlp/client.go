// Package ytdlp wraps the external yt-dlp download tool: dependency
// preconditions, per-kind argument construction, and parsing of the
// structured result document the tool prints.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/qodesmith/dl-yt-playlist/internal/shared"
)

// ErrOutputParse marks a result document that could not be decoded or failed
// shape validation, as opposed to the tool itself exiting non-zero.
var ErrOutputParse = errors.New("unparseable result document")

const defaultVideoFormat = "bestvideo*+bestaudio/best"

const defaultAudioFormat = "mp3"

// Options describes one download invocation.
type Options struct {
	VideoURL  string
	OutputDir string

	// ExtractAudio switches the invocation to audio extraction; AudioFormat
	// then selects the container (default mp3) and requires ffmpeg.
	ExtractAudio bool
	AudioFormat  string

	// VideoFormat is the yt-dlp format selector for video downloads.
	VideoFormat string
}

// RequestedDownload is one secondary output descriptor from the result
// document (the post-processed stream for audio extraction).
type RequestedDownload struct {
	Ext string `json:"ext"`
}

// Result is the parsed result document. The tool prints exactly one JSON
// object per successful invocation.
type Result struct {
	ID                 string              `json:"id"`
	Ext                string              `json:"ext"`
	RequestedDownloads []RequestedDownload `json:"requested_downloads"`
	Loudness           *float64            `json:"loudness"`
}

// FileExtension returns the extension of the artifact that actually landed on
// disk: the first secondary output when present, the container otherwise.
func (r *Result) FileExtension() string {
	if len(r.RequestedDownloads) > 0 && r.RequestedDownloads[0].Ext != "" {
		return r.RequestedDownloads[0].Ext
	}
	return r.Ext
}

// Client invokes the yt-dlp binary.
type Client struct {
	Binary string
	FFmpeg string
}

// NewClient returns a Client bound to the default binary names on PATH.
func NewClient() *Client {
	return &Client{Binary: "yt-dlp", FFmpeg: "ffmpeg"}
}

// CheckDependencies verifies the external binaries exist. ffmpeg is only
// required when audio extraction is requested. This is a precondition check:
// it runs once, before any network or process work, and its failure is fatal.
func (c *Client) CheckDependencies(needFFmpeg bool) error {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return fmt.Errorf("%w: %s is not installed or not on PATH: %v", shared.ErrMissingTool, c.Binary, err)
	}
	if needFFmpeg {
		if _, err := exec.LookPath(c.FFmpeg); err != nil {
			return fmt.Errorf("%w: %s is required for audio extraction and was not found on PATH: %v", shared.ErrMissingTool, c.FFmpeg, err)
		}
	}
	return nil
}

// Download runs the tool once, synchronously, and parses its result document.
// The raw combined output is returned alongside any error so failures can be
// recorded with context.
func (c *Client) Download(ctx context.Context, opts Options) (*Result, []byte, error) {
	if strings.TrimSpace(opts.VideoURL) == "" {
		return nil, nil, fmt.Errorf("video URL is required")
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return nil, nil, fmt.Errorf("output directory is required")
	}

	args := buildArgs(opts)

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, stderr.Bytes(), fmt.Errorf("%s failed: %w: %s", c.Binary, err, strings.TrimSpace(stderr.String()))
	}

	result, err := ParseResult(stdout.Bytes())
	if err != nil {
		return nil, stdout.Bytes(), err
	}
	return result, stdout.Bytes(), nil
}

// ParseResult decodes and validates the tool's single-object result document.
func ParseResult(data []byte) (*Result, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrOutputParse)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputParse, err)
	}
	if result.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrOutputParse)
	}
	if result.Ext == "" {
		return nil, fmt.Errorf("%w: missing file extension", ErrOutputParse)
	}
	return &result, nil
}

func buildArgs(opts Options) []string {
	args := []string{
		"--no-playlist",
		"-J",
		"--no-simulate",
		"-o", filepath.Join(opts.OutputDir, "%(id)s.%(ext)s"),
	}

	if opts.ExtractAudio {
		format := opts.AudioFormat
		if format == "" {
			format = defaultAudioFormat
		}
		args = append(args, "-x", "--audio-format", format, "--audio-quality", "0")
	} else {
		format := opts.VideoFormat
		if format == "" {
			format = defaultVideoFormat
		}
		args = append(args, "-f", format)
	}

	return append(args, opts.VideoURL)
}
