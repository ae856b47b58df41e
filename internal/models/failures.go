package models

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// FailureKind categorizes a failure by pipeline stage so callers can tell
// systemic issues (provider unreachable) from per-item ones (one bad
// thumbnail URL).
type FailureKind string

const (
	FailureMetadataFetch FailureKind = "metadataFetch"
	FailureDetailFetch   FailureKind = "detailFetch"
	FailureItemNotFound  FailureKind = "itemNotFound"
	FailureDownloadTool  FailureKind = "downloadToolFailure"
	FailureOutputParse   FailureKind = "outputParseFailure"
	FailureThumbnail     FailureKind = "thumbnailFailure"
	FailurePersistWrite  FailureKind = "persistWriteFailure"
	FailureGeneric       FailureKind = "generic"
)

// Failure is one recorded failure event. Only the fields relevant to the
// stage are set: ids for per-item stages, URL for thumbnail fetches, Output
// for raw tool output.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	VideoID string      `json:"videoId,omitempty"`
	URL     string      `json:"url,omitempty"`
	Output  string      `json:"output,omitempty"`
	Err     error       `json:"-"`
	Message string      `json:"message,omitempty"`
}

func (f Failure) Error() string {
	msg := f.Message
	if msg == "" && f.Err != nil {
		msg = f.Err.Error()
	}
	if f.VideoID != "" {
		return fmt.Sprintf("%s (%s): %s", f.Kind, f.VideoID, msg)
	}
	return fmt.Sprintf("%s: %s", f.Kind, msg)
}

func (f Failure) Unwrap() error { return f.Err }

// DownloadCounts summarizes per-kind successes for a run.
type DownloadCounts struct {
	Audio      int64 `json:"audio"`
	Video      int64 `json:"video"`
	Thumbnails int64 `json:"thumbnails"`
}

// Total returns the sum across kinds.
func (c DownloadCounts) Total() int64 { return c.Audio + c.Video + c.Thumbnails }

// Collector is the single shared mutable value of a sync run: an append-only
// failure list plus success counters, threaded by reference through every
// pipeline stage and read once at the end.
//
// Appends and increments are safe under the wave's bounded parallelism; no
// ordering between collectors of different items is implied.
type Collector struct {
	mu       sync.Mutex
	failures []Failure

	audio      atomic.Int64
	video      atomic.Int64
	thumbnails atomic.Int64
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Append records a failure. Failures are never removed.
func (c *Collector) Append(f Failure) {
	if f.Message == "" && f.Err != nil {
		f.Message = f.Err.Error()
	}
	c.mu.Lock()
	c.failures = append(c.failures, f)
	c.mu.Unlock()
}

// CountAudio records one successful audio download.
func (c *Collector) CountAudio() { c.audio.Add(1) }

// CountVideo records one successful video download.
func (c *Collector) CountVideo() { c.video.Add(1) }

// CountThumbnail records one successfully written thumbnail.
func (c *Collector) CountThumbnail() { c.thumbnails.Add(1) }

// Counts returns the current success counters.
func (c *Collector) Counts() DownloadCounts {
	return DownloadCounts{
		Audio:      c.audio.Load(),
		Video:      c.video.Load(),
		Thumbnails: c.thumbnails.Load(),
	}
}

// Failures returns a copy of all recorded failures in append order.
func (c *Collector) Failures() []Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Failure, len(c.failures))
	copy(out, c.failures)
	return out
}

// Len returns the number of recorded failures.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.failures)
}

// Grouped returns the failures bucketed by kind, append order preserved
// within each bucket.
func (c *Collector) Grouped() map[FailureKind][]Failure {
	grouped := make(map[FailureKind][]Failure)
	for _, f := range c.Failures() {
		grouped[f.Kind] = append(grouped[f.Kind], f)
	}
	return grouped
}
