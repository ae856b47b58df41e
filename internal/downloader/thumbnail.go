package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/qodesmith/dl-yt-playlist/internal/models"
)

// fetchThumbnail walks the record's thumbnail locators highest quality first.
//
// Per priority slot: a 2xx response is written to disk; a 3xx response is
// followed once and the same slot retried at the redirect target; a 4xx
// response advances to the next slot; anything else (5xx, a transport error,
// a second redirect, or a local write failure) terminates the attempt as a
// recorded thumbnailFailure. Exhausting all slots is also a failure. None of
// these outcomes is fatal to the run.
func (s *Scheduler) fetchThumbnail(ctx context.Context, v models.Video) bool {
	for _, candidate := range v.ThumbnailURLs {
		target := candidate
		redirected := false

	slot:
		for {
			resp, err := s.get(ctx, target)
			if err != nil {
				s.thumbnailFailure(v, target, err)
				return false
			}

			switch {
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				body, readErr := io.ReadAll(resp.Body)
				resp.Body.Close()
				if readErr != nil {
					s.thumbnailFailure(v, target, readErr)
					return false
				}
				if err := s.writeThumbnail(v.ID, body); err != nil {
					s.thumbnailFailure(v, target, err)
					return false
				}
				s.collector.CountThumbnail()
				return true

			case resp.StatusCode >= 300 && resp.StatusCode < 400:
				loc, locErr := resp.Location()
				resp.Body.Close()
				if locErr != nil || redirected {
					s.thumbnailFailure(v, target, fmt.Errorf("unusable redirect (status %d)", resp.StatusCode))
					return false
				}
				target = loc.String()
				redirected = true

			case resp.StatusCode >= 400 && resp.StatusCode < 500:
				resp.Body.Close()
				break slot // next candidate

			default:
				resp.Body.Close()
				s.thumbnailFailure(v, target, fmt.Errorf("unexpected status %d", resp.StatusCode))
				return false
			}
		}
	}

	s.thumbnailFailure(v, "", fmt.Errorf("all %d thumbnail candidates failed", len(v.ThumbnailURLs)))
	return false
}

func (s *Scheduler) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return s.http.Do(req)
}

func (s *Scheduler) writeThumbnail(id string, body []byte) error {
	if s.opts.ConvertThumbnails {
		converted, err := normalizeJPEG(body, s.opts.MaxThumbnailSize)
		if err == nil {
			body = converted
		}
		// An undecodable image is written as fetched; the provider
		// occasionally serves formats the decoder doesn't register.
	}

	if err := os.MkdirAll(s.dirs.Thumbnails, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dirs.Thumbnails, id+".jpg"), body, 0o644)
}

func (s *Scheduler) thumbnailFailure(v models.Video, url string, err error) {
	s.collector.Append(models.Failure{
		Kind:    models.FailureThumbnail,
		VideoID: v.ID,
		URL:     url,
		Err:     err,
	})
}
