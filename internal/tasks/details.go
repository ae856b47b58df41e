package tasks

import (
	"context"

	"github.com/qodesmith/dl-yt-playlist/internal/models"
	"github.com/qodesmith/dl-yt-playlist/internal/services"
	"github.com/qodesmith/dl-yt-playlist/internal/shared"
)

// FetchDetails enriches normalized playlist items with per-video detail
// data (duration). Unavailable items carry no detail record upstream and
// are completed with an unknown duration directly.
//
// Detail requests are batched and issued in concurrency-bounded waves.
// A failed batch records one failure per requested id; ids missing from
// an otherwise successful response are recorded individually. Failures
// never abort the run: the affected videos keep an unknown duration.
func FetchDetails(ctx context.Context, api services.PlaylistAPI, partials []models.PartialVideo, limit int, collector *models.Collector) []models.Video {
	var ids []string

	for _, partial := range partials {
		if !partial.IsUnavailable {
			ids = append(ids, partial.ID)
		}
	}

	chunks := chunkIDs(ids, services.MaxBatchSize)
	results := make([][]services.VideoDetail, len(chunks))

	_ = shared.InWaves(ctx, len(chunks), limit, func(ctx context.Context, i int) error {
		details, err := api.VideoDetails(ctx, chunks[i])
		if err != nil {
			for _, id := range chunks[i] {
				collector.Append(models.Failure{
					Kind:    models.FailureDetailFetch,
					VideoID: id,
					Err:     err,
				})
			}

			return nil
		}

		results[i] = details

		return nil
	})

	requested := make(map[string]bool, len(ids))

	for _, id := range ids {
		requested[id] = true
	}

	durations := make(map[string]*float64, len(ids))

	for _, batch := range results {
		for _, detail := range batch {
			if !requested[detail.ID] {
				collector.Append(models.Failure{
					Kind:    models.FailureItemNotFound,
					VideoID: detail.ID,
					Message: "detail response for unknown video id",
				})

				continue
			}

			duration, err := models.ParseISODuration(detail.ContentDetails.Duration)
			if err != nil {
				collector.Append(models.Failure{
					Kind:    models.FailureDetailFetch,
					VideoID: detail.ID,
					Err:     err,
				})

				continue
			}

			durations[detail.ID] = duration
		}
	}

	videos := make([]models.Video, 0, len(partials))

	for _, partial := range partials {
		videos = append(videos, partial.Complete(durations[partial.ID]))
	}

	return videos
}

func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 {
		size = services.MaxBatchSize
	}

	var chunks [][]string

	for len(ids) > 0 {
		n := min(size, len(ids))
		chunks = append(chunks, ids[:n])
		ids = ids[n:]
	}

	return chunks
}
