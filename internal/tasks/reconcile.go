package tasks

import "github.com/qodesmith/dl-yt-playlist/internal/models"

// Reconcile merges freshly fetched videos into the persisted record set and
// reports how many records changed. Records absent from the fresh fetch are
// retained untouched, so the merged set only ever grows.
//
// Per-record rules:
//   - unknown id: insert the fresh record
//   - persisted unavailable, fresh available: replace wholesale (recovery)
//   - persisted available, fresh unavailable: flip the flag, keep all
//     previously captured fields
//   - both available: adopt fresh file extensions, duration and loudness
//     when they differ; never touch identity or history fields
//   - both unavailable: no change
func Reconcile(fresh, persisted []models.Video) ([]models.Video, int) {
	merged := make([]models.Video, len(persisted))
	copy(merged, persisted)

	index := make(map[string]int, len(merged))

	for i, video := range merged {
		index[video.ID] = i
	}

	updates := 0

	for _, incoming := range fresh {
		i, ok := index[incoming.ID]
		if !ok {
			merged = append(merged, incoming)
			index[incoming.ID] = len(merged) - 1
			updates++

			continue
		}

		existing := &merged[i]

		switch {
		case existing.IsUnavailable && !incoming.IsUnavailable:
			merged[i] = incoming
			updates++
		case !existing.IsUnavailable && incoming.IsUnavailable:
			existing.IsUnavailable = true
			updates++
		case existing.IsUnavailable && incoming.IsUnavailable:
			// Keep the historical record as captured.
		default:
			if adoptMutable(existing, incoming) {
				updates++
			}
		}
	}

	models.SortVideos(merged)

	return merged, updates
}

// adoptMutable copies the re-derivable fields from src onto dst and reports
// whether anything actually changed.
func adoptMutable(dst *models.Video, src models.Video) bool {
	changed := false

	if src.AudioFileExtension != nil && !equalStringPtr(dst.AudioFileExtension, src.AudioFileExtension) {
		dst.AudioFileExtension = src.AudioFileExtension
		changed = true
	}

	if src.VideoFileExtension != nil && !equalStringPtr(dst.VideoFileExtension, src.VideoFileExtension) {
		dst.VideoFileExtension = src.VideoFileExtension
		changed = true
	}

	if src.DurationInSeconds != nil && !equalFloatPtr(dst.DurationInSeconds, src.DurationInSeconds) {
		dst.DurationInSeconds = src.DurationInSeconds
		changed = true
	}

	if src.LUFS != nil && !equalFloatPtr(dst.LUFS, src.LUFS) {
		dst.LUFS = src.LUFS
		changed = true
	}

	return changed
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

func equalFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
