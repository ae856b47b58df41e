// package formatter renders run results and record sets to text, tabular
// and JSON outputs for the CLI surface.
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/qodesmith/dl-yt-playlist/internal/models"
	"github.com/qodesmith/dl-yt-playlist/internal/tasks"
)

// SummaryToText renders a human-readable run summary, grouping recorded
// failures by kind.
func SummaryToText(result *tasks.SyncResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Run %s, playlist %s\n\n", result.RunID, result.PlaylistID)

	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "API calls:\t%d\n", result.FetchCalls)
	fmt.Fprintf(w, "Items fetched:\t%d\n", result.ItemsFetched)
	fmt.Fprintf(w, "Records updated:\t%d\n", result.UpdateCount)
	fmt.Fprintf(w, "Metadata written:\t%t\n", result.Persisted)
	fmt.Fprintf(w, "Audio downloads:\t%d\n", result.Counts.Audio)
	fmt.Fprintf(w, "Video downloads:\t%d\n", result.Counts.Video)
	fmt.Fprintf(w, "Thumbnails saved:\t%d\n", result.Counts.Thumbnails)

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render summary table: %w", err)
	}

	if result.FailureTotal == 0 {
		buf.WriteString("\nNo failures recorded.\n")
		return buf.Bytes(), nil
	}

	fmt.Fprintf(&buf, "\nFailures (%d):\n", result.FailureTotal)

	kinds := make([]string, 0, len(result.Failures))
	for kind := range result.Failures {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		failures := result.Failures[models.FailureKind(kind)]
		fmt.Fprintf(&buf, "\n  %s (%d)\n", kind, len(failures))

		for _, failure := range failures {
			line := "    -"
			if failure.VideoID != "" {
				line += " " + failure.VideoID
			}
			if failure.Message != "" {
				line += " " + failure.Message
			}
			buf.WriteString(line + "\n")
		}
	}

	return buf.Bytes(), nil
}

// SummaryToJSON renders a run summary as indented JSON.
func SummaryToJSON(result *tasks.SyncResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	return append(data, '\n'), nil
}

// VideosToText renders the record set as a table, one row per video.
func VideosToText(videos []models.Video) ([]byte, error) {
	var buf bytes.Buffer

	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tADDED\tAVAILABLE\tAUDIO\tVIDEO\tTITLE")

	for _, video := range videos {
		audio := "-"
		if video.AudioFileExtension != nil {
			audio = *video.AudioFileExtension
		}

		videoExt := "-"
		if video.VideoFileExtension != nil {
			videoExt = *video.VideoFileExtension
		}

		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\t%s\n",
			video.ID,
			video.DateAddedToPlaylist.Format("2006-01-02"),
			!video.IsUnavailable,
			audio,
			videoExt,
			video.Title,
		)
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render record table: %w", err)
	}

	fmt.Fprintf(&buf, "\n%d records\n", len(videos))

	return buf.Bytes(), nil
}

// VideosToJSON renders the record set as indented JSON, matching the
// on-disk metadata document.
func VideosToJSON(videos []models.Video) ([]byte, error) {
	data, err := json.MarshalIndent(videos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}

	return append(data, '\n'), nil
}
