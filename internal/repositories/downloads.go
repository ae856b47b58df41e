package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/qodesmith/dl-yt-playlist/internal/models"
)

// DownloadRecord is one downloaded artifact of a video.
type DownloadRecord struct {
	VideoID      string
	Kind         models.DownloadKind
	Extension    string
	RunID        string
	DownloadedAt time.Time
}

// DownloadRepository reads and writes download history.
type DownloadRepository struct {
	db *sql.DB
}

func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Record upserts one history row. Re-downloading the same video and kind
// replaces the previous row.
func (r *DownloadRepository) Record(ctx context.Context, rec DownloadRecord) error {
	query := `
		INSERT OR REPLACE INTO downloads (video_id, kind, extension, run_id, downloaded_at)
		VALUES (?, ?, ?, ?, ?)
	`

	downloadedAt := rec.DownloadedAt
	if downloadedAt.IsZero() {
		downloadedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		rec.VideoID, string(rec.Kind), rec.Extension, rec.RunID, downloadedAt,
	)

	return err
}

// Has reports whether a video already has a history row for the given kind.
func (r *DownloadRepository) Has(ctx context.Context, videoID string, kind models.DownloadKind) (bool, error) {
	query := `SELECT COUNT(1) FROM downloads WHERE video_id = ? AND kind = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, videoID, string(kind)).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

// Summary returns per-kind history totals.
func (r *DownloadRepository) Summary(ctx context.Context) (map[models.DownloadKind]int, error) {
	query := `SELECT kind, COUNT(1) FROM downloads GROUP BY kind`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := make(map[models.DownloadKind]int)

	for rows.Next() {
		var (
			kind  string
			count int
		)

		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}

		summary[models.DownloadKind(kind)] = count
	}

	return summary, rows.Err()
}

// ListByRun returns the history rows recorded under one run id, newest first.
func (r *DownloadRepository) ListByRun(ctx context.Context, runID string) ([]DownloadRecord, error) {
	query := `
		SELECT video_id, kind, extension, run_id, downloaded_at
		FROM downloads
		WHERE run_id = ?
		ORDER BY downloaded_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DownloadRecord

	for rows.Next() {
		var (
			rec  DownloadRecord
			kind string
		)

		if err := rows.Scan(&rec.VideoID, &kind, &rec.Extension, &rec.RunID, &rec.DownloadedAt); err != nil {
			return nil, err
		}

		rec.Kind = models.DownloadKind(kind)
		records = append(records, rec)
	}

	return records, rows.Err()
}
