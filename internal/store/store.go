// Package store persists the canonical record set as a single JSON document.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qodesmith/dl-yt-playlist/internal/models"
	"github.com/qodesmith/dl-yt-playlist/internal/shared"
)

// MetadataFile is the record-set filename inside the target directory.
const MetadataFile = "metadata.json"

// Path returns the record-set path for a target directory.
func Path(dir string) string {
	return filepath.Join(dir, MetadataFile)
}

// Load reads the persisted record set. A missing file is an empty set, not an
// error; an unreadable or corrupt file is an error, because overwriting it
// would destroy history.
func Load(path string) ([]models.Video, error) {
	var videos []models.Video
	if err := shared.ReadJSON(path, &videos); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Video{}, nil
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrCorruptState, err)
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return videos, nil
}

// Save overwrites the record set wholesale, atomically. Callers skip the call
// entirely when nothing changed.
func Save(path string, videos []models.Video) error {
	return shared.WriteJSON(path, videos)
}

// FileStore binds Load and Save to a fixed path.
type FileStore struct {
	Path string
}

func (s FileStore) Load() ([]models.Video, error) {
	return Load(s.Path)
}

func (s FileStore) Save(videos []models.Video) error {
	return Save(s.Path, videos)
}
