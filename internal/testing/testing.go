// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/qodesmith/dl-yt-playlist/internal/services"
)

// MockPlaylistAPI is a test double for [services.PlaylistAPI]. Pages are keyed
// by page token, with "" as the first page.
type MockPlaylistAPI struct {
	Pages      map[string]*services.PlaylistItemsPage
	PageErr    map[string]error
	Details    []services.VideoDetail
	DetailsErr error
	PageCalls  int
	IDBatches  [][]string
}

func (m *MockPlaylistAPI) PlaylistItemsPage(ctx context.Context, playlistID, pageToken string) (*services.PlaylistItemsPage, error) {
	m.PageCalls++
	if err := m.PageErr[pageToken]; err != nil {
		return nil, err
	}
	page, ok := m.Pages[pageToken]
	if !ok {
		return &services.PlaylistItemsPage{}, nil
	}
	return page, nil
}

func (m *MockPlaylistAPI) VideoDetails(ctx context.Context, ids []string) ([]services.VideoDetail, error) {
	m.IDBatches = append(m.IDBatches, ids)
	if m.DetailsErr != nil {
		return nil, m.DetailsErr
	}

	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}

	var out []services.VideoDetail
	for _, detail := range m.Details {
		if requested[detail.ID] {
			out = append(out, detail)
		}
	}
	return out, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
