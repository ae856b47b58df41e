package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/qodesmith/dl-yt-playlist/internal/shared"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *YouTubeClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewYouTubeClient(YouTubeClientOptions{
		APIKey:    "test-key",
		BaseURL:   server.URL,
		RateLimit: 1000,
	})
	if err != nil {
		t.Fatalf("NewYouTubeClient returned error: %v", err)
	}
	return client
}

func TestNewYouTubeClient(t *testing.T) {
	t.Run("requires credentials", func(t *testing.T) {
		if _, err := NewYouTubeClient(YouTubeClientOptions{}); !errors.Is(err, shared.ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey, got %v", err)
		}
	})

	t.Run("token source suffices", func(t *testing.T) {
		if _, err := NewYouTubeClient(YouTubeClientOptions{TokenSource: StaticTokenSource("tok")}); err != nil {
			t.Errorf("expected token source to satisfy auth, got %v", err)
		}
	})

	t.Run("empty access token yields no source", func(t *testing.T) {
		if StaticTokenSource("") != nil {
			t.Error("empty token should produce a nil TokenSource")
		}
	})
}

func TestPlaylistItemsPage(t *testing.T) {
	t.Run("sends key and pagination params", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlistItems" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("key") != "test-key" {
				t.Error("api key not sent")
			}
			if q.Get("playlistId") != "pl123" || q.Get("pageToken") != "tok1" {
				t.Errorf("unexpected query: %v", q)
			}
			if q.Get("maxResults") != fmt.Sprintf("%d", MaxPageSize) {
				t.Errorf("unexpected maxResults: %s", q.Get("maxResults"))
			}

			fmt.Fprint(w, `{
				"items": [{"snippet": {"title": "One", "publishedAt": "2024-06-01T00:00:00Z", "resourceId": {"videoId": "v1"}}}],
				"nextPageToken": "tok2",
				"pageInfo": {"totalResults": 120}
			}`)
		})

		page, err := client.PlaylistItemsPage(context.Background(), "pl123", "tok1")
		if err != nil {
			t.Fatalf("PlaylistItemsPage returned error: %v", err)
		}
		if len(page.Items) != 1 || page.Items[0].Snippet.ResourceID.VideoID != "v1" {
			t.Errorf("unexpected items: %+v", page.Items)
		}
		if page.NextPageToken != "tok2" || page.PageInfo.TotalResults != 120 {
			t.Errorf("pagination metadata lost: %+v", page)
		}
	})

	t.Run("404 maps to playlist not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error": {"message": "The playlist identified with the request cannot be found."}}`)
		})

		_, err := client.PlaylistItemsPage(context.Background(), "nope", "")
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("server errors wrap ErrAPIRequest", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.PlaylistItemsPage(context.Background(), "pl", "")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestVideoDetails(t *testing.T) {
	t.Run("joins ids and decodes durations", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/videos" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("id"); got != "a,b" {
				t.Errorf("unexpected id param: %s", got)
			}
			fmt.Fprint(w, `{"items": [
				{"id": "a", "contentDetails": {"duration": "PT3M"}},
				{"id": "b", "contentDetails": {"duration": "PT10S"}}
			]}`)
		})

		details, err := client.VideoDetails(context.Background(), []string{"a", "b"})
		if err != nil {
			t.Fatalf("VideoDetails returned error: %v", err)
		}
		if len(details) != 2 || details[0].ContentDetails.Duration != "PT3M" {
			t.Errorf("unexpected details: %+v", details)
		}
	})

	t.Run("empty batch short-circuits", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected for empty batch")
		})

		details, err := client.VideoDetails(context.Background(), nil)
		if err != nil || details != nil {
			t.Errorf("expected nil, nil; got %v, %v", details, err)
		}
	})

	t.Run("oversized batch rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

		ids := make([]string, MaxBatchSize+1)
		for i := range ids {
			ids[i] = fmt.Sprintf("v%d", i)
		}

		if _, err := client.VideoDetails(context.Background(), ids); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
