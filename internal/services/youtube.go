package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/qodesmith/dl-yt-playlist/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

const defaultRateLimit = 10.0

// YouTubeClient implements PlaylistAPI against the YouTube Data API.
// All requests go through a shared rate limiter to protect the API quota.
type YouTubeClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// YouTubeClientOptions configures a YouTubeClient.
type YouTubeClientOptions struct {
	// APIKey authenticates requests to public playlists.
	APIKey string
	// TokenSource, when set, takes precedence over APIKey and authenticates
	// via OAuth for private playlists.
	TokenSource oauth2.TokenSource
	// BaseURL defaults to the public Data API endpoint.
	BaseURL string
	// RateLimit is the request budget in requests per second (default 10).
	RateLimit float64
	// HTTPClient defaults to http.DefaultClient. Ignored when TokenSource is
	// set, since the oauth2 transport wraps its own client.
	HTTPClient *http.Client
}

// NewYouTubeClient creates a new Data API client.
func NewYouTubeClient(opts YouTubeClientOptions) (*YouTubeClient, error) {
	if opts.APIKey == "" && opts.TokenSource == nil {
		return nil, shared.ErrMissingAPIKey
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	httpClient := opts.HTTPClient
	if opts.TokenSource != nil {
		httpClient = oauth2.NewClient(context.Background(), opts.TokenSource)
	} else if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &YouTubeClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}, nil
}

// StaticTokenSource wraps a raw OAuth access token for use as a TokenSource.
func StaticTokenSource(accessToken string) oauth2.TokenSource {
	if accessToken == "" {
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
}

func (y *YouTubeClient) doRequest(ctx context.Context, endpoint string, query url.Values, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

	if y.apiKey != "" {
		query.Set("key", y.apiKey)
	}
	apiURL := y.baseURL + endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			if resp.StatusCode == http.StatusNotFound {
				return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, errResp.Error.Message)
			}
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// PlaylistItemsPage fetches one page of up to [MaxPageSize] playlist items.
func (y *YouTubeClient) PlaylistItemsPage(ctx context.Context, playlistID, pageToken string) (*PlaylistItemsPage, error) {
	query := url.Values{}
	query.Set("part", "snippet,contentDetails")
	query.Set("playlistId", playlistID)
	query.Set("maxResults", fmt.Sprintf("%d", MaxPageSize))
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	var page PlaylistItemsPage
	if err := y.doRequest(ctx, "/playlistItems", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// VideoDetails fetches contentDetails for up to [MaxBatchSize] ids in one call.
func (y *YouTubeClient) VideoDetails(ctx context.Context, ids []string) ([]VideoDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d ids exceeds batch maximum %d", shared.ErrInvalidInput, len(ids), MaxBatchSize)
	}

	query := url.Values{}
	query.Set("part", "contentDetails")
	query.Set("id", strings.Join(ids, ","))

	var resp struct {
		Items []VideoDetail `json:"items"`
	}
	if err := y.doRequest(ctx, "/videos", query, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
