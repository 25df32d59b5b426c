// Package catalog searches the Spotify Web API for tracks using the
// client-credentials flow.
//
// Response types follow https://developer.spotify.com/documentation/web-api/reference/search
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
	DefaultAPIURL   = "https://api.spotify.com/v1"

	// MaxSearchLimit is the largest page the search endpoint serves.
	MaxSearchLimit = 50
)

// TrackResult is the trimmed-down track shape handed to the UI.
type TrackResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	AlbumArtURL *string `json:"albumArtUrl,omitempty"`
	PreviewURL  *string `json:"previewUrl,omitempty"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
	PreviewURL *string         `json:"preview_url"`
}

type spotifySearchResponse struct {
	Tracks *struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

// Config holds the credentials and endpoints for a SpotifyClient.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIURL       string
	Timeout      time.Duration
	RateLimit    float64 // requests per second
	RateBurst    int
}

// SpotifyClient exchanges client credentials for a bearer token and runs track searches.
// It is safe for concurrent use.
type SpotifyClient struct {
	tokens     oauth2.TokenSource
	httpClient *http.Client
	apiURL     string
	limiter    *rate.Limiter
}

// Option customizes a SpotifyClient.
type Option func(*SpotifyClient)

// WithHTTPClient replaces the HTTP client used for both token and API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *SpotifyClient) {
		s.httpClient = c
	}
}

// NewSpotifyClient validates cfg and builds a client. No network call is made
// until the first token is needed.
func NewSpotifyClient(cfg Config, opts ...Option) (*SpotifyClient, error) {
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, fmt.Errorf("missing catalog client id")
	}
	if strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, fmt.Errorf("missing catalog client secret")
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	s := &SpotifyClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		limiter:    rate.NewLimiter(rate.Inf, 0),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(s)
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// the token source outlives any single request, so it gets a background context
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, s.httpClient)
	s.tokens = cc.TokenSource(tokenCtx)

	return s, nil
}

func (s *SpotifyClient) Name() string {
	return "Spotify"
}

// AccessToken returns a bearer token and its expiry. A cached token is reused
// until shortly before it expires, then a fresh one is requested.
func (s *SpotifyClient) AccessToken(ctx context.Context) (*oauth2.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, &UpstreamError{Op: "token", Err: err}
	}

	token, err := s.tokens.Token()
	if err != nil {
		ue := &UpstreamError{Op: "token", Err: err}
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			ue.StatusCode = re.Response.StatusCode
		}
		return nil, ue
	}
	if token.AccessToken == "" {
		return nil, &UpstreamError{Op: "token", Err: fmt.Errorf("empty access token")}
	}
	return token, nil
}

// SearchTracks queries the catalog and maps up to limit tracks into TrackResult.
// The artist is the first credited artist; tracks with no name or no artist are skipped.
func (s *SpotifyClient) SearchTracks(ctx context.Context, query string, limit int) ([]TrackResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))

	var response spotifySearchResponse
	if err := s.doRequest(ctx, http.MethodGet, "/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}
	if response.Tracks == nil {
		return nil, &UpstreamError{Op: "search", Err: fmt.Errorf("response has no tracks object")}
	}

	results := make([]TrackResult, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		if len(results) == limit {
			break
		}
		if item.Name == "" || len(item.Artists) == 0 || item.Artists[0].Name == "" {
			continue
		}

		track := TrackResult{
			ID:     item.ID,
			Title:  item.Name,
			Artist: item.Artists[0].Name,
		}
		if len(item.Album.Images) > 0 && item.Album.Images[0].URL != "" {
			art := item.Album.Images[0].URL
			track.AlbumArtURL = &art
		}
		if item.PreviewURL != nil && *item.PreviewURL != "" {
			preview := *item.PreviewURL
			track.PreviewURL = &preview
		}
		results = append(results, track)
	}

	return results, nil
}

// doRequest performs an authenticated request against the API base URL and decodes the JSON body.
func (s *SpotifyClient) doRequest(ctx context.Context, method, endpoint string, result interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return &UpstreamError{Op: "search", Err: fmt.Errorf("rate limiter: %w", err)}
	}

	token, err := s.AccessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, s.apiURL+endpoint, nil)
	if err != nil {
		return &UpstreamError{Op: "search", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Op: "search", Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &UpstreamError{
			Op:         "search",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &UpstreamError{Op: "search", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
