package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "tracks": {
    "items": [
      {
        "id": "t1",
        "name": "Idioteque",
        "artists": [{"id": "a1", "name": "Radiohead"}, {"id": "a2", "name": "Someone Else"}],
        "album": {"id": "al1", "name": "Kid A", "images": [{"url": "https://img.test/large.jpg", "height": 640, "width": 640}, {"url": "https://img.test/small.jpg"}]},
        "preview_url": "https://audio.test/t1.mp3"
      },
      {
        "id": "t2",
        "name": "Everything In Its Right Place",
        "artists": [{"id": "a1", "name": "Radiohead"}],
        "album": {"id": "al1", "name": "Kid A", "images": []},
        "preview_url": null
      },
      {
        "id": "t3",
        "name": "",
        "artists": [{"id": "a1", "name": "Radiohead"}],
        "album": {"images": []}
      },
      {
        "id": "t4",
        "name": "Kid A",
        "artists": [],
        "album": {"images": []}
      },
      {
        "id": "t5",
        "name": "The National Anthem",
        "artists": [{"id": "a1", "name": "Radiohead"}],
        "album": {"images": []}
      }
    ]
  }
}`

type fakeSpotify struct {
	server       *httptest.Server
	tokenCalls   atomic.Int32
	searchCalls  atomic.Int32
	lastQuery    atomic.Value
	searchStatus int
	searchBody   string
	tokenStatus  int
	expiresIn    int
}

func newFakeSpotify(t *testing.T) *fakeSpotify {
	t.Helper()

	f := &fakeSpotify{searchStatus: http.StatusOK, searchBody: searchBody, tokenStatus: http.StatusOK, expiresIn: 3600}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)

		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			http.Error(w, `{"error":"unsupported_grant_type"}`, http.StatusBadRequest)
			return
		}
		if f.tokenStatus != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.tokenStatus)
			_, _ = w.Write([]byte(`{"error":"server_error"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":` + strconv.Itoa(f.expiresIn) + `}`))
	})

	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		f.searchCalls.Add(1)
		f.lastQuery.Store(r.URL.Query())

		if r.Header.Get("Authorization") != "Bearer tok-123" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.searchStatus)
		_, _ = w.Write([]byte(f.searchBody))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeSpotify) client(t *testing.T) *SpotifyClient {
	t.Helper()

	c, err := NewSpotifyClient(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		TokenURL:     f.server.URL + "/api/token",
		APIURL:       f.server.URL + "/v1/",
		Timeout:      2 * time.Second,
	}, WithHTTPClient(f.server.Client()))
	require.NoError(t, err)
	return c
}

func TestNewSpotifyClient(t *testing.T) {
	t.Run("Missing Client ID", func(t *testing.T) {
		_, err := NewSpotifyClient(Config{ClientSecret: "s"})
		assert.Error(t, err)
	})

	t.Run("Missing Client Secret", func(t *testing.T) {
		_, err := NewSpotifyClient(Config{ClientID: "c"})
		assert.Error(t, err)
	})

	t.Run("Defaults", func(t *testing.T) {
		c, err := NewSpotifyClient(Config{ClientID: "c", ClientSecret: "s"})
		require.NoError(t, err)
		assert.Equal(t, DefaultAPIURL, c.apiURL)
		assert.Equal(t, "Spotify", c.Name())
	})
}

func TestAccessToken(t *testing.T) {
	t.Run("Basic Auth Exchange", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.client(t)

		token, err := c.AccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-123", token.AccessToken)
		assert.WithinDuration(t, time.Now().Add(time.Hour), token.Expiry, time.Minute)
	})

	t.Run("Reused Until Expiry", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.client(t)

		for i := 0; i < 3; i++ {
			_, err := c.AccessToken(context.Background())
			require.NoError(t, err)
		}
		assert.EqualValues(t, 1, f.tokenCalls.Load())
	})

	t.Run("Refreshed When Near Expiry", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.expiresIn = 1 // inside the refresh window, so never reused
		c := f.client(t)

		_, err := c.AccessToken(context.Background())
		require.NoError(t, err)
		_, err = c.AccessToken(context.Background())
		require.NoError(t, err)
		assert.EqualValues(t, 2, f.tokenCalls.Load())
	})

	t.Run("Rejected Credentials", func(t *testing.T) {
		f := newFakeSpotify(t)
		c, err := NewSpotifyClient(Config{
			ClientID:     "client-id",
			ClientSecret: "wrong",
			TokenURL:     f.server.URL + "/api/token",
			APIURL:       f.server.URL + "/v1",
		}, WithHTTPClient(f.server.Client()))
		require.NoError(t, err)

		_, err = c.AccessToken(context.Background())
		var ue *UpstreamError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, http.StatusUnauthorized, ue.StatusCode)
	})
}

func TestSearchTracks(t *testing.T) {
	ctx := context.Background()

	t.Run("Maps Results", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.client(t)

		tracks, err := c.SearchTracks(ctx, "Kid A", 5)
		require.NoError(t, err)
		require.Len(t, tracks, 3)

		assert.Equal(t, "t1", tracks[0].ID)
		assert.Equal(t, "Idioteque", tracks[0].Title)
		assert.Equal(t, "Radiohead", tracks[0].Artist)
		require.NotNil(t, tracks[0].AlbumArtURL)
		assert.Equal(t, "https://img.test/large.jpg", *tracks[0].AlbumArtURL)
		require.NotNil(t, tracks[0].PreviewURL)
		assert.Equal(t, "https://audio.test/t1.mp3", *tracks[0].PreviewURL)

		assert.Nil(t, tracks[1].AlbumArtURL)
		assert.Nil(t, tracks[1].PreviewURL)
		assert.Equal(t, "t5", tracks[2].ID)

		for _, track := range tracks {
			assert.NotEmpty(t, track.Title)
			assert.NotEmpty(t, track.Artist)
		}
	})

	t.Run("Sends Query Parameters", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.client(t)

		_, err := c.SearchTracks(ctx, "  Kid A  ", 5)
		require.NoError(t, err)

		q := f.lastQuery.Load().(url.Values)
		assert.Equal(t, []string{"Kid A"}, q["q"])
		assert.Equal(t, []string{"track"}, q["type"])
		assert.Equal(t, []string{"5"}, q["limit"])
	})

	t.Run("Limit Caps Results", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.client(t)

		tracks, err := c.SearchTracks(ctx, "Kid A", 1)
		require.NoError(t, err)
		assert.Len(t, tracks, 1)
	})

	t.Run("Limit Clamped", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.client(t)

		_, err := c.SearchTracks(ctx, "Kid A", 500)
		require.NoError(t, err)
		q := f.lastQuery.Load().(url.Values)
		assert.Equal(t, []string{"50"}, q["limit"])
	})

	t.Run("Token Reused Across Searches", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.client(t)

		for i := 0; i < 3; i++ {
			_, err := c.SearchTracks(ctx, "Kid A", 5)
			require.NoError(t, err)
		}
		assert.EqualValues(t, 1, f.tokenCalls.Load())
		assert.EqualValues(t, 3, f.searchCalls.Load())
	})

	t.Run("Empty Query", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.client(t)

		_, err := c.SearchTracks(ctx, "   ", 5)
		assert.ErrorIs(t, err, ErrEmptyQuery)
		assert.EqualValues(t, 0, f.tokenCalls.Load())
	})

	t.Run("Upstream Status", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.searchStatus = http.StatusBadGateway
		f.searchBody = `{"error":"bad gateway"}`
		c := f.client(t)

		_, err := c.SearchTracks(ctx, "Kid A", 5)
		var ue *UpstreamError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, http.StatusBadGateway, ue.StatusCode)
	})

	t.Run("Malformed Payload", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.searchBody = `{"tracks": [`
		c := f.client(t)

		_, err := c.SearchTracks(ctx, "Kid A", 5)
		var ue *UpstreamError
		assert.True(t, errors.As(err, &ue))
	})

	t.Run("Missing Tracks Object", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.searchBody = `{"artists": {"items": []}}`
		c := f.client(t)

		_, err := c.SearchTracks(ctx, "Kid A", 5)
		var ue *UpstreamError
		assert.True(t, errors.As(err, &ue))
	})

	t.Run("Token Failure", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.tokenStatus = http.StatusInternalServerError
		c := f.client(t)

		_, err := c.SearchTracks(ctx, "Kid A", 5)
		var ue *UpstreamError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, "token", ue.Op)
		assert.EqualValues(t, 0, f.searchCalls.Load())
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.client(t)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := c.SearchTracks(cctx, "Kid A", 5)
		var ue *UpstreamError
		assert.True(t, errors.As(err, &ue))
	})
}
