package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"
)

// AssetServer serves files from assets under routePrefix.
// example usage in the router:
//
//	r.Get("/static/*", AssetServer(staticFS, "/static/"))
func AssetServer(assets fs.FS, routePrefix string) http.HandlerFunc {
	fileServer := http.FileServerFS(assets)

	return func(w http.ResponseWriter, r *http.Request) {
		// e.g., for route /static/* and request /static/journal.js, extract "journal.js"
		relativePath := strings.TrimPrefix(r.URL.Path, routePrefix)

		if relativePath == "" || strings.Contains(relativePath, "..") || strings.HasSuffix(relativePath, "/") {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}

		cleaned := path.Clean(relativePath)
		if _, err := fs.Stat(assets, cleaned); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				hlog.FromRequest(r).Error().Err(err).Str("asset", cleaned).Msg("error stating asset")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			http.NotFound(w, r)
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		r2 := r.Clone(r.Context())
		r2.URL.Path = "/" + cleaned
		fileServer.ServeHTTP(w, r2)
	}
}
