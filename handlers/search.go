package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/camden-git/songjournal/catalog"
)

// SearchLimit is the number of catalog matches offered to the UI.
const SearchLimit = 5

// TrackSearcher looks tracks up in an external catalog.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]catalog.TrackResult, error)
}

type SearchHandler struct {
	Catalog TrackSearcher
}

func (sh *SearchHandler) SearchTracks(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteAPIError(w, http.StatusBadRequest, "Missing required query parameter: q")
		return
	}

	tracks, err := sh.Catalog.SearchTracks(r.Context(), query, SearchLimit)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusBadRequest {
			WriteAPIError(w, status, err.Error())
			return
		}
		hlog.FromRequest(r).Error().Err(err).Str("query", query).Msg("error searching catalog")
		WriteAPIError(w, status, "Failed to reach the music catalog")
		return
	}
	if tracks == nil {
		tracks = []catalog.TrackResult{}
	}

	writeJSON(w, http.StatusOK, tracks)
}
