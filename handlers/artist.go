package handlers

import (
	"net/http"

	"github.com/rs/zerolog/hlog"
)

type artistName struct {
	Name string `json:"name"`
}

type ArtistHandler struct {
	Service JournalService
}

// ListArtists serves known artist names for autocomplete. ?q= narrows the list by prefix.
// Failures still answer with an empty array so the form keeps working.
func (ah *ArtistHandler) ListArtists(w http.ResponseWriter, r *http.Request) {
	names, err := ah.Service.ArtistNames(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("error listing artists")
		writeJSON(w, http.StatusInternalServerError, []artistName{})
		return
	}

	out := make([]artistName, 0, len(names))
	for _, n := range names {
		out = append(out, artistName{Name: n})
	}
	writeJSON(w, http.StatusOK, out)
}
