package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/camden-git/songjournal/catalog"
	"github.com/camden-git/songjournal/repository"
	"github.com/camden-git/songjournal/services"
)

// APIErrorResponse is the body written for every failed request.
type APIErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("error encoding JSON response")
		}
	}
}

// WriteAPIError writes {"error": detail} with the given HTTP status.
func WriteAPIError(w http.ResponseWriter, httpStatus int, detail string) {
	writeJSON(w, httpStatus, APIErrorResponse{Error: detail})
}

// statusForError maps the error taxonomy onto HTTP status codes.
// Persistence and upstream failures, and anything unrecognised, are 500s.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrBadRequest), errors.Is(err, catalog.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
