package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/camden-git/songjournal/models"
	"github.com/camden-git/songjournal/realtime"
	"github.com/camden-git/songjournal/services"
)

const maxBodyBytes = 1 << 20

// JournalService is the subset of services.JournalService the handlers use.
type JournalService interface {
	Create(ctx context.Context, in services.CreateEntryInput) (*models.JournalEntry, error)
	List(ctx context.Context) ([]models.JournalEntry, error)
	Delete(ctx context.Context, id uint) error
	ArtistNames(ctx context.Context, prefix string) ([]string, error)
}

// EventPublisher receives journal change notifications.
type EventPublisher interface {
	Broadcast(event realtime.Event)
}

type JournalHandler struct {
	Service JournalService
	Events  EventPublisher // optional
}

func (jh *JournalHandler) publish(eventType string, id uint) {
	if jh.Events != nil {
		jh.Events.Broadcast(realtime.NewEvent(eventType, id))
	}
}

type createEntryRequest struct {
	Title      string       `json:"title"`
	ArtistName string       `json:"artistName"`
	Artist     string       `json:"artist"` // older clients send the artist under this key
	Content    *string      `json:"content"`
	Mood       *models.Mood `json:"mood"`
}

func (jh *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := jh.Service.List(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("error listing journal entries")
		WriteAPIError(w, statusForError(err), "Failed to retrieve journal entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (jh *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	artistName := req.ArtistName
	if strings.TrimSpace(artistName) == "" {
		artistName = req.Artist
	}

	entry, err := jh.Service.Create(r.Context(), services.CreateEntryInput{
		Title:      req.Title,
		ArtistName: artistName,
		Content:    req.Content,
		Mood:       req.Mood,
	})
	if err != nil {
		status := statusForError(err)
		if status == http.StatusBadRequest {
			WriteAPIError(w, status, err.Error())
			return
		}
		hlog.FromRequest(r).Error().Err(err).Str("title", req.Title).Str("artist", artistName).Msg("error creating journal entry")
		WriteAPIError(w, status, "Failed to save journal entry")
		return
	}

	jh.publish(realtime.EventEntryCreated, entry.ID)
	writeJSON(w, http.StatusCreated, entry)
}

func (jh *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimSpace(r.URL.Query().Get("id"))
	if idStr == "" {
		WriteAPIError(w, http.StatusBadRequest, "Missing required query parameter: id")
		return
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		WriteAPIError(w, http.StatusBadRequest, "Invalid journal entry ID format")
		return
	}

	if err := jh.Service.Delete(r.Context(), uint(id)); err != nil {
		status := statusForError(err)
		if status == http.StatusNotFound {
			WriteAPIError(w, status, "Journal entry not found")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Uint64("entry_id", id).Msg("error deleting journal entry")
		WriteAPIError(w, status, "Failed to delete journal entry")
		return
	}

	jh.publish(realtime.EventEntryDeleted, uint(id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Journal entry deleted"})
}
