package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/camden-git/songjournal/models"
	"github.com/camden-git/songjournal/repository"
)

// CreateEntryInput is the client-supplied data for a new journal entry.
type CreateEntryInput struct {
	Title      string
	ArtistName string
	Content    *string
	Mood       *models.Mood
}

// normalize trims the free-text fields and turns a blank note into no note.
func (in CreateEntryInput) normalize() CreateEntryInput {
	in.Title = strings.TrimSpace(in.Title)
	in.ArtistName = strings.TrimSpace(in.ArtistName)
	if in.Content != nil {
		c := strings.TrimSpace(*in.Content)
		if c == "" {
			in.Content = nil
		} else {
			in.Content = &c
		}
	}
	return in
}

// Validate reports missing fields and an out-of-range mood.
func (in CreateEntryInput) Validate() error {
	verr := &ValidationError{}
	if in.Title == "" {
		verr.add("title", "is required")
	}
	if in.ArtistName == "" {
		verr.add("artistName", "is required")
	}
	switch {
	case in.Mood == nil:
		verr.add("mood", "is required")
	case !in.Mood.Valid():
		verr.add("mood", fmt.Sprintf("must be between %d and %d", models.MoodMin, models.MoodMax))
	}
	if len(verr.Errors) > 0 {
		return verr
	}
	return nil
}

// JournalService orchestrates artist and song normalization around journal entries.
type JournalService struct {
	db      *gorm.DB
	artists repository.ArtistRepositoryInterface
	songs   repository.SongRepositoryInterface
	journal repository.JournalRepositoryInterface
}

// NewJournalService creates a new journal service backed by db.
func NewJournalService(
	db *gorm.DB,
	artists repository.ArtistRepositoryInterface,
	songs repository.SongRepositoryInterface,
	journal repository.JournalRepositoryInterface,
) *JournalService {
	return &JournalService{
		db:      db,
		artists: artists,
		songs:   songs,
		journal: journal,
	}
}

// NewJournalServiceFromDB wires the GORM repositories over db.
func NewJournalServiceFromDB(db *gorm.DB) *JournalService {
	return NewJournalService(
		db,
		repository.NewArtistRepository(db),
		repository.NewSongRepository(db),
		repository.NewJournalRepository(db),
	)
}

// Create validates in, then ensures the artist, ensures the song and inserts
// the entry in a single transaction. The returned entry carries its song and artist.
func (s *JournalService) Create(ctx context.Context, in CreateEntryInput) (*models.JournalEntry, error) {
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var entry *models.JournalEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		artist, err := s.artists.WithTx(tx).Ensure(ctx, in.ArtistName)
		if err != nil {
			return err
		}

		song, err := s.songs.WithTx(tx).Ensure(ctx, in.Title, artist.ID)
		if err != nil {
			return err
		}

		entry, err = s.journal.WithTx(tx).Create(ctx, in.Content, *in.Mood, song.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create journal entry for %q by %q: %w", in.Title, in.ArtistName, err)
	}

	log.Ctx(ctx).Debug().
		Uint("entry_id", entry.ID).
		Uint("song_id", entry.SongID).
		Uint("artist_id", entry.Song.ArtistID).
		Msg("journal entry created")
	return entry, nil
}

// List returns every entry, newest first.
func (s *JournalService) List(ctx context.Context) ([]models.JournalEntry, error) {
	return s.journal.ListAll(ctx)
}

// Delete removes one entry. A missing id yields repository.ErrNotFound.
func (s *JournalService) Delete(ctx context.Context, id uint) error {
	return s.journal.Delete(ctx, id)
}

// ArtistNames returns known artist names for autocomplete.
func (s *JournalService) ArtistNames(ctx context.Context, prefix string) ([]string, error) {
	return s.artists.ListNames(ctx, prefix)
}
