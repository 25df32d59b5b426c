package repository

import (
	"context"
	"fmt"

	"github.com/camden-git/songjournal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SongRepository handles database operations for Song entities
type SongRepository struct {
	DB *gorm.DB
}

// NewSongRepository creates a new instance of SongRepository
func NewSongRepository(db *gorm.DB) *SongRepository {
	return &SongRepository{DB: db}
}

// WithTx returns a copy bound to tx.
func (r *SongRepository) WithTx(tx *gorm.DB) SongRepositoryInterface {
	return &SongRepository{DB: tx}
}

// Ensure returns the song keyed by (title, artistID), inserting it if absent.
// An existing row is returned unchanged.
func (r *SongRepository) Ensure(ctx context.Context, title string, artistID uint) (*models.Song, error) {
	db := r.DB.WithContext(ctx)
	op := fmt.Sprintf("ensure song (%s, artist %d)", title, artistID)

	song := models.Song{Title: title, ArtistID: artistID}
	result := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title"}, {Name: "artist_id"}},
		DoNothing: true,
	}).Create(&song)
	if result.Error != nil {
		return nil, &PersistenceError{Op: op, Err: result.Error}
	}
	if result.RowsAffected == 1 && song.ID != 0 {
		return &song, nil
	}

	var existing models.Song
	if err := db.Where("title = ? AND artist_id = ?", title, artistID).First(&existing).Error; err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}
	return &existing, nil
}
