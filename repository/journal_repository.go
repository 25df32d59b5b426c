package repository

import (
	"context"
	"fmt"

	"github.com/camden-git/songjournal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JournalRepository handles database operations for JournalEntry entities
type JournalRepository struct {
	DB *gorm.DB
}

// NewJournalRepository creates a new instance of JournalRepository
func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{DB: db}
}

// WithTx returns a copy bound to tx.
func (r *JournalRepository) WithTx(tx *gorm.DB) JournalRepositoryInterface {
	return &JournalRepository{DB: tx}
}

// Create inserts a journal entry and returns it with Song and Song.Artist loaded.
func (r *JournalRepository) Create(ctx context.Context, content *string, mood models.Mood, songID uint) (*models.JournalEntry, error) {
	entry := models.JournalEntry{
		Content: content,
		Mood:    mood,
		SongID:  songID,
	}

	err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(&entry).Error
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("create journal entry (song %d)", songID), Err: err}
	}

	created, err := r.GetByID(ctx, entry.ID)
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("reload journal entry %d", entry.ID), Err: err}
	}
	return created, nil
}

// GetByID retrieves a journal entry by its ID, preloading Song and Artist
func (r *JournalRepository) GetByID(ctx context.Context, id uint) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := r.DB.WithContext(ctx).Preload("Song.Artist").First(&entry, id).Error
	if err != nil {
		return nil, wrapError(err, "get journal entry", fmt.Sprint(id))
	}
	return &entry, nil
}

// ListAll retrieves every journal entry, newest first, preloading Song and Artist
func (r *JournalRepository) ListAll(ctx context.Context) ([]models.JournalEntry, error) {
	entries := []models.JournalEntry{}
	err := r.DB.WithContext(ctx).
		Preload("Song.Artist").
		Order("created_at DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, wrapError(err, "list journal entries", "")
	}
	return entries, nil
}

// Delete removes a journal entry by its ID. The song and artist it references are left in place.
func (r *JournalRepository) Delete(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&models.JournalEntry{}, id)
	if result.Error != nil {
		return wrapError(result.Error, "delete journal entry", fmt.Sprint(id))
	}
	if result.RowsAffected == 0 {
		return wrapError(gorm.ErrRecordNotFound, "delete journal entry", fmt.Sprint(id))
	}
	return nil
}
