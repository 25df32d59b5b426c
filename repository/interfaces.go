package repository

import (
	"context"

	"github.com/camden-git/songjournal/models"
	"gorm.io/gorm"
)

// ArtistRepositoryInterface defines the methods for artist data operations
type ArtistRepositoryInterface interface {
	WithTx(tx *gorm.DB) ArtistRepositoryInterface
	Ensure(ctx context.Context, name string) (*models.Artist, error)
	ListNames(ctx context.Context, prefix string) ([]string, error)
}

// SongRepositoryInterface defines the methods for song data operations
type SongRepositoryInterface interface {
	WithTx(tx *gorm.DB) SongRepositoryInterface
	Ensure(ctx context.Context, title string, artistID uint) (*models.Song, error)
}

// JournalRepositoryInterface defines the methods for journal entry data operations
type JournalRepositoryInterface interface {
	WithTx(tx *gorm.DB) JournalRepositoryInterface
	Create(ctx context.Context, content *string, mood models.Mood, songID uint) (*models.JournalEntry, error)
	GetByID(ctx context.Context, id uint) (*models.JournalEntry, error)
	ListAll(ctx context.Context) ([]models.JournalEntry, error)
	Delete(ctx context.Context, id uint) error
}

var (
	_ ArtistRepositoryInterface  = (*ArtistRepository)(nil)
	_ SongRepositoryInterface    = (*SongRepository)(nil)
	_ JournalRepositoryInterface = (*JournalRepository)(nil)
)
