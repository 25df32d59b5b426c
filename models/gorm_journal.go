package models

import "time"

// JournalEntry is one logged listen: a song, a mood score and an optional note.
// It corresponds to the 'journal' table.
type JournalEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Content   *string   `gorm:"type:text" json:"content"` // Nullable
	Mood      Mood      `gorm:"not null;check:chk_journal_mood,mood >= 1 AND mood <= 5" json:"mood"`
	SongID    uint      `gorm:"not null;index" json:"songId"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;default:CURRENT_TIMESTAMP;index" json:"createdAt"`

	// deleting an entry never touches the song it points at
	Song Song `gorm:"foreignKey:SongID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"song"`
}

// TableName explicitly sets the table name for GORM.
func (JournalEntry) TableName() string {
	return "journal"
}
