package models

// Song represents a track title owned by an artist using GORM.
// It corresponds to the 'song' table. (title, artist_id) is unique.
type Song struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title    string `gorm:"not null;uniqueIndex:idx_song_title_artist" json:"title"`
	ArtistID uint   `gorm:"not null;uniqueIndex:idx_song_title_artist;index" json:"artistId"`

	Artist Artist `gorm:"foreignKey:ArtistID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"artist"` // Belongs to Artist
}

// TableName explicitly sets the table name for GORM.
func (Song) TableName() string {
	return "song"
}
