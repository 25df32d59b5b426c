package models

// Artist represents a performer referenced by one or more songs using GORM.
// It corresponds to the 'artist' table.
type Artist struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null;uniqueIndex:idx_artist_name" json:"name"` // case-sensitive, exact match
}

// TableName explicitly sets the table name for GORM.
func (Artist) TableName() string {
	return "artist"
}
