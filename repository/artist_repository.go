package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/camden-git/songjournal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORM rewrites '?' into the active dialect's bind variables, so one builder
// serves both SQLite and PostgreSQL.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ArtistRepository handles database operations for Artist entities
type ArtistRepository struct {
	DB *gorm.DB
}

// NewArtistRepository creates a new instance of ArtistRepository
func NewArtistRepository(db *gorm.DB) *ArtistRepository {
	return &ArtistRepository{DB: db}
}

// WithTx returns a copy bound to tx.
func (r *ArtistRepository) WithTx(tx *gorm.DB) ArtistRepositoryInterface {
	return &ArtistRepository{DB: tx}
}

// Ensure returns the artist called name, inserting it first if absent.
// The insert is ON CONFLICT DO NOTHING against the unique name index, so
// concurrent callers with the same name converge on one row.
func (r *ArtistRepository) Ensure(ctx context.Context, name string) (*models.Artist, error) {
	db := r.DB.WithContext(ctx)

	artist := models.Artist{Name: name}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&artist)
	if result.Error != nil {
		return nil, &PersistenceError{Op: "ensure artist (" + name + ")", Err: result.Error}
	}
	if result.RowsAffected == 1 && artist.ID != 0 {
		return &artist, nil
	}

	// lost the race or the row already existed; read the winner
	var existing models.Artist
	if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, &PersistenceError{Op: "ensure artist (" + name + ")", Err: err}
	}
	return &existing, nil
}

// ListNames returns every artist name in ascending order. A non-empty prefix
// restricts the result to names starting with it, ignoring case.
func (r *ArtistRepository) ListNames(ctx context.Context, prefix string) ([]string, error) {
	queryBuilder := psql.Select("name").
		From(models.Artist{}.TableName()).
		OrderBy("name ASC")

	if prefix = strings.TrimSpace(prefix); prefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(prefix)) + "%"
		queryBuilder = queryBuilder.Where(sq.Expr(`LOWER(name) LIKE ? ESCAPE '\'`, pattern))
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, wrapError(err, "build artist name query", prefix)
	}

	names := []string{}
	if err := r.DB.WithContext(ctx).Raw(sqlStr, args...).Scan(&names).Error; err != nil {
		return nil, wrapError(err, "list artist names", prefix)
	}
	return names, nil
}
