package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/songjournal/config"
	"github.com/camden-git/songjournal/models"
)

// Dialect names returned by Dialector.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// gormWriter forwards GORM's printf-style logger into zerolog.
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Debug().Msgf(strings.TrimSpace(format), args...)
}

// Dialector picks the GORM driver for a connection string.
// postgres:// and postgresql:// select PostgreSQL; sqlite://, file: and bare paths select SQLite.
func Dialector(dsn string) (gorm.Dialector, string, error) {
	dsn = strings.TrimSpace(dsn)
	lower := strings.ToLower(dsn)

	switch {
	case dsn == "":
		return nil, "", fmt.Errorf("empty database connection string")
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return postgres.Open(dsn), DialectPostgres, nil
	case strings.HasPrefix(lower, "sqlite://"):
		return sqlite.Open(sqliteDSN(dsn[len("sqlite://"):])), DialectSQLite, nil
	case strings.HasPrefix(lower, "file:"), strings.HasSuffix(lower, ".db"), strings.Contains(lower, ".db?"):
		return sqlite.Open(sqliteDSN(dsn)), DialectSQLite, nil
	default:
		return nil, "", fmt.Errorf("unsupported database connection string scheme in %q", redact(dsn))
	}
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off by default.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// redact hides the password portion of a URL-style DSN for log output.
func redact(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		return dsn[:scheme+3] + creds[:colon] + ":*****" + dsn[at:]
	}
	return dsn
}

// InitGormDB opens the process-wide GORM handle and sizes its pool.
// The returned handle is shared by every request and closed by Close on shutdown.
func InitGormDB(cfg config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	dialector, dialect, err := Dialector(cfg.URL)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		gormWriter{log: log.With().Str("component", "gorm").Logger()},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	if log.GetLevel() <= zerolog.DebugLevel {
		gormLogger = gormLogger.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if dialect == DialectSQLite {
		// enable write-ahead logging for better concurrency
		if err := db.Exec("PRAGMA journal_mode=WAL;").Error; err != nil {
			log.Warn().Err(err).Msg("failed to set WAL mode")
		}
	}

	log.Info().Str("dialect", dialect).Str("dsn", redact(cfg.URL)).Msg("GORM database initialized")
	return db, nil
}

// AutoMigrateModels creates or updates the artist, song and journal tables.
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Artist{},
		&models.Song{},
		&models.JournalEntry{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	return nil
}

// Ping checks that the database answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}
	return sqlDB.Close()
}
