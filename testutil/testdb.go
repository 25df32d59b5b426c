// Package testutil holds database fixtures shared by package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/camden-git/songjournal/config"
	"github.com/camden-git/songjournal/database"
)

var (
	dbCounter atomic.Int64
	unsafeRe  = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// NewSQLite returns a migrated in-memory database private to t.
// It runs on a single connection, so callers must not nest queries outside a
// transaction while that transaction is open.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("%s_%d", unsafeRe.ReplaceAllString(t.Name(), "_"), dbCounter.Add(1))
	return open(t, config.DatabaseConfig{
		URL:          "file:" + name + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
}

// NewSQLiteFile returns a migrated on-disk database that allows several
// connections, for tests that exercise concurrent writers.
func NewSQLiteFile(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "journal.db")
	return open(t, config.DatabaseConfig{
		URL:          "file:" + path + "?_busy_timeout=5000&_txlock=immediate",
		MaxOpenConns: 8,
		MaxIdleConns: 8,
	})
}

func open(t testing.TB, cfg config.DatabaseConfig) *gorm.DB {
	t.Helper()

	db, err := database.InitGormDB(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// CountRows returns the number of rows in model's table.
func CountRows(t testing.TB, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
