// Package database contains SQLite database infrastructure
package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kinobot-uz/kinobot/config"
	"github.com/kinobot-uz/kinobot/internal/domain"
)

// NewSQLiteDB opens the SQLite database file and runs migrations.
// AutoMigrate is additive: an older file missing a column (e.g.
// movies.downloads) is healed in place without data loss.
func NewSQLiteDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.File), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", cfg.File, err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}

// Migrate applies the additive schema migration for all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.MonitoredGroup{},
		&domain.MonitoredJoinChannel{},
		&domain.PendingJoinRequest{},
		&domain.Movie{},
		&domain.Setting{},
	)
}
