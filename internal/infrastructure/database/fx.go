package database

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/kinobot-uz/kinobot/config"
)

// Module provides the database for fx dependency injection
var Module = fx.Module("database",
	fx.Provide(NewSQLiteDBWithLifecycle),
)

// NewSQLiteDBWithLifecycle opens the database and registers a close hook
func NewSQLiteDBWithLifecycle(
	lc fx.Lifecycle,
	cfg *config.DatabaseConfig,
	logger zerolog.Logger,
) (*gorm.DB, error) {
	db, err := NewSQLiteDB(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				logger.Error().Err(err).Msg("Failed to get underlying sql.DB")
				return err
			}
			logger.Info().Msg("Closing database connection")
			return sqlDB.Close()
		},
	})

	logger.Info().Str("file", cfg.File).Msg("Database opened")

	return db, nil
}
