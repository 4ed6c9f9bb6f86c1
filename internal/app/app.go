// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/kinobot-uz/kinobot/config"
	delivery "github.com/kinobot-uz/kinobot/internal/delivery/telegram"
	"github.com/kinobot-uz/kinobot/internal/infrastructure"
	"github.com/kinobot-uz/kinobot/internal/repository/sqlite"
	"github.com/kinobot-uz/kinobot/internal/usecase"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, database, telegram bot)
		infrastructure.Module,

		// Repositories
		sqlite.Module,

		// Use cases
		usecase.Module,

		// Delivery (update handlers, keyboards, file sending)
		delivery.Module,
	)
}
