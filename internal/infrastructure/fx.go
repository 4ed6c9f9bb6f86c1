// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/kinobot-uz/kinobot/internal/infrastructure/database"
	"github.com/kinobot-uz/kinobot/internal/infrastructure/logger"
	"github.com/kinobot-uz/kinobot/internal/infrastructure/telegram"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module,
	telegram.Module,
)
