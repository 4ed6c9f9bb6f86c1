// Package usecase contains application business logic
package usecase

import (
	"go.uber.org/fx"

	"github.com/kinobot-uz/kinobot/internal/usecase/adminflow"
	"github.com/kinobot-uz/kinobot/internal/usecase/catalog"
	"github.com/kinobot-uz/kinobot/internal/usecase/joinrequest"
	"github.com/kinobot-uz/kinobot/internal/usecase/membership"
	"github.com/kinobot-uz/kinobot/internal/usecase/redemption"
)

// Module provides all use cases for fx dependency injection
var Module = fx.Module("usecase",
	fx.Provide(membership.NewEvaluator),
	fx.Provide(membership.NewCache),
	fx.Provide(joinrequest.NewReconciler),
	fx.Provide(redemption.NewSequencer),
	fx.Provide(catalog.NewService),
	fx.Provide(adminflow.NewStore),
)
