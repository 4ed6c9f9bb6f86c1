package sqlite

import "go.uber.org/fx"

// Module provides all repositories for fx dependency injection
var Module = fx.Module("repository",
	fx.Provide(NewUserRepository),
	fx.Provide(NewGroupRepository),
	fx.Provide(NewJoinChannelRepository),
	fx.Provide(NewPendingRequestRepository),
	fx.Provide(NewMovieRepository),
	fx.Provide(NewSettingsRepository),
)
