//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"warden/internal"
	"warden/internal/audit"
	"warden/internal/bot"
	"warden/internal/clock"
	"warden/internal/commands"
	"warden/internal/controllers"
	"warden/internal/mutes"
	"warden/internal/notify"
	"warden/internal/platform"
	"warden/internal/presence"
	"warden/internal/providers"
	"warden/internal/scheduler"
	"warden/internal/store"
	"warden/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewInstrumentedMessageCache,
		providers.NewMetricsProvider,

		clock.System,
		platform.NewRestClient,
		wire.Bind(new(platform.Client), new(*platform.RestClient)),

		store.NewZstdCompressor,
		store.NewFileManager,
		store.NewStore,
		wire.Bind(new(providers.StatsSource), new(*store.Store)),

		notify.NewNotifier,
		audit.NewResolver,
		audit.NewReconciler,
		mutes.NewManager,
		commands.NewDispatcher,
		bot.NewBot,
		presence.NewTracker,
		scheduler.NewScheduler,

		controllers.NewApiController,
		controllers.NewReadinessSource,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
