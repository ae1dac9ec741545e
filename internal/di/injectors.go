//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"playtrack/internal"
	"playtrack/internal/controllers"
	"playtrack/internal/providers"
	"playtrack/internal/repositories"
	"playtrack/internal/services"
	"playtrack/internal/statistic"
	"playtrack/internal/steam"
	"playtrack/internal/structures"
)

var storageSet = wire.NewSet(
	providers.NewDatabaseProvider,
	repositories.NewItemRepository,
	repositories.NewSnapshotRepository,
	repositories.NewSummaryRepository,
)

var serviceSet = wire.NewSet(
	providers.NewMetricsProvider,
	providers.NewInstrumentedCacheProvider,
	services.NewClock,
	services.NewResultCache,
	wire.Bind(new(services.ResultCacheInterface), new(*services.ResultCache)),
	services.NewDeltaEngine,
	services.NewSummaryService,
	steam.NewClient,
	wire.Bind(new(services.UpstreamClientInterface), new(*steam.Client)),
	services.NewIngestionService,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		storageSet,
		serviceSet,

		services.NewAnalyticsService,
		services.NewItemService,
		services.NewBackupService,
		statistic.NewZstdCompressor,
		statistic.NewFileManager,
		statistic.NewScheduler,
		controllers.NewApiController,
		controllers.NewAdminController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil, nil
}

func InitTools(cfg *structures.CliFlags) (*Tools, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		storageSet,
		serviceSet,

		services.NewSimulator,
		wire.Struct(new(Tools), "*"),
	)

	return nil, nil, nil
}
