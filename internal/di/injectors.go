//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"rpd/internal"
	"rpd/internal/controllers"
	"rpd/internal/providers"
	"rpd/internal/services"
	"rpd/internal/stats"
	"rpd/internal/storage"
	"rpd/internal/structures"
	"rpd/internal/tracking"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewMetricsCacheProvider,

		storage.NewZstdCompressor,
		storage.NewStorageProvider,
		stats.NewStatsStore,
		stats.NewAggregator,
		services.NewTrackingService,
		tracking.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
