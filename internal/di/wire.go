//go:build wireinject
// +build wireinject

package di

import (
	"EquiScreen/pkg/config"
	"EquiScreen/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideRedisCache,
		ProvideMarketDataClient,

		// Repositories
		ProvidePriceStore,
		ProvideFilterCache,
		ProvideRunPublisher,

		// Use cases
		ProvideFilterConfig,
		ProvideHistoryUseCase,
		ProvideFilterPipeline,
		ProvideSymbolsUseCase,
		ProvidePerformanceUseCase,
		ProvideRetrieveUseCase,

		// HTTP and background workers
		ProvideScreenerHandler,
		ProvideRefreshJob,
		ProvideQueue,
		ProvideScheduler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
