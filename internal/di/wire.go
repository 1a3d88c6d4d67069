//go:build wireinject
// +build wireinject

package di

import (
	"CollegeROI/pkg/config"
	"CollegeROI/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideClickHouseClient,
		ProvideCache,

		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Resources and collaborators
		ProvideResources,
		ProvideNarrative,
		ProvideRecorder,

		// Use cases
		ProvideSettings,
		ProvideROICalculator,

		// Transport
		ProvideROIHandler,
		ProvideRateLimiter,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
