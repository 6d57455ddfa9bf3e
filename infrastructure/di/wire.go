//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"medremind-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideMedicationRepository,
	ProvideAdherenceRepository,
	ProvideAccountRepository,
	ProvideConnectionRepository,
	ProvideNotificationSink,
	ProvideEventPublisher,
	ProvideClock,
	ProvideMetrics,
	ProvidePassLock,
	ProvideTracer,
	ProvidePlanCache,
	ProvideVisibilityService,
	ProvideReminderEvaluator,
	ProvideCreateMedicationHandler,
	ProvideDeleteMedicationHandler,
	ProvideRecordAdherenceHandler,
	ProvideAddCaregiverHandler,
	ProvideRegisterAccountHandler,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideJWTGenerator,
	ProvideAccountRateLimiter,
	ProvideMedicationHTTPHandler,
	ProvideAdherenceHTTPHandler,
	ProvideAccountHTTPHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
