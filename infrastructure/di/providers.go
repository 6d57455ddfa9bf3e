package di

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsapigw "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"medremind-backend/application/commands"
	"medremind-backend/application/commands/bus"
	cmdhandlers "medremind-backend/application/commands/handlers"
	"medremind-backend/application/ports"
	"medremind-backend/application/queries"
	querybus "medremind-backend/application/queries/bus"
	queryhandlers "medremind-backend/application/queries/handlers"
	"medremind-backend/application/services"
	"medremind-backend/infrastructure/config"
	"medremind-backend/infrastructure/messaging/eventbridge"
	"medremind-backend/infrastructure/notify"
	"medremind-backend/infrastructure/persistence/dynamodb"
	"medremind-backend/interfaces/http/rest/handlers"
	"medremind-backend/pkg/auth"
	"medremind-backend/pkg/cache"
	"medremind-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMedicationRepository creates a medication repository
func ProvideMedicationRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.MedicationRepository {
	return dynamodb.NewMedicationRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideAdherenceRepository creates an adherence repository
func ProvideAdherenceRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AdherenceRepository {
	return dynamodb.NewAdherenceRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideAccountRepository creates an account repository
func ProvideAccountRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AccountRepository {
	return dynamodb.NewAccountRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideConnectionRepository creates a WebSocket connection repository
func ProvideConnectionRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ConnectionRepository {
	return dynamodb.NewConnectionRepository(client, cfg.ConnectionsTable, logger)
}

// ProvideNotificationSink creates the reminder delivery sink. Without a
// configured WebSocket endpoint, deliveries go to the log only.
func ProvideNotificationSink(
	awsCfg aws.Config,
	cfg *config.Config,
	connections ports.ConnectionRepository,
	logger *zap.Logger,
) ports.NotificationSink {
	if cfg.WebSocketEndpoint == "" {
		logger.Warn("No WebSocket endpoint configured, reminders will only be logged")
		return notify.NewLogSink(logger)
	}

	apiClient := awsapigw.NewFromConfig(awsCfg, func(o *awsapigw.Options) {
		o.BaseEndpoint = aws.String(cfg.WebSocketEndpoint)
	})
	return notify.NewWebSocketSink(apiClient, connections, logger)
}

// ProvideEventPublisher creates an EventBridge event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideClock supplies the production clock
func ProvideClock() ports.Clock {
	return ports.SystemClock{}
}

// ProvideMetrics creates a metrics instance. Disabled metrics get a nil
// client so every recorder no-ops.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("MedRemind/%s", cfg.Environment)
	if !cfg.EnableMetrics {
		return observability.NewMetrics(namespace, nil)
	}
	return observability.NewMetrics(namespace, client)
}

// ProvideAccountRateLimiter picks the backing store for per-account
// request limits. Lambda invocations share no memory, so they use the
// DynamoDB-backed limiter; local servers keep an in-process window.
func ProvideAccountRateLimiter(client *awsdynamodb.Client, cfg *config.Config) auth.RateLimiter {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return auth.NewDistributedAccountRateLimiter(client, cfg.DynamoDBTable, 200)
	}
	return auth.NewSlidingWindowLimiter(200, time.Minute)
}

// ProvidePassLock creates the distributed lock guarding evaluator passes
func ProvidePassLock(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.PassLock {
	return dynamodb.NewPassLock(client, cfg.DynamoDBTable, logger)
}

// ProvideTracer creates an X-Ray tracer
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer()
}

// ProvidePlanCache creates the in-process cache for visibility plans
func ProvidePlanCache() cache.Cache {
	return cache.NewInMemoryCache()
}

// ProvideVisibilityService creates the visibility service
func ProvideVisibilityService(
	accountRepo ports.AccountRepository,
	medRepo ports.MedicationRepository,
	planCache cache.Cache,
	logger *zap.Logger,
) *services.VisibilityService {
	return services.NewVisibilityService(accountRepo, medRepo, planCache, logger)
}

// ProvideReminderEvaluator creates the reminder evaluator
func ProvideReminderEvaluator(
	medRepo ports.MedicationRepository,
	adherenceRepo ports.AdherenceRepository,
	sink ports.NotificationSink,
	publisher ports.EventPublisher,
	clock ports.Clock,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.ReminderEvaluator {
	return services.NewReminderEvaluator(medRepo, adherenceRepo, sink, publisher, clock, metrics, logger)
}

// ProvideCreateMedicationHandler creates the create medication handler
func ProvideCreateMedicationHandler(
	medRepo ports.MedicationRepository,
	accountRepo ports.AccountRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *cmdhandlers.CreateMedicationHandler {
	return cmdhandlers.NewCreateMedicationHandler(medRepo, accountRepo, publisher, logger)
}

// ProvideDeleteMedicationHandler creates the delete medication handler
func ProvideDeleteMedicationHandler(
	medRepo ports.MedicationRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *cmdhandlers.DeleteMedicationHandler {
	return cmdhandlers.NewDeleteMedicationHandler(medRepo, publisher, logger)
}

// ProvideRecordAdherenceHandler creates the record adherence handler
func ProvideRecordAdherenceHandler(
	adherenceRepo ports.AdherenceRepository,
	sink ports.NotificationSink,
	publisher ports.EventPublisher,
	clock ports.Clock,
	logger *zap.Logger,
) *cmdhandlers.RecordAdherenceHandler {
	return cmdhandlers.NewRecordAdherenceHandler(adherenceRepo, sink, publisher, clock, logger)
}

// ProvideAddCaregiverHandler creates the add caregiver handler
func ProvideAddCaregiverHandler(
	accountRepo ports.AccountRepository,
	publisher ports.EventPublisher,
	clock ports.Clock,
	logger *zap.Logger,
) *cmdhandlers.AddCaregiverHandler {
	return cmdhandlers.NewAddCaregiverHandler(accountRepo, publisher, clock, logger)
}

// ProvideRegisterAccountHandler creates the register account handler
func ProvideRegisterAccountHandler(
	accountRepo ports.AccountRepository,
	logger *zap.Logger,
) *cmdhandlers.RegisterAccountHandler {
	return cmdhandlers.NewRegisterAccountHandler(accountRepo, logger)
}

// ProvideCommandBus creates a command bus with every command registered
func ProvideCommandBus(
	createHandler *cmdhandlers.CreateMedicationHandler,
	deleteHandler *cmdhandlers.DeleteMedicationHandler,
	recordHandler *cmdhandlers.RecordAdherenceHandler,
	addCaregiverHandler *cmdhandlers.AddCaregiverHandler,
	registerHandler *cmdhandlers.RegisterAccountHandler,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()

	commandBus.Register(commands.CreateMedicationCommand{}, bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.CreateMedicationCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		_, err := createHandler.Handle(ctx, c)
		return err
	}))

	commandBus.Register(commands.DeleteMedicationCommand{}, bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.DeleteMedicationCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return deleteHandler.Handle(ctx, c)
	}))

	commandBus.Register(commands.RecordAdherenceCommand{}, bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.RecordAdherenceCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		_, err := recordHandler.Handle(ctx, c)
		return err
	}))

	commandBus.Register(commands.AddCaregiverCommand{}, bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.AddCaregiverCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return addCaregiverHandler.Handle(ctx, c)
	}))

	commandBus.Register(commands.RegisterAccountCommand{}, bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.RegisterAccountCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		_, err := registerHandler.Handle(ctx, c)
		return err
	}))

	return commandBus
}

// ProvideQueryBus creates a query bus with every query registered
func ProvideQueryBus(
	medRepo ports.MedicationRepository,
	adherenceRepo ports.AdherenceRepository,
	visibility *services.VisibilityService,
	logger *zap.Logger,
) *querybus.QueryBus {
	qb := querybus.NewQueryBus()

	listHandler := queryhandlers.NewListMedicationsHandler(visibility, logger)
	qb.Register(queries.ListMedicationsQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
		q, ok := query.(queries.ListMedicationsQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type %T", query)
		}
		return listHandler.Handle(ctx, q)
	}))

	getHandler := queryhandlers.NewGetMedicationHandler(medRepo, visibility, logger)
	qb.Register(queries.GetMedicationQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
		q, ok := query.(queries.GetMedicationQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type %T", query)
		}
		return getHandler.Handle(ctx, q)
	}))

	historyHandler := queryhandlers.NewAdherenceHistoryHandler(adherenceRepo, visibility, logger)
	qb.Register(queries.AdherenceHistoryQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
		q, ok := query.(queries.AdherenceHistoryQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type %T", query)
		}
		return historyHandler.Handle(ctx, q)
	}))

	return qb
}

// ProvideJWTGenerator creates a token generator for self-issued tokens.
// Behind API Gateway the authorizer owns tokens and this is unused.
func ProvideJWTGenerator(cfg *config.Config) (*auth.JWTGenerator, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTGenerator(auth.JWTGeneratorConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideMedicationHTTPHandler creates the medication HTTP handler
func ProvideMedicationHTTPHandler(
	createHandler *cmdhandlers.CreateMedicationHandler,
	cb *bus.CommandBus,
	qb *querybus.QueryBus,
	logger *zap.Logger,
) *handlers.MedicationHandler {
	return handlers.NewMedicationHandler(createHandler, cb, qb, logger)
}

// ProvideAdherenceHTTPHandler creates the adherence HTTP handler
func ProvideAdherenceHTTPHandler(
	recordHandler *cmdhandlers.RecordAdherenceHandler,
	qb *querybus.QueryBus,
	logger *zap.Logger,
) *handlers.AdherenceHandler {
	return handlers.NewAdherenceHandler(recordHandler, qb, logger)
}

// ProvideAccountHTTPHandler creates the account HTTP handler
func ProvideAccountHTTPHandler(
	registerHandler *cmdhandlers.RegisterAccountHandler,
	cb *bus.CommandBus,
	accountRepo ports.AccountRepository,
	tokenGenerator *auth.JWTGenerator,
	logger *zap.Logger,
) *handlers.AccountHandler {
	return handlers.NewAccountHandler(registerHandler, cb, accountRepo, tokenGenerator, logger)
}
