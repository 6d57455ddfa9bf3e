package di

import (
	"go.uber.org/zap"

	"medremind-backend/application/commands/bus"
	cmdhandlers "medremind-backend/application/commands/handlers"
	"medremind-backend/application/ports"
	querybus "medremind-backend/application/queries/bus"
	"medremind-backend/application/services"
	"medremind-backend/infrastructure/config"
	"medremind-backend/infrastructure/persistence/dynamodb"
	"medremind-backend/interfaces/http/rest/handlers"
	"medremind-backend/pkg/auth"
	"medremind-backend/pkg/cache"
	"medremind-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	MedicationRepo ports.MedicationRepository
	AdherenceRepo  ports.AdherenceRepository
	AccountRepo    ports.AccountRepository
	ConnectionRepo ports.ConnectionRepository

	NotificationSink ports.NotificationSink
	EventPublisher   ports.EventPublisher
	Clock            ports.Clock

	Evaluator  *services.ReminderEvaluator
	Visibility *services.VisibilityService

	CreateMedicationHandler *cmdhandlers.CreateMedicationHandler
	DeleteMedicationHandler *cmdhandlers.DeleteMedicationHandler
	RecordAdherenceHandler  *cmdhandlers.RecordAdherenceHandler
	AddCaregiverHandler     *cmdhandlers.AddCaregiverHandler
	RegisterAccountHandler  *cmdhandlers.RegisterAccountHandler

	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus

	MedicationHTTPHandler *handlers.MedicationHandler
	AdherenceHTTPHandler  *handlers.AdherenceHandler
	AccountHTTPHandler    *handlers.AccountHandler

	JWTGenerator   *auth.JWTGenerator
	AccountLimiter auth.RateLimiter
	Metrics      *observability.Metrics
	Tracer       *observability.Tracer
	PlanCache    cache.Cache
	PassLock     *dynamodb.PassLock
}
