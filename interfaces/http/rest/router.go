package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"medremind-backend/infrastructure/config"
	"medremind-backend/interfaces/http/rest/handlers"
	"medremind-backend/interfaces/http/rest/middleware"
	"medremind-backend/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg               *config.Config
	medicationHandler *handlers.MedicationHandler
	adherenceHandler  *handlers.AdherenceHandler
	accountHandler    *handlers.AccountHandler
	accountLimiter    auth.RateLimiter
	logger            *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	medicationHandler *handlers.MedicationHandler,
	adherenceHandler *handlers.AdherenceHandler,
	accountHandler *handlers.AccountHandler,
	accountLimiter auth.RateLimiter,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:               cfg,
		medicationHandler: medicationHandler,
		adherenceHandler:  adherenceHandler,
		accountHandler:    accountHandler,
		accountLimiter:    accountLimiter,
		logger:            logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		// Registration happens before a token exists
		r.Post("/accounts", rt.accountHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.cfg, rt.accountLimiter, rt.logger))

			r.Get("/accounts/me", rt.accountHandler.GetProfile)
			r.Post("/caregivers", rt.accountHandler.AddCaregiver)

			r.Route("/medications", func(r chi.Router) {
				r.Post("/", rt.medicationHandler.CreateMedication)
				r.Get("/", rt.medicationHandler.ListMedications)
				r.Get("/{medicationID}", rt.medicationHandler.GetMedication)
				r.Delete("/{medicationID}", rt.medicationHandler.DeleteMedication)
			})

			r.Route("/adherence", func(r chi.Router) {
				r.Post("/responses", rt.adherenceHandler.RecordResponse)
				r.Get("/", rt.adherenceHandler.History)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness probe requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
