package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/commands/bus"
	querybus "github.com/rickerduniya/Sayanho-sub000/application/queries/bus"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/persistence/schema"
	"github.com/rickerduniya/Sayanho-sub000/interfaces/http/rest/handlers"
	"github.com/rickerduniya/Sayanho-sub000/interfaces/http/rest/middleware"
	"github.com/rickerduniya/Sayanho-sub000/pkg/auth"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
	"github.com/rickerduniya/Sayanho-sub000/pkg/observability"
)

// Options toggles the optional parts of the router
type Options struct {
	EnableCORS     bool
	AllowedOrigins []string
	EnableMetrics  bool

	// Ready reports whether the engine can serve traffic. Nil means always.
	Ready func() error
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *apperrors.ErrorHandler
	codec        *schema.Codec
	feed         handlers.EventFeed
	metrics      *observability.Collector
	validator    *auth.JWTValidator
	options      Options
	logger       *zap.Logger
}

// NewRouter creates a new router instance. metrics, validator and feed may be
// nil; a nil validator leaves the API unauthenticated.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *apperrors.ErrorHandler,
	codec *schema.Codec,
	feed handlers.EventFeed,
	metrics *observability.Collector,
	validator *auth.JWTValidator,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		codec:        codec,
		feed:         feed,
		metrics:      metrics,
		validator:    validator,
		options:      options,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errorHandler.Middleware)
	if rt.metrics != nil {
		router.Use(middleware.Logger(rt.logger, rt.metrics))
	} else {
		router.Use(middleware.Logger(rt.logger, nil))
	}
	router.Use(versionMiddleware)

	if rt.options.EnableCORS {
		origins := rt.options.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.options.EnableMetrics && rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	sheets := handlers.NewSheetHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
	items := handlers.NewItemHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
	connectors := handlers.NewConnectorHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
	editor := handlers.NewEditorHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
	document := handlers.NewDocumentHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.codec, rt.feed, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		if rt.validator != nil {
			r.Use(middleware.Authenticate(rt.validator, rt.logger))
		}

		r.Route("/sheets", sheets.Routes)
		r.Route("/items", items.Routes)
		r.Route("/connectors", connectors.Routes)
		r.Route("/portals", connectors.PortalRoutes)
		r.Route("/editor", editor.Routes)
		r.Route("/layout", editor.LayoutRoutes)
		r.Route("/document", document.Routes)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.options.Ready != nil {
		if err := rt.options.Ready(); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			rt.errorHandler.Handle(w, req, err)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", "v1")
		w.Header().Set("X-API-Latest", "v1")
		next.ServeHTTP(w, r)
	})
}
