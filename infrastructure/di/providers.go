package di

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rickerduniya/Sayanho-sub000/application/commands/bus"
	commands_handlers "github.com/rickerduniya/Sayanho-sub000/application/commands/handlers"
	"github.com/rickerduniya/Sayanho-sub000/application/ports"
	querybus "github.com/rickerduniya/Sayanho-sub000/application/queries/bus"
	queries_handlers "github.com/rickerduniya/Sayanho-sub000/application/queries/handlers"
	"github.com/rickerduniya/Sayanho-sub000/application/services"
	domainconfig "github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/config"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/layout"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/messaging"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/persistence/schema"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/solver"
	"github.com/rickerduniya/Sayanho-sub000/pkg/auth"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
	"github.com/rickerduniya/Sayanho-sub000/pkg/extensions"
	"github.com/rickerduniya/Sayanho-sub000/pkg/observability"
)

const (
	metricsNamespace = "sld"
	tokenTTL         = 24 * time.Hour
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(metricsNamespace)
}

// ProvideHookManager creates the hook registry shared by the editor and the
// event bus
func ProvideHookManager(logger *zap.Logger) *extensions.HookManager {
	hooks := extensions.NewHookManager()
	hooks.OnAsyncError(func(point extensions.HookPoint, err error) {
		logger.Warn("Async hook failed", zap.String("hook", string(point)), zap.Error(err))
	})
	return hooks
}

// ProvideEngineConfig returns the business tunables resolved at startup
func ProvideEngineConfig(cfg *config.Config) *domainconfig.DomainConfig {
	if cfg.Engine != nil {
		return cfg.Engine
	}
	return domainconfig.LoadDomainConfig(cfg.Environment)
}

// ProvideSolver creates the current solver. Without a SOLVER_URL the engine
// runs with the passthrough solver; otherwise the HTTP solver sits behind a
// circuit breaker.
func ProvideSolver(cfg *config.Config, metrics *observability.Collector, logger *zap.Logger) ports.Solver {
	if cfg.SolverURL == "" {
		logger.Info("No solver configured, using passthrough solver")
		return solver.NewPassthroughSolver()
	}
	httpSolver := solver.NewHTTPSolver(cfg.SolverURL, cfg.SolverTimeout, logger)
	return solver.NewBreakerSolver(httpSolver, solver.DefaultBreakerConfig(), metrics, logger)
}

// ProvideLayoutStore creates the floor-plan store
func ProvideLayoutStore(logger *zap.Logger) *layout.MemoryLayoutStore {
	return layout.NewMemoryLayoutStore(logger)
}

// ProvideEventBus creates an event bus
func ProvideEventBus(hooks *extensions.HookManager, logger *zap.Logger) *messaging.HookEventBus {
	return messaging.NewHookEventBus(hooks, messaging.DefaultRetention, logger)
}

// ProvideEditor creates the diagram editor. The cleanup stops pending
// recalculation and waits for background layout removals.
func ProvideEditor(
	engineCfg *domainconfig.DomainConfig,
	solver ports.Solver,
	layoutStore ports.LayoutStore,
	eventBus ports.EventBus,
	hooks *extensions.HookManager,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*services.Editor, func()) {
	editor := services.NewEditor(engineCfg, solver, layoutStore, eventBus, hooks, metrics, logger)
	return editor, editor.Close
}

// ProvideCommandBus creates the command bus with every diagram command
// registered
func ProvideCommandBus(editor *services.Editor, logger *zap.Logger) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger.Sugar()))
	if err := commands_handlers.NewEditorHandlers(editor, logger).Register(commandBus); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideQueryBus creates the query bus with every diagram query registered
func ProvideQueryBus(editor *services.Editor, metrics *observability.Collector) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(querybus.MetricsMiddleware(metrics))
	if err := queries_handlers.NewDiagramQueryHandlers(editor).Register(queryBus); err != nil {
		return nil, err
	}
	return queryBus, nil
}

// ProvideCodec creates the document codec
func ProvideCodec() *schema.Codec {
	return schema.NewCodec()
}

// ProvideErrorHandler creates the HTTP error handler; stack traces are only
// exposed in development
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *apperrors.ErrorHandler {
	return apperrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideJWTValidator creates the token validator, or nil when authentication
// is disabled
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if !cfg.EnableAuth {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		TTL:       tokenTTL,
	})
}
