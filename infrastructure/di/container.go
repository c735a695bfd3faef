package di

import (
	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/commands/bus"
	"github.com/rickerduniya/Sayanho-sub000/application/ports"
	querybus "github.com/rickerduniya/Sayanho-sub000/application/queries/bus"
	"github.com/rickerduniya/Sayanho-sub000/application/services"
	domainconfig "github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/config"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/layout"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/messaging"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/persistence/schema"
	"github.com/rickerduniya/Sayanho-sub000/pkg/auth"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
	"github.com/rickerduniya/Sayanho-sub000/pkg/extensions"
	"github.com/rickerduniya/Sayanho-sub000/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *observability.Collector
	Hooks        *extensions.HookManager
	EngineConfig *domainconfig.DomainConfig
	Solver       ports.Solver
	LayoutStore  *layout.MemoryLayoutStore
	EventBus     *messaging.HookEventBus
	Editor       *services.Editor
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	Codec        *schema.Codec
	ErrorHandler *apperrors.ErrorHandler
	Validator    *auth.JWTValidator
}
