//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/rickerduniya/Sayanho-sub000/application/ports"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/config"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/layout"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/messaging"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideHookManager,
	ProvideEngineConfig,
	ProvideSolver,
	ProvideLayoutStore,
	wire.Bind(new(ports.LayoutStore), new(*layout.MemoryLayoutStore)),
	ProvideEventBus,
	wire.Bind(new(ports.EventBus), new(*messaging.HookEventBus)),
	ProvideEditor,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideCodec,
	ProvideErrorHandler,
	ProvideJWTValidator,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
