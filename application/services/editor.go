package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/ports"
	"github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/validators"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	domainservices "github.com/rickerduniya/Sayanho-sub000/domain/services"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
	"github.com/rickerduniya/Sayanho-sub000/pkg/extensions"
	"github.com/rickerduniya/Sayanho-sub000/pkg/observability"
)

// Operation names used for metrics, hooks and logs
const (
	OpAddItem             = "add_item"
	OpMoveItems           = "move_items"
	OpBeginDrag           = "begin_drag"
	OpUpdateItemSize      = "update_item_size"
	OpUpdateItemLock      = "update_item_lock"
	OpUpdateItemProps     = "update_item_properties"
	OpUpdateItemTransform = "update_item_transform"
	OpRotateItem          = "rotate_item"
	OpDeleteItems         = "delete_items"
	OpAddConnector        = "add_connector"
	OpUpdateConnector     = "update_connector"
	OpDeleteConnector     = "delete_connector"
	OpCreatePortal        = "create_portal"
	OpCreatePairedPortal  = "create_paired_portal"
	OpUpdatePortalLabel   = "update_portal_label"
	OpPaste               = "paste_selection"
	OpAddSheet            = "add_sheet"
	OpRemoveSheet         = "remove_sheet"
	OpRenameSheet         = "rename_sheet"
	OpSetSheets           = "set_sheets"
	OpUndo                = "undo"
	OpRedo                = "redo"
)

// Editor is the mutation and recalculation orchestrator for one diagram.
//
// Every structural operation follows the same template: validate, snapshot
// each touched sheet once, mutate, then schedule a debounced recalculation.
// A rejected operation leaves the diagram and both history stacks untouched.
//
// Methods are safe for concurrent use. Hooks registered at before_mutation run
// under the editor lock and must not call back into the editor.
type Editor struct {
	mu sync.Mutex

	config    *config.DomainConfig
	diagram   *aggregates.Diagram
	nets      *domainservices.NetService
	defaults  *domainservices.ConnectorDefaults
	validator *validators.DiagramValidator

	layout   ports.LayoutStore
	eventBus ports.EventBus
	hooks    *extensions.HookManager
	metrics  *observability.Collector
	logger   *zap.Logger

	recalc     *Recalculator
	revision   uint64
	generation uint64

	selection Selection
	clipboard Clipboard
	dragging  bool

	background sync.WaitGroup
}

// NewEditor creates an editor holding a fresh single-sheet diagram
func NewEditor(
	cfg *config.DomainConfig,
	solver ports.Solver,
	layout ports.LayoutStore,
	eventBus ports.EventBus,
	hooks *extensions.HookManager,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Editor {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if hooks == nil {
		hooks = extensions.NewHookManager()
	}
	if metrics == nil {
		metrics = observability.NewCollector("sld")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Editor{
		config:    cfg,
		diagram:   aggregates.NewDiagram(cfg.HistoryLimit),
		nets:      domainservices.NewNetService(cfg),
		defaults:  domainservices.NewConnectorDefaults(cfg),
		validator: validators.NewDiagramValidator(cfg),
		layout:    layout,
		eventBus:  eventBus,
		hooks:     hooks,
		metrics:   metrics,
		logger:    logger,
	}
	e.diagram.MarkEventsAsCommitted()
	e.recalc = NewRecalculator(solver, e, cfg.RecalcDebounce, hooks, metrics, logger)
	return e
}

// Recalculator returns the editor's debounced recalculation scheduler
func (e *Editor) Recalculator() *Recalculator {
	return e.recalc
}

// Recalculate runs a recalculation pass immediately, cancelling any pending one
func (e *Editor) Recalculate(ctx context.Context) error {
	return e.recalc.RunNow(ctx)
}

// Close stops recalculation and waits for background layout removals
func (e *Editor) Close() {
	e.recalc.Stop()
	e.background.Wait()
}

// ApplyConfig swaps in new business tunables. History stacks are trimmed to the
// new limit; the debounce window applies from the next schedule on.
func (e *Editor) ApplyConfig(cfg *config.DomainConfig) error {
	if cfg == nil {
		return apperrors.NewValidationError("config required")
	}
	if err := cfg.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.config = cfg
	e.nets = domainservices.NewNetService(cfg)
	e.defaults = domainservices.NewConnectorDefaults(cfg)
	e.validator = validators.NewDiagramValidator(cfg)
	e.diagram.SetHistoryLimit(cfg.HistoryLimit)
	e.recalc.SetDebounce(cfg.RecalcDebounce)

	e.logger.Info("Applied engine configuration",
		zap.Int("historyLimit", cfg.HistoryLimit),
		zap.Duration("recalcDebounce", cfg.RecalcDebounce),
	)
	return nil
}

// Config returns a copy of the active business tunables
func (e *Editor) Config() *config.DomainConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config.Clone()
}

// Validate returns the integrity report for the current diagram, or nil
func (e *Editor) Validate() *apperrors.ValidationErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validator.Validate(e.diagram)
}

// NeedsMaterialPrompt reports whether connecting the two items requires the
// user to choose between Cable and Wiring
func (e *Editor) NeedsMaterialPrompt(sourceID, targetID valueobjects.ItemID) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, source, err := e.findItem(sourceID)
	if err != nil {
		return false, err
	}
	_, target, err := e.findItem(targetID)
	if err != nil {
		return false, err
	}
	return e.defaults.NeedsMaterialPrompt(source, target), nil
}

// Item returns a detached copy of an item
func (e *Editor) Item(id valueobjects.ItemID) (*entities.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, item, err := e.findItem(id)
	if err != nil {
		return nil, err
	}
	return item.Clone(), nil
}

// Connector returns a detached copy of a connector
func (e *Editor) Connector(id valueobjects.ConnectorID) (*entities.Connector, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, c, ok := e.diagram.FindConnector(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("connector " + id.String())
	}
	return c.Clone(), nil
}

// Template helpers. Callers hold e.mu.

func (e *Editor) findItem(id valueobjects.ItemID) (*aggregates.Sheet, *entities.Item, error) {
	sheet, item, ok := e.diagram.FindItem(id)
	if !ok {
		return nil, nil, apperrors.NewNotFoundError("item " + id.String())
	}
	return sheet, item, nil
}

// before runs the before-mutation hooks; any hook error vetoes the operation
func (e *Editor) before(ctx context.Context, op string, sheetID valueobjects.SheetID, ids ...string) error {
	data := extensions.HookData{Operation: op, SheetID: sheetID.String(), EntityIDs: ids}
	if err := e.hooks.Execute(ctx, extensions.HookBeforeMutation, data); err != nil {
		return apperrors.NewConflictError(fmt.Sprintf("%s vetoed: %v", op, err))
	}
	return nil
}

// reject records a refused operation and returns err unchanged
func (e *Editor) reject(ctx context.Context, op string, err error) error {
	code := apperrors.RejectionCode(err)
	if code == "" {
		return err
	}
	e.metrics.RecordRejection(code)
	e.logger.Info("Operation rejected",
		zap.String("operation", op),
		zap.String("code", code),
		zap.Error(err),
	)
	e.hooks.ExecuteAsync(context.WithoutCancel(ctx), extensions.HookMutationRejected, extensions.HookData{
		Operation: op,
		Code:      code,
	})
	return err
}

// snapshot records one undo step on each distinct sheet
func (e *Editor) snapshot(sheets ...*aggregates.Sheet) {
	staging := e.layout.Staging()
	seen := make(map[valueobjects.SheetID]bool, len(sheets))
	for _, s := range sheets {
		if s == nil || seen[s.ID()] {
			continue
		}
		seen[s.ID()] = true
		s.Record(staging)
	}
}

// commit finishes a mutation: bumps the revision, publishes pending events,
// fires after-mutation hooks and optionally schedules a recalculation
func (e *Editor) commit(ctx context.Context, op string, sheetID valueobjects.SheetID, ids []string, recalc bool) {
	e.revision++
	e.metrics.RecordOperation(op)
	e.publish(ctx)
	e.hooks.ExecuteAsync(context.WithoutCancel(ctx), extensions.HookAfterMutation, extensions.HookData{
		Operation: op,
		SheetID:   sheetID.String(),
		EntityIDs: ids,
	})
	if recalc {
		e.recalc.Schedule()
	}
}

func (e *Editor) publish(ctx context.Context) {
	pending := e.diagram.GetUncommittedEvents()
	if len(pending) == 0 {
		return
	}
	if e.eventBus != nil {
		if err := e.eventBus.PublishBatch(ctx, pending); err != nil {
			e.logger.Warn("Failed to publish domain events",
				zap.Int("count", len(pending)),
				zap.Error(err),
			)
		}
	}
	e.diagram.MarkEventsAsCommitted()
}

// removeLayoutComponents asks the layout store to drop the components of
// deleted items. Each request runs once in the background; a failure is logged
// and never reaches the caller.
func (e *Editor) removeLayoutComponents(componentIDs []string) {
	for _, id := range componentIDs {
		e.background.Add(1)
		go func(componentID string) {
			defer e.background.Done()
			if err := e.layout.RemoveComponent(context.Background(), componentID); err != nil {
				e.metrics.LayoutFailures.Inc()
				e.logger.Warn("Failed to remove layout component",
					zap.String("componentID", componentID),
					zap.Error(err),
				)
			}
		}(id)
	}
}

func layoutComponents(items []*entities.Item) []string {
	var ids []string
	for _, item := range items {
		if item.LayoutComponentID != "" {
			ids = append(ids, item.LayoutComponentID)
		}
	}
	return ids
}
