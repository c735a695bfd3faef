package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/commands"
	"github.com/rickerduniya/Sayanho-sub000/application/commands/bus"
	"github.com/rickerduniya/Sayanho-sub000/application/services"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
)

// HistoryResult reports whether an undo or redo changed anything
type HistoryResult struct {
	Applied bool `json:"applied"`
}

// LoadResult reports how many connectors a load dropped
type LoadResult struct {
	DroppedConnectors int `json:"droppedConnectors"`
}

// MoveResult reports how many items a drag step moved
type MoveResult struct {
	Moved int `json:"moved"`
}

// EditorHandlers maps diagram commands onto editor operations
type EditorHandlers struct {
	editor *services.Editor
	logger *zap.Logger
}

// NewEditorHandlers creates the handler set for an editor
func NewEditorHandlers(editor *services.Editor, logger *zap.Logger) *EditorHandlers {
	return &EditorHandlers{editor: editor, logger: logger}
}

// typed adapts a function over a concrete command type to a CommandHandler
func typed[C bus.Command](fn func(ctx context.Context, cmd C) (interface{}, error)) bus.CommandHandler {
	return bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) (interface{}, error) {
		c, ok := cmd.(C)
		if !ok {
			return nil, fmt.Errorf("unexpected command type %T", cmd)
		}
		return fn(ctx, c)
	})
}

// Register binds every diagram command to the bus
func (h *EditorHandlers) Register(b *bus.CommandBus) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.AddItemCommand{}, typed(h.addItem)},
		{commands.MoveItemsCommand{}, typed(h.moveItems)},
		{commands.BeginDragCommand{}, typed(h.beginDrag)},
		{commands.EndDragCommand{}, typed(h.endDrag)},
		{commands.UpdateItemSizeCommand{}, typed(h.updateItemSize)},
		{commands.UpdateItemLockCommand{}, typed(h.updateItemLock)},
		{commands.UpdateItemPropertiesCommand{}, typed(h.updateItemProperties)},
		{commands.UpdateItemTransformCommand{}, typed(h.updateItemTransform)},
		{commands.RotateItemCommand{}, typed(h.rotateItem)},
		{commands.DeleteItemCommand{}, typed(h.deleteItem)},
		{commands.DeleteSelectedCommand{}, typed(h.deleteSelected)},
		{commands.AddConnectorCommand{}, typed(h.addConnector)},
		{commands.UpdateConnectorCommand{}, typed(h.updateConnector)},
		{commands.DeleteConnectorCommand{}, typed(h.deleteConnector)},
		{commands.CreatePortalCommand{}, typed(h.createPortal)},
		{commands.CreatePairedPortalCommand{}, typed(h.createPairedPortal)},
		{commands.UpdatePortalLabelCommand{}, typed(h.updatePortalLabel)},
		{commands.SelectItemCommand{}, typed(h.selectItem)},
		{commands.SelectConnectorCommand{}, typed(h.selectConnector)},
		{commands.CopySelectionCommand{}, typed(h.copySelection)},
		{commands.PasteSelectionCommand{}, typed(h.pasteSelection)},
		{commands.AddSheetCommand{}, typed(h.addSheet)},
		{commands.RemoveSheetCommand{}, typed(h.removeSheet)},
		{commands.RenameSheetCommand{}, typed(h.renameSheet)},
		{commands.SetActiveSheetCommand{}, typed(h.setActiveSheet)},
		{commands.UpdateViewportCommand{}, typed(h.updateViewport)},
		{commands.UndoCommand{}, typed(h.undo)},
		{commands.RedoCommand{}, typed(h.redo)},
		{commands.LoadDiagramCommand{}, typed(h.loadDiagram)},
		{commands.RecalculateCommand{}, typed(h.recalculate)},
		{commands.StageLayoutComponentCommand{}, typed(h.stageLayoutComponent)},
	}

	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	h.logger.Debug("Registered diagram command handlers", zap.Int("count", len(registrations)))
	return nil
}

// Items

func (h *EditorHandlers) addItem(ctx context.Context, cmd commands.AddItemCommand) (interface{}, error) {
	item := entities.NewItem(cmd.Type,
		valueobjects.Point{X: cmd.X, Y: cmd.Y},
		valueobjects.Size{Width: cmd.Width, Height: cmd.Height})
	if cmd.ItemID != "" {
		item.ID = valueobjects.ItemID(cmd.ItemID)
	}
	item.Rotation = cmd.Rotation
	item.Locked = cmd.Locked
	if len(cmd.Properties) > 0 {
		item.Properties = cmd.Properties
	}
	for key, p := range cmd.ConnectionPoints {
		item.ConnectionPoints[key] = p
	}
	item.AlternativeCompany1 = cmd.AlternativeCompany1
	item.AlternativeCompany2 = cmd.AlternativeCompany2
	item.Incomer = cmd.Incomer
	item.OutgoingWays = cmd.OutgoingWays
	item.Accessories = cmd.Accessories
	item.LayoutComponentID = cmd.LayoutComponentID

	return h.editor.AddItem(ctx, item)
}

func (h *EditorHandlers) moveItems(ctx context.Context, cmd commands.MoveItemsCommand) (interface{}, error) {
	positions := make(map[valueobjects.ItemID]valueobjects.Point, len(cmd.Positions))
	for id, p := range cmd.Positions {
		positions[valueobjects.ItemID(id)] = p
	}
	moved, err := h.editor.MoveItems(ctx, positions)
	if err != nil {
		return nil, err
	}
	return MoveResult{Moved: moved}, nil
}

func (h *EditorHandlers) beginDrag(ctx context.Context, _ commands.BeginDragCommand) (interface{}, error) {
	return nil, h.editor.BeginDrag(ctx)
}

func (h *EditorHandlers) endDrag(ctx context.Context, _ commands.EndDragCommand) (interface{}, error) {
	h.editor.EndDrag(ctx)
	return nil, nil
}

func (h *EditorHandlers) updateItemSize(ctx context.Context, cmd commands.UpdateItemSizeCommand) (interface{}, error) {
	return h.editor.UpdateItemSize(ctx, valueobjects.ItemID(cmd.ItemID),
		valueobjects.Size{Width: cmd.Width, Height: cmd.Height}, cmd.ConnectionPoints)
}

func (h *EditorHandlers) updateItemLock(ctx context.Context, cmd commands.UpdateItemLockCommand) (interface{}, error) {
	return nil, h.editor.UpdateItemLock(ctx, valueobjects.ItemID(cmd.ItemID), cmd.Locked)
}

func (h *EditorHandlers) updateItemProperties(ctx context.Context, cmd commands.UpdateItemPropertiesCommand) (interface{}, error) {
	return h.editor.UpdateItemProperties(ctx, valueobjects.ItemID(cmd.ItemID), services.ItemPatch{
		Properties:          cmd.Properties,
		AlternativeCompany1: cmd.AlternativeCompany1,
		AlternativeCompany2: cmd.AlternativeCompany2,
		Incomer:             cmd.Incomer,
		OutgoingWays:        cmd.OutgoingWays,
		Accessories:         cmd.Accessories,
	})
}

func (h *EditorHandlers) updateItemTransform(ctx context.Context, cmd commands.UpdateItemTransformCommand) (interface{}, error) {
	return h.editor.UpdateItemTransform(ctx, valueobjects.ItemID(cmd.ItemID),
		valueobjects.Point{X: cmd.X, Y: cmd.Y}, cmd.Rotation)
}

func (h *EditorHandlers) rotateItem(ctx context.Context, cmd commands.RotateItemCommand) (interface{}, error) {
	return h.editor.RotateItem(ctx, valueobjects.ItemID(cmd.ItemID))
}

func (h *EditorHandlers) deleteItem(ctx context.Context, cmd commands.DeleteItemCommand) (interface{}, error) {
	return nil, h.editor.DeleteItem(ctx, valueobjects.ItemID(cmd.ItemID))
}

func (h *EditorHandlers) deleteSelected(ctx context.Context, _ commands.DeleteSelectedCommand) (interface{}, error) {
	return nil, h.editor.DeleteSelected(ctx)
}

// Connectors

func (h *EditorHandlers) addConnector(ctx context.Context, cmd commands.AddConnectorCommand) (interface{}, error) {
	return h.editor.AddConnector(ctx, services.ConnectorRequest{
		SourceID:            valueobjects.ItemID(cmd.SourceID),
		SourceKey:           cmd.SourceKey,
		TargetID:            valueobjects.ItemID(cmd.TargetID),
		TargetKey:           cmd.TargetKey,
		MaterialType:        valueobjects.MaterialType(cmd.MaterialType),
		Properties:          cmd.Properties,
		Laying:              cmd.Laying,
		Accessories:         cmd.Accessories,
		Length:              cmd.Length,
		AlternativeCompany1: cmd.AlternativeCompany1,
		AlternativeCompany2: cmd.AlternativeCompany2,
	})
}

func (h *EditorHandlers) updateConnector(ctx context.Context, cmd commands.UpdateConnectorCommand) (interface{}, error) {
	patch := services.ConnectorPatch{
		Properties:          cmd.Properties,
		Laying:              cmd.Laying,
		Accessories:         cmd.Accessories,
		Length:              cmd.Length,
		AlternativeCompany1: cmd.AlternativeCompany1,
		AlternativeCompany2: cmd.AlternativeCompany2,
	}
	if cmd.MaterialType != nil {
		material := valueobjects.MaterialType(*cmd.MaterialType)
		patch.MaterialType = &material
	}
	return h.editor.UpdateConnector(ctx, valueobjects.ConnectorID(cmd.ConnectorID), patch)
}

func (h *EditorHandlers) deleteConnector(ctx context.Context, cmd commands.DeleteConnectorCommand) (interface{}, error) {
	return nil, h.editor.DeleteConnector(ctx, valueobjects.ConnectorID(cmd.ConnectorID))
}

// Portals

func (h *EditorHandlers) createPortal(ctx context.Context, cmd commands.CreatePortalCommand) (interface{}, error) {
	return h.editor.CreatePortal(ctx, valueobjects.Point{X: cmd.X, Y: cmd.Y}, valueobjects.PortalDirection(cmd.Direction))
}

func (h *EditorHandlers) createPairedPortal(ctx context.Context, cmd commands.CreatePairedPortalCommand) (interface{}, error) {
	return h.editor.CreatePairedPortal(ctx, valueobjects.NetID(cmd.NetID),
		valueobjects.SheetID(cmd.SheetID), valueobjects.Point{X: cmd.X, Y: cmd.Y})
}

func (h *EditorHandlers) updatePortalLabel(ctx context.Context, cmd commands.UpdatePortalLabelCommand) (interface{}, error) {
	return nil, h.editor.UpdatePortalLabel(ctx, valueobjects.NetID(cmd.NetID), cmd.Label)
}

// Selection and clipboard

func (h *EditorHandlers) selectItem(_ context.Context, cmd commands.SelectItemCommand) (interface{}, error) {
	if err := h.editor.SelectItem(valueobjects.ItemID(cmd.ItemID), cmd.Multi, cmd.OpenPanel); err != nil {
		return nil, err
	}
	return h.editor.Selection(), nil
}

func (h *EditorHandlers) selectConnector(_ context.Context, cmd commands.SelectConnectorCommand) (interface{}, error) {
	if err := h.editor.SelectConnector(valueobjects.ConnectorID(cmd.ConnectorID)); err != nil {
		return nil, err
	}
	return h.editor.Selection(), nil
}

func (h *EditorHandlers) copySelection(_ context.Context, _ commands.CopySelectionCommand) (interface{}, error) {
	return h.editor.CopySelection(), nil
}

func (h *EditorHandlers) pasteSelection(ctx context.Context, cmd commands.PasteSelectionCommand) (interface{}, error) {
	return h.editor.PasteSelection(ctx, cmd.Target)
}

// Sheets and history

func (h *EditorHandlers) addSheet(ctx context.Context, cmd commands.AddSheetCommand) (interface{}, error) {
	return h.editor.AddSheet(ctx, cmd.Name)
}

func (h *EditorHandlers) removeSheet(ctx context.Context, cmd commands.RemoveSheetCommand) (interface{}, error) {
	return nil, h.editor.RemoveSheet(ctx, valueobjects.SheetID(cmd.SheetID))
}

func (h *EditorHandlers) renameSheet(ctx context.Context, cmd commands.RenameSheetCommand) (interface{}, error) {
	return nil, h.editor.RenameSheet(ctx, valueobjects.SheetID(cmd.SheetID), cmd.Name)
}

func (h *EditorHandlers) setActiveSheet(ctx context.Context, cmd commands.SetActiveSheetCommand) (interface{}, error) {
	return nil, h.editor.SetActiveSheet(ctx, valueobjects.SheetID(cmd.SheetID))
}

func (h *EditorHandlers) updateViewport(ctx context.Context, cmd commands.UpdateViewportCommand) (interface{}, error) {
	return nil, h.editor.UpdateViewport(ctx, valueobjects.SheetID(cmd.SheetID), valueobjects.Viewport{
		Pan:   valueobjects.Point{X: cmd.PanX, Y: cmd.PanY},
		Scale: cmd.Scale,
	})
}

func (h *EditorHandlers) undo(ctx context.Context, _ commands.UndoCommand) (interface{}, error) {
	applied, err := h.editor.Undo(ctx)
	if err != nil {
		return nil, err
	}
	return HistoryResult{Applied: applied}, nil
}

func (h *EditorHandlers) redo(ctx context.Context, _ commands.RedoCommand) (interface{}, error) {
	applied, err := h.editor.Redo(ctx)
	if err != nil {
		return nil, err
	}
	return HistoryResult{Applied: applied}, nil
}

func (h *EditorHandlers) loadDiagram(ctx context.Context, cmd commands.LoadDiagramCommand) (interface{}, error) {
	dropped, err := h.editor.SetSheets(ctx, cmd.Sheets, valueobjects.SheetID(cmd.ActiveSheetID))
	if err != nil {
		return nil, err
	}
	return LoadResult{DroppedConnectors: dropped}, nil
}

func (h *EditorHandlers) recalculate(ctx context.Context, _ commands.RecalculateCommand) (interface{}, error) {
	if err := h.editor.Recalculate(ctx); err != nil {
		return nil, err
	}
	return map[string]uint64{"generation": h.editor.Generation()}, nil
}

func (h *EditorHandlers) stageLayoutComponent(ctx context.Context, cmd commands.StageLayoutComponentCommand) (interface{}, error) {
	return nil, h.editor.StageLayoutComponent(ctx, cmd.ID, cmd.ItemType, valueobjects.Point{X: cmd.X, Y: cmd.Y})
}
