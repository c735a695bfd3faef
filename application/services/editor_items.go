package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// ItemPatch carries the editable payload of an item. Nil fields are left as-is.
type ItemPatch struct {
	Properties          []map[string]string
	AlternativeCompany1 *string
	AlternativeCompany2 *string
	Incomer             map[string]string
	OutgoingWays        []map[string]string
	Accessories         []map[string]string
}

// AddItem places an item on the active sheet. A missing id is generated.
// Portals are created through CreatePortal instead. An item carrying the id
// of a staged floor-plan component moves that component to the placed set.
func (e *Editor) AddItem(ctx context.Context, item *entities.Item) (*entities.Item, error) {
	if item == nil {
		return nil, apperrors.NewValidationError("item required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validator.ValidateItemType(item.Type); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if item.IsPortal() {
		return nil, apperrors.NewValidationError("portals are created with CreatePortal")
	}

	placed := item.Clone()
	if placed.ID.IsZero() {
		placed.ID = valueobjects.NewItemID()
	}
	if len(placed.Properties) == 0 {
		placed.Properties = []map[string]string{{}}
	}
	if placed.ConnectionPoints == nil {
		placed.ConnectionPoints = make(map[string]valueobjects.Point)
	}
	placed.Rotation = valueobjects.NormalizeRotation(placed.Rotation)
	if _, _, exists := e.diagram.FindItem(placed.ID); exists {
		return nil, apperrors.NewConflictError(fmt.Sprintf("item %s already exists", placed.ID))
	}

	sheet := e.diagram.ActiveSheet()
	if err := e.before(ctx, OpAddItem, sheet.ID(), placed.ID.String()); err != nil {
		return nil, err
	}

	e.snapshot(sheet)
	if err := e.diagram.PlaceItem(sheet.ID(), placed); err != nil {
		return nil, err
	}
	if placed.LayoutComponentID != "" {
		if err := e.layout.Place(placed.LayoutComponentID); err != nil {
			e.logger.Debug("Layout component left as is",
				zap.String("componentID", placed.LayoutComponentID),
				zap.Error(err),
			)
		}
	}
	e.commit(ctx, OpAddItem, sheet.ID(), []string{placed.ID.String()}, true)

	e.logger.Debug("Item added",
		zap.String("itemID", placed.ID.String()),
		zap.String("type", placed.Type),
		zap.String("sheetID", sheet.ID().String()),
	)
	return placed.Clone(), nil
}

// BeginDrag records the single undo step covering a whole drag gesture
func (e *Editor) BeginDrag(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dragging {
		return nil
	}
	sheet := e.diagram.ActiveSheet()
	if err := e.before(ctx, OpBeginDrag, sheet.ID()); err != nil {
		return err
	}
	e.snapshot(sheet)
	e.dragging = true
	e.metrics.RecordOperation(OpBeginDrag)
	return nil
}

// MoveItems sets absolute positions on the active sheet during a drag. Locked
// items stay put. No snapshot is taken and no recalculation is scheduled.
func (e *Editor) MoveItems(ctx context.Context, positions map[valueobjects.ItemID]valueobjects.Point) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sheet := e.diagram.ActiveSheet()
	for id := range positions {
		if !sheet.HasItem(id) {
			return 0, apperrors.NewNotFoundError("item " + id.String() + " on active sheet")
		}
	}

	moved := 0
	for id, pos := range positions {
		item, _ := sheet.Item(id)
		if item.Locked {
			continue
		}
		item.Position = pos
		moved++
	}
	if moved > 0 {
		e.revision++
		e.metrics.RecordOperation(OpMoveItems)
	}
	return moved, nil
}

// EndDrag closes a drag gesture and schedules recalculation
func (e *Editor) EndDrag(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.dragging = false
	e.recalc.Schedule()
}

// UpdateItemSize applies regenerated geometry. A nil points map keeps the
// current connection points.
func (e *Editor) UpdateItemSize(ctx context.Context, id valueobjects.ItemID, size valueobjects.Size, points map[string]valueobjects.Point) (*entities.Item, error) {
	if _, err := valueobjects.NewSize(size.Width, size.Height); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sheet, item, err := e.findItem(id)
	if err != nil {
		return nil, err
	}
	if err := e.before(ctx, OpUpdateItemSize, sheet.ID(), id.String()); err != nil {
		return nil, err
	}

	e.snapshot(sheet)
	item.Size = size
	if points != nil {
		item.ConnectionPoints = make(map[string]valueobjects.Point, len(points))
		for k, p := range points {
			item.ConnectionPoints[k] = p
		}
	}
	e.commit(ctx, OpUpdateItemSize, sheet.ID(), []string{id.String()}, true)
	return item.Clone(), nil
}

// UpdateItemLock sets or clears an item's position lock
func (e *Editor) UpdateItemLock(ctx context.Context, id valueobjects.ItemID, locked bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sheet, item, err := e.findItem(id)
	if err != nil {
		return err
	}
	if err := e.before(ctx, OpUpdateItemLock, sheet.ID(), id.String()); err != nil {
		return err
	}

	e.snapshot(sheet)
	item.Locked = locked
	e.commit(ctx, OpUpdateItemLock, sheet.ID(), []string{id.String()}, true)
	return nil
}

// UpdateItemProperties replaces an item's editable payload. A portal keeps its
// net id, direction and label; labels change through UpdatePortalLabel.
func (e *Editor) UpdateItemProperties(ctx context.Context, id valueobjects.ItemID, patch ItemPatch) (*entities.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sheet, item, err := e.findItem(id)
	if err != nil {
		return nil, err
	}
	if err := e.before(ctx, OpUpdateItemProps, sheet.ID(), id.String()); err != nil {
		return nil, err
	}

	e.snapshot(sheet)
	if patch.Properties != nil {
		netID, dir, label := item.NetID(), item.Direction(), item.Label()
		item.Properties = cloneDicts(patch.Properties)
		if item.IsPortal() {
			item.SetProperty(entities.PropNetID, netID.String())
			item.SetProperty(entities.PropDirection, string(dir))
			item.SetProperty(entities.PropLabel, label)
		}
		if len(item.Properties) == 0 {
			item.Properties = []map[string]string{{}}
		}
	}
	if patch.AlternativeCompany1 != nil {
		item.AlternativeCompany1 = *patch.AlternativeCompany1
	}
	if patch.AlternativeCompany2 != nil {
		item.AlternativeCompany2 = *patch.AlternativeCompany2
	}
	if patch.Incomer != nil {
		item.Incomer = cloneDict(patch.Incomer)
	}
	if patch.OutgoingWays != nil {
		item.OutgoingWays = cloneDicts(patch.OutgoingWays)
	}
	if patch.Accessories != nil {
		item.Accessories = cloneDicts(patch.Accessories)
	}
	e.commit(ctx, OpUpdateItemProps, sheet.ID(), []string{id.String()}, true)
	return item.Clone(), nil
}

// UpdateItemTransform sets position and rotation together
func (e *Editor) UpdateItemTransform(ctx context.Context, id valueobjects.ItemID, position valueobjects.Point, rotation int) (*entities.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sheet, item, err := e.findItem(id)
	if err != nil {
		return nil, err
	}
	rotation = valueobjects.NormalizeRotation(rotation)
	if item.Locked {
		return nil, e.reject(ctx, OpUpdateItemTransform,
			apperrors.NewRejectedError(apperrors.CodeItemLocked, fmt.Sprintf("item %s is locked", id)))
	}
	if rotation != item.Rotation && !e.config.IsRotatable(item.Type) {
		return nil, e.reject(ctx, OpUpdateItemTransform,
			apperrors.NewRejectedError(apperrors.CodeNotRotatable, fmt.Sprintf("%s items cannot be rotated", item.Type)))
	}
	if err := e.before(ctx, OpUpdateItemTransform, sheet.ID(), id.String()); err != nil {
		return nil, err
	}

	e.snapshot(sheet)
	item.Position = position
	item.Rotation = rotation
	e.commit(ctx, OpUpdateItemTransform, sheet.ID(), []string{id.String()}, true)
	return item.Clone(), nil
}

// RotateItem turns an item a quarter turn clockwise
func (e *Editor) RotateItem(ctx context.Context, id valueobjects.ItemID) (*entities.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sheet, item, err := e.findItem(id)
	if err != nil {
		return nil, err
	}
	if item.Locked {
		return nil, e.reject(ctx, OpRotateItem,
			apperrors.NewRejectedError(apperrors.CodeItemLocked, fmt.Sprintf("item %s is locked", id)))
	}
	if !e.config.IsRotatable(item.Type) {
		return nil, e.reject(ctx, OpRotateItem,
			apperrors.NewRejectedError(apperrors.CodeNotRotatable, fmt.Sprintf("%s items cannot be rotated", item.Type)))
	}
	if err := e.before(ctx, OpRotateItem, sheet.ID(), id.String()); err != nil {
		return nil, err
	}

	e.snapshot(sheet)
	item.Rotation = valueobjects.NormalizeRotation(item.Rotation + 90)
	e.commit(ctx, OpRotateItem, sheet.ID(), []string{id.String()}, true)
	return item.Clone(), nil
}

// DeleteItem removes an item. Deleting an out portal also removes every other
// portal of its net; every connector touching a removed item goes too, on
// whichever sheet it lives.
func (e *Editor) DeleteItem(ctx context.Context, id valueobjects.ItemID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.deleteItems(ctx, []valueobjects.ItemID{id})
}

// DeleteSelected deletes the selected connector, or every selected item with
// the same cascade as DeleteItem. An empty selection is a no-op.
func (e *Editor) DeleteSelected(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.selection.ConnectorID != "" {
		return e.deleteConnector(ctx, e.selection.ConnectorID)
	}
	if len(e.selection.ItemIDs) == 0 {
		return nil
	}
	return e.deleteItems(ctx, append([]valueobjects.ItemID(nil), e.selection.ItemIDs...))
}

func (e *Editor) deleteItems(ctx context.Context, ids []valueobjects.ItemID) error {
	for _, id := range ids {
		if _, _, err := e.findItem(id); err != nil {
			return err
		}
	}

	set := e.nets.ExpandDeletion(e.diagram, ids)
	sheets := e.diagram.SheetsHolding(set)
	entityIDs := make([]string, 0, len(set))
	for id := range set {
		entityIDs = append(entityIDs, id.String())
	}
	if err := e.before(ctx, OpDeleteItems, e.diagram.ActiveSheetID(), entityIDs...); err != nil {
		return err
	}

	e.snapshot(sheets...)
	deletions := e.diagram.DeleteItems(set)

	var components []string
	removedConnectors := 0
	for _, del := range deletions {
		components = append(components, layoutComponents(del.Items)...)
		removedConnectors += len(del.Connectors)
	}
	e.dropFromSelection(set)
	e.commit(ctx, OpDeleteItems, e.diagram.ActiveSheetID(), entityIDs, true)

	if len(set) > len(ids) {
		e.logger.Info("Cascaded portal deletion",
			zap.Int("requested", len(ids)),
			zap.Int("deleted", len(set)),
			zap.Int("sheets", len(sheets)),
		)
	}
	e.logger.Debug("Items deleted",
		zap.Int("items", len(set)),
		zap.Int("connectors", removedConnectors),
	)

	e.removeLayoutComponents(components)
	return nil
}

func cloneDict(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func cloneDicts(list []map[string]string) []map[string]string {
	if list == nil {
		return nil
	}
	cp := make([]map[string]string, len(list))
	for i, m := range list {
		cp[i] = cloneDict(m)
	}
	return cp
}
