package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	"github.com/rickerduniya/Sayanho-sub000/domain/versioning"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
	"github.com/rickerduniya/Sayanho-sub000/pkg/extensions"
)

// SheetSummary is the read model for a sheet tab
type SheetSummary struct {
	ID             valueobjects.SheetID  `json:"id"`
	Name           string                `json:"name"`
	Active         bool                  `json:"active"`
	ItemCount      int                   `json:"itemCount"`
	ConnectorCount int                   `json:"connectorCount"`
	Viewport       valueobjects.Viewport `json:"viewport"`
	History        HistoryStatus         `json:"history"`
}

// HistoryStatus reports the depth of a sheet's undo and redo stacks
type HistoryStatus struct {
	CanUndo   bool `json:"canUndo"`
	CanRedo   bool `json:"canRedo"`
	UndoDepth int  `json:"undoDepth"`
	RedoDepth int  `json:"redoDepth"`
}

// Sheets lists every sheet in order
func (e *Editor) Sheets() []SheetSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	sheets := e.diagram.Sheets()
	summaries := make([]SheetSummary, len(sheets))
	for i, s := range sheets {
		summaries[i] = e.summarize(s)
	}
	return summaries
}

// SheetState returns a detached copy of one sheet
func (e *Editor) SheetState(id valueobjects.SheetID) (aggregates.SheetState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sheet, ok := e.diagram.Sheet(id)
	if !ok {
		return aggregates.SheetState{}, apperrors.NewNotFoundError("sheet " + id.String())
	}
	return sheet.State(), nil
}

// ActiveSheet returns a detached copy of the active sheet
func (e *Editor) ActiveSheet() aggregates.SheetState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.diagram.ActiveSheet().State()
}

// AddSheet appends an empty sheet. An empty name gets "Sheet <n>".
func (e *Editor) AddSheet(ctx context.Context, name string) (SheetSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.before(ctx, OpAddSheet, ""); err != nil {
		return SheetSummary{}, err
	}
	sheet := e.diagram.AddSheet(name)
	e.commit(ctx, OpAddSheet, sheet.ID(), nil, false)
	return e.summarize(sheet), nil
}

// RemoveSheet deletes a sheet with everything on it. The last sheet cannot be
// removed. Nothing on other sheets is touched.
func (e *Editor) RemoveSheet(ctx context.Context, id valueobjects.SheetID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sheet, ok := e.diagram.Sheet(id)
	if !ok {
		return apperrors.NewNotFoundError("sheet " + id.String())
	}
	if err := e.before(ctx, OpRemoveSheet, id); err != nil {
		return err
	}
	components := layoutComponents(sheet.Items())
	if err := e.diagram.RemoveSheet(id); err != nil {
		return e.reject(ctx, OpRemoveSheet, err)
	}
	e.selection = Selection{}
	e.dragging = false
	e.commit(ctx, OpRemoveSheet, id, nil, true)
	e.removeLayoutComponents(components)
	return nil
}

// RenameSheet changes a sheet's display name
func (e *Editor) RenameSheet(ctx context.Context, id valueobjects.SheetID, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.before(ctx, OpRenameSheet, id); err != nil {
		return err
	}
	if err := e.diagram.RenameSheet(id, name); err != nil {
		return err
	}
	e.commit(ctx, OpRenameSheet, id, nil, false)
	return nil
}

// SetActiveSheet switches sheets and clears the selection
func (e *Editor) SetActiveSheet(ctx context.Context, id valueobjects.SheetID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.diagram.SetActiveSheet(id); err != nil {
		return err
	}
	e.selection = Selection{}
	e.dragging = false
	return nil
}

// UpdateViewport stores a sheet's pan and zoom. Viewports are never part of
// history.
func (e *Editor) UpdateViewport(ctx context.Context, id valueobjects.SheetID, viewport valueobjects.Viewport) error {
	if viewport.Scale <= 0 {
		return apperrors.NewValidationError("zoom scale must be positive")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sheet, ok := e.diagram.Sheet(id)
	if !ok {
		return apperrors.NewNotFoundError("sheet " + id.String())
	}
	sheet.SetViewport(viewport)
	return nil
}

// Undo restores the active sheet's previous snapshot. It reports false when
// there is nothing to undo. A snapshot whose portals would overfill a net on
// the other sheets is rejected with NET_FULL and both stacks stay as they are.
func (e *Editor) Undo(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sheet := e.diagram.ActiveSheet()
	items, ok := sheet.PendingUndo()
	if !ok {
		return false, nil
	}
	if err := e.nets.CheckRestore(e.diagram, sheet.ID(), items); err != nil {
		return false, e.reject(ctx, OpUndo, err)
	}
	staging, _ := sheet.Undo(e.layout.Staging())
	e.restored(ctx, OpUndo, extensions.HookAfterUndo, sheet, staging)
	return true, nil
}

// Redo re-applies the active sheet's last undone snapshot. It reports false
// when there is nothing to redo.
func (e *Editor) Redo(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sheet := e.diagram.ActiveSheet()
	items, ok := sheet.PendingRedo()
	if !ok {
		return false, nil
	}
	if err := e.nets.CheckRestore(e.diagram, sheet.ID(), items); err != nil {
		return false, e.reject(ctx, OpRedo, err)
	}
	staging, _ := sheet.Redo(e.layout.Staging())
	e.restored(ctx, OpRedo, extensions.HookAfterRedo, sheet, staging)
	return true, nil
}

// HistoryStatus reports the undo/redo depth of a sheet
func (e *Editor) HistoryStatus(id valueobjects.SheetID) (HistoryStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sheet, ok := e.diagram.Sheet(id)
	if !ok {
		return HistoryStatus{}, apperrors.NewNotFoundError("sheet " + id.String())
	}
	return historyOf(sheet), nil
}

// SetSheets replaces the whole diagram with a loaded one. Connectors whose
// endpoints do not resolve against their own sheet's items are dropped with a
// warning. History and selection start empty. It returns the number of dropped
// connectors.
func (e *Editor) SetSheets(ctx context.Context, states []aggregates.SheetState, activeID valueobjects.SheetID) (int, error) {
	if len(states) == 0 {
		return 0, apperrors.NewValidationError("a diagram needs at least one sheet")
	}

	resolved := make([]aggregates.SheetState, len(states))
	dropped := 0
	for i, state := range states {
		sheet, n := e.resolveSheet(state, i)
		resolved[i] = sheet
		dropped += n
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	d, err := aggregates.ReconstructDiagram(resolved, activeID, e.config.HistoryLimit)
	if err != nil {
		return 0, err
	}
	if err := e.before(ctx, OpSetSheets, d.ActiveSheetID()); err != nil {
		return 0, err
	}

	e.diagram = d
	e.selection = Selection{}
	e.dragging = false
	d.RecordLoaded(dropped)
	e.metrics.DroppedConnectors.Add(float64(dropped))

	if report := e.validator.Validate(d); report != nil {
		e.logger.Warn("Loaded diagram has integrity issues",
			zap.Strings("codes", report.Codes()),
		)
	}
	e.commit(ctx, OpSetSheets, d.ActiveSheetID(), nil, true)

	e.logger.Info("Diagram loaded",
		zap.Int("sheets", len(resolved)),
		zap.Int("droppedConnectors", dropped),
	)
	return dropped, nil
}

// Document returns detached copies of every sheet and the active sheet id, in
// the shape SetSheets accepts
func (e *Editor) Document() ([]aggregates.SheetState, valueobjects.SheetID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.diagram.States(), e.diagram.ActiveSheetID()
}

// resolveSheet normalizes one loaded sheet and drops connectors that reference
// items outside it
func (e *Editor) resolveSheet(state aggregates.SheetState, index int) (aggregates.SheetState, int) {
	sheet := state.Clone()
	if sheet.ID == "" {
		sheet.ID = valueobjects.NewSheetID()
	}
	if sheet.Name == "" {
		sheet.Name = fmt.Sprintf("Sheet %d", index+1)
	}

	known := valueobjects.NewItemSet()
	items := make([]*entities.Item, 0, len(sheet.Items))
	for _, item := range sheet.Items {
		if item == nil {
			continue
		}
		if item.ID.IsZero() {
			item.ID = valueobjects.NewItemID()
		}
		if len(item.Properties) == 0 {
			item.Properties = []map[string]string{{}}
		}
		if item.ConnectionPoints == nil {
			item.ConnectionPoints = make(map[string]valueobjects.Point)
		}
		known.Add(item.ID)
		items = append(items, item)
	}

	dropped := 0
	connectors := make([]*entities.Connector, 0, len(sheet.Connectors))
	for _, c := range sheet.Connectors {
		if c == nil {
			continue
		}
		if !known.Has(c.SourceID) || !known.Has(c.TargetID) {
			dropped++
			e.logger.Warn("Dropping connector with unresolved endpoint",
				zap.String("sheetID", sheet.ID.String()),
				zap.String("connectorID", c.ID.String()),
				zap.String("sourceID", c.SourceID.String()),
				zap.String("targetID", c.TargetID.String()),
			)
			continue
		}
		if c.ID == "" {
			c.ID = valueobjects.NewConnectorID()
		}
		if c.Properties == nil {
			c.Properties = make(map[string]string)
		}
		connectors = append(connectors, c)
	}

	sheet.Items = items
	sheet.Connectors = connectors
	return sheet, dropped
}

// restored finishes an undo or redo
func (e *Editor) restored(ctx context.Context, op string, point extensions.HookPoint, sheet *aggregates.Sheet, staging versioning.LayoutStaging) {
	e.layout.RestoreStaging(staging)
	e.selection = Selection{}
	e.dragging = false
	e.revision++
	e.metrics.RecordOperation(op)
	e.hooks.ExecuteAsync(context.WithoutCancel(ctx), point, extensions.HookData{
		Operation: op,
		SheetID:   sheet.ID().String(),
	})
	e.recalc.Schedule()
}

func (e *Editor) summarize(s *aggregates.Sheet) SheetSummary {
	return SheetSummary{
		ID:             s.ID(),
		Name:           s.Name(),
		Active:         s.ID() == e.diagram.ActiveSheetID(),
		ItemCount:      s.ItemCount(),
		ConnectorCount: s.ConnectorCount(),
		Viewport:       s.Viewport(),
		History:        historyOf(s),
	}
}

func historyOf(s *aggregates.Sheet) HistoryStatus {
	return HistoryStatus{
		CanUndo:   s.CanUndo(),
		CanRedo:   s.CanRedo(),
		UndoDepth: s.UndoDepth(),
		RedoDepth: s.RedoDepth(),
	}
}
