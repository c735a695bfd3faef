package aggregates

import (
	"errors"
	"fmt"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	"github.com/rickerduniya/Sayanho-sub000/domain/versioning"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// SheetState is a detached, serializable view of a sheet without history
type SheetState struct {
	ID         valueobjects.SheetID  `json:"id"`
	Name       string                `json:"name"`
	Items      []*entities.Item      `json:"items"`
	Connectors []*entities.Connector `json:"connectors"`
	Viewport   valueobjects.Viewport `json:"viewport"`
}

// Clone returns a deep copy
func (s SheetState) Clone() SheetState {
	cp := SheetState{
		ID:         s.ID,
		Name:       s.Name,
		Items:      make([]*entities.Item, len(s.Items)),
		Connectors: make([]*entities.Connector, len(s.Connectors)),
		Viewport:   s.Viewport,
	}
	for i, item := range s.Items {
		cp.Items[i] = item.Clone()
	}
	for i, c := range s.Connectors {
		cp.Connectors[i] = c.Clone()
	}
	return cp
}

// Sheet owns an ordered list of items and connectors plus its own undo history.
// Every stored connector has both endpoints in this sheet's item list.
type Sheet struct {
	id         valueobjects.SheetID
	name       string
	items      []*entities.Item
	connectors []*entities.Connector
	viewport   valueobjects.Viewport
	history    *versioning.History
}

// NewSheet creates an empty sheet
func NewSheet(name string, historyLimit int) *Sheet {
	return &Sheet{
		id:       valueobjects.NewSheetID(),
		name:     name,
		viewport: valueobjects.DefaultViewport(),
		history:  versioning.NewHistory(historyLimit),
	}
}

// ReconstructSheet recreates a sheet from a detached state. Connectors are
// taken as-is; callers resolve references beforehand.
func ReconstructSheet(state SheetState, historyLimit int) *Sheet {
	cp := state.Clone()
	id := cp.ID
	if id == "" {
		id = valueobjects.NewSheetID()
	}
	viewport := cp.Viewport
	if viewport.Scale <= 0 {
		viewport = valueobjects.DefaultViewport()
	}
	return &Sheet{
		id:         id,
		name:       cp.Name,
		items:      cp.Items,
		connectors: cp.Connectors,
		viewport:   viewport,
		history:    versioning.NewHistory(historyLimit),
	}
}

// ID returns the sheet identifier
func (s *Sheet) ID() valueobjects.SheetID {
	return s.id
}

// Name returns the display name
func (s *Sheet) Name() string {
	return s.name
}

// Rename changes the display name
func (s *Sheet) Rename(name string) error {
	if name == "" {
		return errors.New("sheet name required")
	}
	s.name = name
	return nil
}

// Viewport returns the pan/zoom state
func (s *Sheet) Viewport() valueobjects.Viewport {
	return s.viewport
}

// SetViewport updates pan/zoom; it is never part of history
func (s *Sheet) SetViewport(v valueobjects.Viewport) {
	s.viewport = v
}

// Items returns the live item list in order
func (s *Sheet) Items() []*entities.Item {
	items := make([]*entities.Item, len(s.items))
	copy(items, s.items)
	return items
}

// Connectors returns the live connector list in order
func (s *Sheet) Connectors() []*entities.Connector {
	connectors := make([]*entities.Connector, len(s.connectors))
	copy(connectors, s.connectors)
	return connectors
}

// ItemCount returns the number of items
func (s *Sheet) ItemCount() int {
	return len(s.items)
}

// ConnectorCount returns the number of connectors
func (s *Sheet) ConnectorCount() int {
	return len(s.connectors)
}

// Item looks up an item by id
func (s *Sheet) Item(id valueobjects.ItemID) (*entities.Item, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

// HasItem checks if an item exists on the sheet
func (s *Sheet) HasItem(id valueobjects.ItemID) bool {
	_, ok := s.Item(id)
	return ok
}

// Connector looks up a connector by id
func (s *Sheet) Connector(id valueobjects.ConnectorID) (*entities.Connector, bool) {
	for _, c := range s.connectors {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// ConnectorsTouching returns every connector with an endpoint on the item
func (s *Sheet) ConnectorsTouching(id valueobjects.ItemID) []*entities.Connector {
	var touching []*entities.Connector
	for _, c := range s.connectors {
		if c.Touches(id) {
			touching = append(touching, c)
		}
	}
	return touching
}

// AddItem appends an item
func (s *Sheet) AddItem(item *entities.Item) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}
	if s.HasItem(item.ID) {
		return apperrors.NewConflictError(fmt.Sprintf("item %s already exists on sheet", item.ID))
	}
	s.items = append(s.items, item)
	return nil
}

// AddConnector appends a connector whose endpoints both live on this sheet
func (s *Sheet) AddConnector(c *entities.Connector) error {
	if err := s.CheckConnector(c); err != nil {
		return err
	}
	if _, exists := s.Connector(c.ID); exists {
		return apperrors.NewConflictError(fmt.Sprintf("connector %s already exists on sheet", c.ID))
	}
	s.connectors = append(s.connectors, c)
	return nil
}

// CheckConnector verifies endpoint rules without storing the connector
func (s *Sheet) CheckConnector(c *entities.Connector) error {
	if c == nil {
		return errors.New("connector cannot be nil")
	}
	if c.SourceID == c.TargetID {
		return apperrors.NewRejectedError(apperrors.CodeSelfConnection, "an item cannot be connected to itself")
	}
	if !s.HasItem(c.SourceID) || !s.HasItem(c.TargetID) {
		return apperrors.NewRejectedError(apperrors.CodeCrossSheetConnection, "both connector endpoints must be on the same sheet")
	}
	return nil
}

// RemoveConnector deletes a connector by id
func (s *Sheet) RemoveConnector(id valueobjects.ConnectorID) bool {
	for i, c := range s.connectors {
		if c.ID == id {
			s.connectors = append(s.connectors[:i], s.connectors[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveItems drops every item in the set and every connector touching one
func (s *Sheet) RemoveItems(ids valueobjects.ItemSet) ([]*entities.Item, []valueobjects.ConnectorID) {
	var removedItems []*entities.Item
	keptItems := s.items[:0:0]
	for _, item := range s.items {
		if ids.Has(item.ID) {
			removedItems = append(removedItems, item)
			continue
		}
		keptItems = append(keptItems, item)
	}

	var removedConnectors []valueobjects.ConnectorID
	keptConnectors := s.connectors[:0:0]
	for _, c := range s.connectors {
		if c.TouchesAny(ids) {
			removedConnectors = append(removedConnectors, c.ID)
			continue
		}
		keptConnectors = append(keptConnectors, c)
	}

	s.items = keptItems
	s.connectors = keptConnectors
	return removedItems, removedConnectors
}

// ReplaceContent swaps in new items and connectors, keeping history and viewport
func (s *Sheet) ReplaceContent(items []*entities.Item, connectors []*entities.Connector) {
	s.items = items
	s.connectors = connectors
}

// State returns a detached copy of the sheet
func (s *Sheet) State() SheetState {
	return SheetState{
		ID:         s.id,
		Name:       s.name,
		Items:      s.items,
		Connectors: s.connectors,
		Viewport:   s.viewport,
	}.Clone()
}

// History

// Snapshot captures the current structure with the given layout staging
func (s *Sheet) Snapshot(layout versioning.LayoutStaging) versioning.Snapshot {
	return versioning.NewSnapshot(s.items, s.connectors, layout)
}

// Record pushes the current structure onto the undo stack
func (s *Sheet) Record(layout versioning.LayoutStaging) {
	s.history.Record(s.Snapshot(layout))
}

// Undo restores the previous snapshot and returns its layout staging
func (s *Sheet) Undo(current versioning.LayoutStaging) (versioning.LayoutStaging, bool) {
	prev, ok := s.history.Undo(s.Snapshot(current))
	if !ok {
		return versioning.LayoutStaging{}, false
	}
	s.restore(prev)
	return prev.Layout.Clone(), true
}

// Redo re-applies the last undone snapshot and returns its layout staging
func (s *Sheet) Redo(current versioning.LayoutStaging) (versioning.LayoutStaging, bool) {
	next, ok := s.history.Redo(s.Snapshot(current))
	if !ok {
		return versioning.LayoutStaging{}, false
	}
	s.restore(next)
	return next.Layout.Clone(), true
}

// PendingUndo returns the items the next undo would bring back. The items are
// read-only views into history.
func (s *Sheet) PendingUndo() ([]*entities.Item, bool) {
	snap, ok := s.history.PeekUndo()
	return snap.Items, ok
}

// PendingRedo returns the items the next redo would bring back. The items are
// read-only views into history.
func (s *Sheet) PendingRedo() ([]*entities.Item, bool) {
	snap, ok := s.history.PeekRedo()
	return snap.Items, ok
}

// CanUndo reports whether an undo step is available
func (s *Sheet) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether a redo step is available
func (s *Sheet) CanRedo() bool { return s.history.CanRedo() }

// UndoDepth returns the number of undo steps held
func (s *Sheet) UndoDepth() int { return s.history.UndoDepth() }

// RedoDepth returns the number of redo steps held
func (s *Sheet) RedoDepth() int { return s.history.RedoDepth() }

// SetHistoryLimit resizes both history stacks
func (s *Sheet) SetHistoryLimit(limit int) {
	s.history.SetLimit(limit)
}

// ClearHistory drops both history stacks
func (s *Sheet) ClearHistory() {
	s.history.Clear()
}

// restore copies a snapshot back in; the viewport is left alone
func (s *Sheet) restore(snap versioning.Snapshot) {
	restored := versioning.NewSnapshot(snap.Items, snap.Connectors, snap.Layout)
	s.items = restored.Items
	s.connectors = restored.Connectors
}
