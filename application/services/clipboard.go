package services

import (
	"context"
	"math"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// Selection is the current pick on the active sheet. Item and connector
// selection are mutually exclusive.
type Selection struct {
	ItemIDs     []valueobjects.ItemID    `json:"itemIds"`
	ConnectorID valueobjects.ConnectorID `json:"connectorId,omitempty"`
	PanelOpen   bool                     `json:"panelOpen"`
}

// Clipboard holds detached copies of the last copied items and of the
// connectors whose both endpoints were copied
type Clipboard struct {
	Items      []*entities.Item      `json:"items"`
	Connectors []*entities.Connector `json:"connectors"`
}

func (c Clipboard) clone() Clipboard {
	cp := Clipboard{
		Items:      make([]*entities.Item, len(c.Items)),
		Connectors: make([]*entities.Connector, len(c.Connectors)),
	}
	for i, item := range c.Items {
		cp.Items[i] = item.Clone()
	}
	for i, conn := range c.Connectors {
		cp.Connectors[i] = conn.Clone()
	}
	return cp
}

// SelectItem changes the item selection. A zero id clears everything; multi
// toggles membership, otherwise the item becomes the sole selection.
func (e *Editor) SelectItem(id valueobjects.ItemID, multi, openPanel bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id.IsZero() {
		e.selection = Selection{}
		return nil
	}
	if !e.diagram.ActiveSheet().HasItem(id) {
		return apperrors.NewNotFoundError("item " + id.String() + " on active sheet")
	}

	e.selection.ConnectorID = ""
	e.selection.PanelOpen = openPanel
	if !multi {
		e.selection.ItemIDs = []valueobjects.ItemID{id}
		return nil
	}
	for i, selected := range e.selection.ItemIDs {
		if selected == id {
			e.selection.ItemIDs = append(e.selection.ItemIDs[:i:i], e.selection.ItemIDs[i+1:]...)
			return nil
		}
	}
	e.selection.ItemIDs = append(e.selection.ItemIDs, id)
	return nil
}

// SelectConnector selects a single connector and clears the item selection.
// An empty id clears the connector selection.
func (e *Editor) SelectConnector(id valueobjects.ConnectorID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == "" {
		e.selection.ConnectorID = ""
		return nil
	}
	if _, ok := e.diagram.ActiveSheet().Connector(id); !ok {
		return apperrors.NewNotFoundError("connector " + id.String() + " on active sheet")
	}
	e.selection = Selection{ConnectorID: id}
	return nil
}

// Selection returns a copy of the current selection
func (e *Editor) Selection() Selection {
	e.mu.Lock()
	defer e.mu.Unlock()

	sel := e.selection
	sel.ItemIDs = append([]valueobjects.ItemID(nil), e.selection.ItemIDs...)
	return sel
}

// Clipboard returns a copy of the clipboard
func (e *Editor) Clipboard() Clipboard {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clipboard.clone()
}

// CopySelection captures the selected items and every connector with both
// endpoints among them. Connectors crossing the selection boundary are left
// out.
func (e *Editor) CopySelection() Clipboard {
	e.mu.Lock()
	defer e.mu.Unlock()

	sheet := e.diagram.ActiveSheet()
	selected := valueobjects.NewItemSet(e.selection.ItemIDs...)

	var cb Clipboard
	for _, item := range sheet.Items() {
		if selected.Has(item.ID) {
			cb.Items = append(cb.Items, item.Clone())
		}
	}
	for _, c := range sheet.Connectors() {
		if selected.Has(c.SourceID) && selected.Has(c.TargetID) {
			cb.Connectors = append(cb.Connectors, c.Clone())
		}
	}
	e.clipboard = cb
	return cb.clone()
}

// PasteSelection places a fresh copy of the clipboard on the active sheet.
// Items move by the paste offset, or so that the group's top-left corner lands
// on target when one is given. Copied portals join a new net so they never
// overfill the original one. The pasted items become the selection.
func (e *Editor) PasteSelection(ctx context.Context, target *valueobjects.Point) ([]*entities.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.clipboard.Items) == 0 {
		return nil, nil
	}

	sheet := e.diagram.ActiveSheet()
	if err := e.before(ctx, OpPaste, sheet.ID()); err != nil {
		return nil, err
	}
	e.snapshot(sheet)

	delta := valueobjects.Point{X: e.config.PasteOffset, Y: e.config.PasteOffset}
	if target != nil {
		delta = target.Sub(topLeft(e.clipboard.Items))
	}

	remap := make(map[valueobjects.ItemID]valueobjects.ItemID, len(e.clipboard.Items))
	nets := make(map[valueobjects.NetID]valueobjects.NetID)
	labels := make(map[valueobjects.NetID]string)
	pasted := make([]*entities.Item, 0, len(e.clipboard.Items))
	ids := make([]string, 0, len(e.clipboard.Items))

	for _, src := range e.clipboard.Items {
		item := src.Clone()
		item.ID = valueobjects.NewItemID()
		item.Position = item.Position.Add(delta)
		item.LayoutComponentID = ""
		if item.IsPortal() {
			netID, ok := nets[src.NetID()]
			if !ok {
				netID = valueobjects.NewNetID()
				nets[src.NetID()] = netID
				labels[netID] = e.nets.NextLabel(e.diagram)
			}
			item.SetProperty(entities.PropNetID, netID.String())
			item.SetProperty(entities.PropLabel, labels[netID])
		}
		if err := e.diagram.PlaceItem(sheet.ID(), item); err != nil {
			return nil, err
		}
		remap[src.ID] = item.ID
		pasted = append(pasted, item)
		ids = append(ids, item.ID.String())
	}

	connectors := 0
	for _, src := range e.clipboard.Connectors {
		sourceID, okSource := remap[src.SourceID]
		targetID, okTarget := remap[src.TargetID]
		if !okSource || !okTarget {
			continue
		}
		c := src.Clone()
		c.ID = valueobjects.NewConnectorID()
		c.SourceID = sourceID
		c.TargetID = targetID
		c.CurrentValues = entities.ZeroCurrentValues()
		if err := e.diagram.Connect(sheet.ID(), c); err != nil {
			return nil, err
		}
		connectors++
	}

	e.selection = Selection{ItemIDs: make([]valueobjects.ItemID, len(pasted))}
	for i, item := range pasted {
		e.selection.ItemIDs[i] = item.ID
	}
	e.commit(ctx, OpPaste, sheet.ID(), ids, connectors > 0)

	result := make([]*entities.Item, len(pasted))
	for i, item := range pasted {
		result[i] = item.Clone()
	}
	return result, nil
}

// dropFromSelection forgets deleted items
func (e *Editor) dropFromSelection(deleted valueobjects.ItemSet) {
	kept := e.selection.ItemIDs[:0:0]
	for _, id := range e.selection.ItemIDs {
		if !deleted.Has(id) {
			kept = append(kept, id)
		}
	}
	e.selection.ItemIDs = kept
}

func topLeft(items []*entities.Item) valueobjects.Point {
	corner := valueobjects.Point{X: math.Inf(1), Y: math.Inf(1)}
	for _, item := range items {
		corner.X = math.Min(corner.X, item.Position.X)
		corner.Y = math.Min(corner.Y, item.Position.Y)
	}
	return corner
}
