package aggregates

import (
	"errors"
	"fmt"
	"time"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	"github.com/rickerduniya/Sayanho-sub000/domain/events"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// PortalRef locates a portal item together with its owning sheet
type PortalRef struct {
	Sheet *Sheet
	Item  *entities.Item
}

// SheetDeletion describes what a deletion removed from one sheet
type SheetDeletion struct {
	SheetID    valueobjects.SheetID
	Items      []*entities.Item
	Connectors []valueobjects.ConnectorID
}

// Diagram is the aggregate root for a multi-sheet single-line diagram.
// The sheet list is never empty.
type Diagram struct {
	sheets       []*Sheet
	activeID     valueobjects.SheetID
	historyLimit int
	events       []events.DomainEvent
}

// NewDiagram creates a diagram with a single empty sheet
func NewDiagram(historyLimit int) *Diagram {
	d := &Diagram{historyLimit: historyLimit}
	sheet := d.AddSheet("")
	d.activeID = sheet.ID()
	return d
}

// ReconstructDiagram recreates a diagram from detached sheet states
func ReconstructDiagram(states []SheetState, activeID valueobjects.SheetID, historyLimit int) (*Diagram, error) {
	if len(states) == 0 {
		return nil, apperrors.NewValidationError("a diagram needs at least one sheet")
	}
	d := &Diagram{historyLimit: historyLimit}
	for _, state := range states {
		sheet := ReconstructSheet(state, historyLimit)
		if _, exists := d.Sheet(sheet.ID()); exists {
			return nil, apperrors.NewConflictError(fmt.Sprintf("duplicate sheet id %s", sheet.ID()))
		}
		d.sheets = append(d.sheets, sheet)
	}
	d.activeID = d.sheets[0].ID()
	if _, ok := d.Sheet(activeID); ok {
		d.activeID = activeID
	}
	return d, nil
}

// Sheets returns the sheets in order
func (d *Diagram) Sheets() []*Sheet {
	sheets := make([]*Sheet, len(d.sheets))
	copy(sheets, d.sheets)
	return sheets
}

// Sheet looks up a sheet by id
func (d *Diagram) Sheet(id valueobjects.SheetID) (*Sheet, bool) {
	for _, s := range d.sheets {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

// ActiveSheet returns the currently active sheet
func (d *Diagram) ActiveSheet() *Sheet {
	if s, ok := d.Sheet(d.activeID); ok {
		return s
	}
	return d.sheets[0]
}

// ActiveSheetID returns the id of the active sheet
func (d *Diagram) ActiveSheetID() valueobjects.SheetID {
	return d.ActiveSheet().ID()
}

// SetActiveSheet switches the active sheet
func (d *Diagram) SetActiveSheet(id valueobjects.SheetID) error {
	if _, ok := d.Sheet(id); !ok {
		return apperrors.NewNotFoundError("sheet " + id.String())
	}
	d.activeID = id
	return nil
}

// AddSheet appends a new empty sheet. An empty name gets "Sheet <n>".
func (d *Diagram) AddSheet(name string) *Sheet {
	if name == "" {
		name = d.nextSheetName()
	}
	sheet := NewSheet(name, d.historyLimit)
	d.sheets = append(d.sheets, sheet)
	d.addEvent(events.NewSheetAdded(sheet.ID(), name, time.Now()))
	return sheet
}

// RemoveSheet deletes a sheet and everything on it. The last sheet cannot be
// removed; if the active sheet goes, its neighbour becomes active.
func (d *Diagram) RemoveSheet(id valueobjects.SheetID) error {
	idx := -1
	for i, s := range d.sheets {
		if s.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.NewNotFoundError("sheet " + id.String())
	}
	if len(d.sheets) == 1 {
		return apperrors.NewRejectedError(apperrors.CodeLastSheet, "the last remaining sheet cannot be removed")
	}

	removed := d.sheets[idx]
	d.sheets = append(d.sheets[:idx], d.sheets[idx+1:]...)
	if d.activeID == id {
		next := idx
		if next >= len(d.sheets) {
			next = len(d.sheets) - 1
		}
		d.activeID = d.sheets[next].ID()
	}
	d.addEvent(events.NewSheetRemoved(id, removed.ItemCount(), time.Now()))
	return nil
}

// RenameSheet changes a sheet's display name
func (d *Diagram) RenameSheet(id valueobjects.SheetID, name string) error {
	sheet, ok := d.Sheet(id)
	if !ok {
		return apperrors.NewNotFoundError("sheet " + id.String())
	}
	if err := sheet.Rename(name); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

// SetHistoryLimit resizes the history of every sheet
func (d *Diagram) SetHistoryLimit(limit int) {
	d.historyLimit = limit
	for _, s := range d.sheets {
		s.SetHistoryLimit(limit)
	}
}

// FindItem locates an item on any sheet
func (d *Diagram) FindItem(id valueobjects.ItemID) (*Sheet, *entities.Item, bool) {
	for _, s := range d.sheets {
		if item, ok := s.Item(id); ok {
			return s, item, true
		}
	}
	return nil, nil, false
}

// FindConnector locates a connector on any sheet
func (d *Diagram) FindConnector(id valueobjects.ConnectorID) (*Sheet, *entities.Connector, bool) {
	for _, s := range d.sheets {
		if c, ok := s.Connector(id); ok {
			return s, c, true
		}
	}
	return nil, nil, false
}

// PortalsInNet returns every portal carrying the given net id, in sheet order
func (d *Diagram) PortalsInNet(netID valueobjects.NetID) []PortalRef {
	if netID.IsZero() {
		return nil
	}
	var refs []PortalRef
	for _, s := range d.sheets {
		for _, item := range s.items {
			if item.IsPortal() && item.NetID() == netID {
				refs = append(refs, PortalRef{Sheet: s, Item: item})
			}
		}
	}
	return refs
}

// Portals returns every portal on every sheet
func (d *Diagram) Portals() []PortalRef {
	var refs []PortalRef
	for _, s := range d.sheets {
		for _, item := range s.items {
			if item.IsPortal() {
				refs = append(refs, PortalRef{Sheet: s, Item: item})
			}
		}
	}
	return refs
}

// PlaceItem adds an item to a sheet
func (d *Diagram) PlaceItem(sheetID valueobjects.SheetID, item *entities.Item) error {
	sheet, ok := d.Sheet(sheetID)
	if !ok {
		return apperrors.NewNotFoundError("sheet " + sheetID.String())
	}
	if _, _, exists := d.FindItem(item.ID); exists {
		return apperrors.NewConflictError(fmt.Sprintf("item %s already exists", item.ID))
	}
	if err := sheet.AddItem(item); err != nil {
		return err
	}
	now := time.Now()
	d.addEvent(events.NewItemAdded(sheetID, item.ID, item.Type, now))
	if item.IsPortal() {
		d.addEvent(events.NewPortalCreated(sheetID, item.ID, item.NetID(), item.Direction(), now))
	}
	return nil
}

// Connect stores a connector on the sheet holding both of its endpoints
func (d *Diagram) Connect(sheetID valueobjects.SheetID, c *entities.Connector) error {
	sheet, ok := d.Sheet(sheetID)
	if !ok {
		return apperrors.NewNotFoundError("sheet " + sheetID.String())
	}
	if err := sheet.AddConnector(c); err != nil {
		return err
	}
	d.addEvent(events.NewConnectorAdded(sheetID, c.ID, c.SourceID, c.TargetID, time.Now()))
	return nil
}

// MarkConnectorUpdated records that a connector's description was edited
func (d *Diagram) MarkConnectorUpdated(sheetID valueobjects.SheetID, id valueobjects.ConnectorID) {
	d.addEvent(events.NewConnectorUpdated(sheetID, id, time.Now()))
}

// Disconnect removes a single connector
func (d *Diagram) Disconnect(id valueobjects.ConnectorID) (valueobjects.SheetID, error) {
	sheet, _, ok := d.FindConnector(id)
	if !ok {
		return "", apperrors.NewNotFoundError("connector " + id.String())
	}
	sheet.RemoveConnector(id)
	d.addEvent(events.NewConnectorRemoved(sheet.ID(), id, time.Now()))
	return sheet.ID(), nil
}

// MirrorConnector overwrites mirror with source's electrical description and
// clears its solver annotations
func (d *Diagram) MirrorConnector(sheetID valueobjects.SheetID, mirror, source *entities.Connector, netID valueobjects.NetID) {
	mirror.MirrorFrom(source)
	mirror.CurrentValues = entities.ZeroCurrentValues()
	d.addEvent(events.NewConnectorMirrored(sheetID, source.ID, mirror.ID, netID, time.Now()))
}

// SheetsHolding returns the sheets containing any of the given items
func (d *Diagram) SheetsHolding(ids valueobjects.ItemSet) []*Sheet {
	var sheets []*Sheet
	for _, s := range d.sheets {
		for _, item := range s.items {
			if ids.Has(item.ID) {
				sheets = append(sheets, s)
				break
			}
		}
	}
	return sheets
}

// DeleteItems applies a deletion set across every sheet. Connectors touching
// a removed item are removed wherever they live.
func (d *Diagram) DeleteItems(ids valueobjects.ItemSet) []SheetDeletion {
	var result []SheetDeletion
	now := time.Now()
	for _, s := range d.sheets {
		items, connectors := s.RemoveItems(ids)
		if len(items) == 0 && len(connectors) == 0 {
			continue
		}
		itemIDs := make([]valueobjects.ItemID, len(items))
		for i, item := range items {
			itemIDs[i] = item.ID
		}
		result = append(result, SheetDeletion{SheetID: s.ID(), Items: items, Connectors: connectors})
		d.addEvent(events.NewItemsDeleted(s.ID(), itemIDs, connectors, now))
	}
	return result
}

// States returns detached copies of every sheet
func (d *Diagram) States() []SheetState {
	states := make([]SheetState, len(d.sheets))
	for i, s := range d.sheets {
		states[i] = s.State()
	}
	return states
}

// ApplyStates replaces items and connectors of sheets matched by id. History,
// viewport and sheets without a counterpart are left untouched.
func (d *Diagram) ApplyStates(states []SheetState) int {
	applied := 0
	for _, state := range states {
		sheet, ok := d.Sheet(state.ID)
		if !ok {
			continue
		}
		cp := state.Clone()
		sheet.ReplaceContent(cp.Items, cp.Connectors)
		applied++
	}
	return applied
}

// RecordLoaded raises the load event after a diagram replaced the old one
func (d *Diagram) RecordLoaded(dropped int) {
	d.addEvent(events.NewDiagramLoaded(d.ActiveSheetID(), len(d.sheets), dropped, time.Now()))
}

// RecordRecalculated raises the recalculation event
func (d *Diagram) RecordRecalculated(generation uint64) {
	d.addEvent(events.NewDiagramRecalculated(d.ActiveSheetID(), generation, time.Now()))
}

// Validate ensures the structural invariants hold
func (d *Diagram) Validate() error {
	if len(d.sheets) == 0 {
		return errors.New("diagram has no sheets")
	}
	for _, s := range d.sheets {
		for _, c := range s.connectors {
			if !s.HasItem(c.SourceID) || !s.HasItem(c.TargetID) {
				return fmt.Errorf("connector %s on sheet %s references a missing item", c.ID, s.ID())
			}
		}
	}
	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (d *Diagram) GetUncommittedEvents() []events.DomainEvent {
	allEvents := make([]events.DomainEvent, len(d.events))
	copy(allEvents, d.events)
	return allEvents
}

// MarkEventsAsCommitted clears all uncommitted events
func (d *Diagram) MarkEventsAsCommitted() {
	d.events = []events.DomainEvent{}
}

// Private helper methods

func (d *Diagram) addEvent(event events.DomainEvent) {
	d.events = append(d.events, event)
}

func (d *Diagram) nextSheetName() string {
	for n := len(d.sheets) + 1; ; n++ {
		name := fmt.Sprintf("Sheet %d", n)
		taken := false
		for _, s := range d.sheets {
			if s.Name() == name {
				taken = true
				break
			}
		}
		if !taken {
			return name
		}
	}
}
