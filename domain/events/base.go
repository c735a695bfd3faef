package events

import (
	"time"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(sheetID valueobjects.SheetID, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: sheetID.String(),
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
	}
}

// Sheet Events

// SheetAdded is raised when a sheet is created
type SheetAdded struct {
	BaseEvent
	SheetID valueobjects.SheetID `json:"sheet_id"`
	Name    string               `json:"name"`
}

// NewSheetAdded creates a SheetAdded event
func NewSheetAdded(sheetID valueobjects.SheetID, name string, timestamp time.Time) SheetAdded {
	return SheetAdded{
		BaseEvent: newBase(sheetID, "sheet.added", timestamp),
		SheetID:   sheetID,
		Name:      name,
	}
}

// SheetRemoved is raised when a sheet is removed along with its contents
type SheetRemoved struct {
	BaseEvent
	SheetID   valueobjects.SheetID `json:"sheet_id"`
	ItemCount int                  `json:"item_count"`
}

// NewSheetRemoved creates a SheetRemoved event
func NewSheetRemoved(sheetID valueobjects.SheetID, itemCount int, timestamp time.Time) SheetRemoved {
	return SheetRemoved{
		BaseEvent: newBase(sheetID, "sheet.removed", timestamp),
		SheetID:   sheetID,
		ItemCount: itemCount,
	}
}

// Item Events

// ItemAdded is raised when an item is placed on a sheet
type ItemAdded struct {
	BaseEvent
	ItemID   valueobjects.ItemID `json:"item_id"`
	ItemType string              `json:"item_type"`
}

// NewItemAdded creates an ItemAdded event
func NewItemAdded(sheetID valueobjects.SheetID, itemID valueobjects.ItemID, itemType string, timestamp time.Time) ItemAdded {
	return ItemAdded{
		BaseEvent: newBase(sheetID, "item.added", timestamp),
		ItemID:    itemID,
		ItemType:  itemType,
	}
}

// ItemsDeleted is raised once per sheet affected by a (possibly cascading) delete
type ItemsDeleted struct {
	BaseEvent
	ItemIDs      []valueobjects.ItemID      `json:"item_ids"`
	ConnectorIDs []valueobjects.ConnectorID `json:"connector_ids"`
}

// NewItemsDeleted creates an ItemsDeleted event
func NewItemsDeleted(sheetID valueobjects.SheetID, itemIDs []valueobjects.ItemID, connectorIDs []valueobjects.ConnectorID, timestamp time.Time) ItemsDeleted {
	return ItemsDeleted{
		BaseEvent:    newBase(sheetID, "items.deleted", timestamp),
		ItemIDs:      itemIDs,
		ConnectorIDs: connectorIDs,
	}
}

// PortalCreated is raised when a portal joins a net
type PortalCreated struct {
	BaseEvent
	ItemID    valueobjects.ItemID          `json:"item_id"`
	NetID     valueobjects.NetID           `json:"net_id"`
	Direction valueobjects.PortalDirection `json:"direction"`
}

// NewPortalCreated creates a PortalCreated event
func NewPortalCreated(sheetID valueobjects.SheetID, itemID valueobjects.ItemID, netID valueobjects.NetID, dir valueobjects.PortalDirection, timestamp time.Time) PortalCreated {
	return PortalCreated{
		BaseEvent: newBase(sheetID, "portal.created", timestamp),
		ItemID:    itemID,
		NetID:     netID,
		Direction: dir,
	}
}

// Connector Events

// ConnectorAdded is raised when a connector is stored
type ConnectorAdded struct {
	BaseEvent
	ConnectorID valueobjects.ConnectorID `json:"connector_id"`
	SourceID    valueobjects.ItemID      `json:"source_id"`
	TargetID    valueobjects.ItemID      `json:"target_id"`
}

// NewConnectorAdded creates a ConnectorAdded event
func NewConnectorAdded(sheetID valueobjects.SheetID, connectorID valueobjects.ConnectorID, sourceID, targetID valueobjects.ItemID, timestamp time.Time) ConnectorAdded {
	return ConnectorAdded{
		BaseEvent:   newBase(sheetID, "connector.added", timestamp),
		ConnectorID: connectorID,
		SourceID:    sourceID,
		TargetID:    targetID,
	}
}

// ConnectorUpdated is raised when a connector's description changes
type ConnectorUpdated struct {
	BaseEvent
	ConnectorID valueobjects.ConnectorID `json:"connector_id"`
}

// NewConnectorUpdated creates a ConnectorUpdated event
func NewConnectorUpdated(sheetID valueobjects.SheetID, connectorID valueobjects.ConnectorID, timestamp time.Time) ConnectorUpdated {
	return ConnectorUpdated{
		BaseEvent:   newBase(sheetID, "connector.updated", timestamp),
		ConnectorID: connectorID,
	}
}

// ConnectorRemoved is raised when a single connector is deleted
type ConnectorRemoved struct {
	BaseEvent
	ConnectorID valueobjects.ConnectorID `json:"connector_id"`
}

// NewConnectorRemoved creates a ConnectorRemoved event
func NewConnectorRemoved(sheetID valueobjects.SheetID, connectorID valueobjects.ConnectorID, timestamp time.Time) ConnectorRemoved {
	return ConnectorRemoved{
		BaseEvent:   newBase(sheetID, "connector.removed", timestamp),
		ConnectorID: connectorID,
	}
}

// ConnectorMirrored is raised when a net's receiving connector is overwritten
// from its sending counterpart
type ConnectorMirrored struct {
	BaseEvent
	SourceConnectorID valueobjects.ConnectorID `json:"source_connector_id"`
	MirrorConnectorID valueobjects.ConnectorID `json:"mirror_connector_id"`
	NetID             valueobjects.NetID       `json:"net_id"`
}

// NewConnectorMirrored creates a ConnectorMirrored event
func NewConnectorMirrored(sheetID valueobjects.SheetID, source, mirror valueobjects.ConnectorID, netID valueobjects.NetID, timestamp time.Time) ConnectorMirrored {
	return ConnectorMirrored{
		BaseEvent:         newBase(sheetID, "connector.mirrored", timestamp),
		SourceConnectorID: source,
		MirrorConnectorID: mirror,
		NetID:             netID,
	}
}

// Diagram Events

// DiagramLoaded is raised after the load path replaced the sheet list
type DiagramLoaded struct {
	BaseEvent
	SheetCount        int `json:"sheet_count"`
	DroppedConnectors int `json:"dropped_connectors"`
}

// NewDiagramLoaded creates a DiagramLoaded event
func NewDiagramLoaded(activeSheet valueobjects.SheetID, sheetCount, dropped int, timestamp time.Time) DiagramLoaded {
	return DiagramLoaded{
		BaseEvent:         newBase(activeSheet, "diagram.loaded", timestamp),
		SheetCount:        sheetCount,
		DroppedConnectors: dropped,
	}
}

// DiagramRecalculated is raised when solver annotations replace the live state
type DiagramRecalculated struct {
	BaseEvent
	Generation uint64 `json:"generation"`
}

// NewDiagramRecalculated creates a DiagramRecalculated event
func NewDiagramRecalculated(activeSheet valueobjects.SheetID, generation uint64, timestamp time.Time) DiagramRecalculated {
	return DiagramRecalculated{
		BaseEvent:  newBase(activeSheet, "diagram.recalculated", timestamp),
		Generation: generation,
	}
}
