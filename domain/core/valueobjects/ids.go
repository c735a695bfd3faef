package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// ItemID identifies a placeable item. Ids are unique across the whole diagram.
type ItemID string

// ConnectorID identifies a connector
type ConnectorID string

// SheetID identifies a sheet
type SheetID string

// NetID is the opaque group identifier shared by the portals of one net
type NetID string

// NewItemID creates a new random ItemID
func NewItemID() ItemID {
	return ItemID(uuid.New().String())
}

// NewConnectorID creates a new random ConnectorID
func NewConnectorID() ConnectorID {
	return ConnectorID(uuid.New().String())
}

// NewSheetID creates a new random SheetID
func NewSheetID() SheetID {
	return SheetID(uuid.New().String())
}

// NewNetID creates a new random NetID
func NewNetID() NetID {
	return NetID(uuid.New().String())
}

// ParseItemID validates an externally supplied item id
func ParseItemID(id string) (ItemID, error) {
	if id == "" {
		return "", errors.New("item ID cannot be empty")
	}
	return ItemID(id), nil
}

func (id ItemID) String() string      { return string(id) }
func (id ConnectorID) String() string { return string(id) }
func (id SheetID) String() string     { return string(id) }
func (id NetID) String() string       { return string(id) }

// IsZero checks if the ItemID is the zero value
func (id ItemID) IsZero() bool { return id == "" }

// IsZero checks if the NetID is the zero value
func (id NetID) IsZero() bool { return id == "" }

// ItemSet is a set of item ids
type ItemSet map[ItemID]struct{}

// NewItemSet builds a set from the given ids
func NewItemSet(ids ...ItemID) ItemSet {
	s := make(ItemSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an id
func (s ItemSet) Add(id ItemID) { s[id] = struct{}{} }

// Has reports membership
func (s ItemSet) Has(id ItemID) bool {
	_, ok := s[id]
	return ok
}
