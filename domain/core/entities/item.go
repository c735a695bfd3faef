package entities

import (
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
)

// PortalType is the item type name that marks an item as a portal
const PortalType = "Portal"

// Well-known property keys
const (
	PropNetID     = "NetId"
	PropDirection = "Direction"
	PropLabel     = "Label"
	PropIsVirtual = "IsVirtual"
	PropVoltage   = "Voltage"
)

// Item is a placeable diagram component owned by exactly one sheet.
// Properties holds one dictionary per variant; index 0 is canonical.
type Item struct {
	ID                  valueobjects.ItemID           `json:"id"`
	Type                string                        `json:"type"`
	Position            valueobjects.Point            `json:"position"`
	Size                valueobjects.Size             `json:"size"`
	Rotation            int                           `json:"rotation"`
	Properties          []map[string]string           `json:"properties"`
	ConnectionPoints    map[string]valueobjects.Point `json:"connectionPoints"`
	Locked              bool                          `json:"locked"`
	AlternativeCompany1 string                        `json:"alternativeCompany1,omitempty"`
	AlternativeCompany2 string                        `json:"alternativeCompany2,omitempty"`
	Incomer             map[string]string             `json:"incomer,omitempty"`
	OutgoingWays        []map[string]string           `json:"outgoing,omitempty"`
	Accessories         []map[string]string           `json:"accessories,omitempty"`
	LayoutComponentID   string                        `json:"layoutComponentId,omitempty"`
}

// NewItem creates an item with a fresh id and an empty canonical property set
func NewItem(itemType string, position valueobjects.Point, size valueobjects.Size) *Item {
	return &Item{
		ID:               valueobjects.NewItemID(),
		Type:             itemType,
		Position:         position,
		Size:             size,
		Properties:       []map[string]string{{}},
		ConnectionPoints: make(map[string]valueobjects.Point),
	}
}

// Clone returns a deep, detached copy
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	cp := *i
	cp.Properties = cloneMapList(i.Properties)
	if i.ConnectionPoints != nil {
		cp.ConnectionPoints = make(map[string]valueobjects.Point, len(i.ConnectionPoints))
		for k, v := range i.ConnectionPoints {
			cp.ConnectionPoints[k] = v
		}
	}
	cp.Incomer = cloneMap(i.Incomer)
	cp.OutgoingWays = cloneMapList(i.OutgoingWays)
	cp.Accessories = cloneMapList(i.Accessories)
	return &cp
}

// Property reads a key from the canonical property dictionary
func (i *Item) Property(key string) string {
	if len(i.Properties) == 0 {
		return ""
	}
	return i.Properties[0][key]
}

// SetProperty writes a key into the canonical property dictionary
func (i *Item) SetProperty(key, value string) {
	i.ensureCanonical()
	i.Properties[0][key] = value
}

// MergeProperties overlays props onto the canonical property dictionary
func (i *Item) MergeProperties(props map[string]string) {
	i.ensureCanonical()
	for k, v := range props {
		i.Properties[0][k] = v
	}
}

func (i *Item) ensureCanonical() {
	if len(i.Properties) == 0 {
		i.Properties = []map[string]string{{}}
	}
	if i.Properties[0] == nil {
		i.Properties[0] = make(map[string]string)
	}
}

// IsPortal reports whether the item is a cross-sheet portal
func (i *Item) IsPortal() bool {
	return i.Type == PortalType
}

// NetID returns the portal's net identifier
func (i *Item) NetID() valueobjects.NetID {
	return valueobjects.NetID(i.Property(PropNetID))
}

// Direction returns the portal's direction
func (i *Item) Direction() valueobjects.PortalDirection {
	return valueobjects.PortalDirection(i.Property(PropDirection))
}

// Label returns the portal's user-facing label
func (i *Item) Label() string {
	return i.Property(PropLabel)
}

// IsPortalWithDirection reports whether the item is a portal facing dir
func (i *Item) IsPortalWithDirection(dir valueobjects.PortalDirection) bool {
	return i.IsPortal() && i.Direction() == dir
}

// HasConnectionPoint reports whether key is a declared attachment point
func (i *Item) HasConnectionPoint(key string) bool {
	_, ok := i.ConnectionPoints[key]
	return ok
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func cloneMapList(list []map[string]string) []map[string]string {
	if list == nil {
		return nil
	}
	cp := make([]map[string]string, len(list))
	for idx, m := range list {
		cp[idx] = cloneMap(m)
	}
	return cp
}
