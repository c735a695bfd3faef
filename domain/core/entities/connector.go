package entities

import (
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
)

// CurrentValues holds the solver's phase/current annotations for a connector.
// The engine only seeds, preserves and clears it.
type CurrentValues struct {
	TotalCurrent string `json:"totalCurrent"`
	RCurrent     string `json:"rCurrent"`
	YCurrent     string `json:"yCurrent"`
	BCurrent     string `json:"bCurrent"`
	Phase        string `json:"phase"`
}

// ZeroCurrentValues returns the placeholder block given to new connectors
func ZeroCurrentValues() *CurrentValues {
	return &CurrentValues{
		TotalCurrent: "0 A",
		RCurrent:     "0 A",
		YCurrent:     "0 A",
		BCurrent:     "0 A",
		Phase:        "",
	}
}

// Connector is a directed link from a send-side connection point to a
// receive-side connection point
type Connector struct {
	ID                  valueobjects.ConnectorID  `json:"id"`
	SourceID            valueobjects.ItemID       `json:"sourceId"`
	SourceKey           string                    `json:"sourcePointKey"`
	TargetID            valueobjects.ItemID       `json:"targetId"`
	TargetKey           string                    `json:"targetPointKey"`
	Properties          map[string]string         `json:"properties"`
	AlternativeCompany1 string                    `json:"alternativeCompany1,omitempty"`
	AlternativeCompany2 string                    `json:"alternativeCompany2,omitempty"`
	MaterialType        valueobjects.MaterialType `json:"materialType"`
	Laying              map[string]string         `json:"laying,omitempty"`
	Accessories         []map[string]string       `json:"accessories,omitempty"`
	Length              float64                   `json:"length"`
	IsVirtual           bool                      `json:"isVirtual"`
	CurrentValues       *CurrentValues            `json:"currentValues,omitempty"`
}

// Clone returns a deep, detached copy
func (c *Connector) Clone() *Connector {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Properties = cloneMap(c.Properties)
	cp.Laying = cloneMap(c.Laying)
	cp.Accessories = cloneMapList(c.Accessories)
	if c.CurrentValues != nil {
		cv := *c.CurrentValues
		cp.CurrentValues = &cv
	}
	return &cp
}

// Touches reports whether either endpoint is the given item
func (c *Connector) Touches(id valueobjects.ItemID) bool {
	return c.SourceID == id || c.TargetID == id
}

// TouchesAny reports whether either endpoint is in the set
func (c *Connector) TouchesAny(ids valueobjects.ItemSet) bool {
	return ids.Has(c.SourceID) || ids.Has(c.TargetID)
}

// Reverse swaps source and target along with their keys
func (c *Connector) Reverse() {
	c.SourceID, c.TargetID = c.TargetID, c.SourceID
	c.SourceKey, c.TargetKey = c.TargetKey, c.SourceKey
}

// MirrorFrom copies the electrical description of src onto c and marks c as
// a zero-length virtual continuation
func (c *Connector) MirrorFrom(src *Connector) {
	c.Properties = cloneMap(src.Properties)
	if c.Properties == nil {
		c.Properties = make(map[string]string)
	}
	c.Properties[PropIsVirtual] = "True"
	c.AlternativeCompany1 = src.AlternativeCompany1
	c.AlternativeCompany2 = src.AlternativeCompany2
	c.Laying = cloneMap(src.Laying)
	c.MaterialType = src.MaterialType
	c.Length = 0
	c.IsVirtual = true
}
