package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
)

func TestItemClone_IsDetached(t *testing.T) {
	item := NewItem("MCB", valueobjects.Point{X: 10, Y: 20}, valueobjects.Size{Width: 40, Height: 80})
	item.SetProperty("Current Rating", "16A")
	item.ConnectionPoints["in"] = valueobjects.Point{X: 20, Y: 0}
	item.Accessories = []map[string]string{{"Enclosure": "Yes"}}

	cp := item.Clone()
	cp.SetProperty("Current Rating", "32A")
	cp.ConnectionPoints["out"] = valueobjects.Point{X: 20, Y: 80}
	cp.Accessories[0]["Enclosure"] = "No"

	assert.Equal(t, "16A", item.Property("Current Rating"))
	assert.False(t, item.HasConnectionPoint("out"))
	assert.Equal(t, "Yes", item.Accessories[0]["Enclosure"])
}

func TestItemPortalAccessors(t *testing.T) {
	item := NewItem(PortalType, valueobjects.Point{}, valueobjects.Size{})
	item.MergeProperties(map[string]string{
		PropNetID:     "n1",
		PropDirection: "out",
		PropLabel:     "P1",
	})

	assert.True(t, item.IsPortal())
	assert.Equal(t, valueobjects.NetID("n1"), item.NetID())
	assert.True(t, item.IsPortalWithDirection(valueobjects.DirectionOut))
	assert.False(t, item.IsPortalWithDirection(valueobjects.DirectionIn))
	assert.Equal(t, "P1", item.Label())
}

func TestItemProperty_EmptyList(t *testing.T) {
	item := &Item{}
	assert.Equal(t, "", item.Property("x"))
	item.SetProperty("x", "1")
	require.Len(t, item.Properties, 1)
	assert.Equal(t, "1", item.Property("x"))
}

func TestConnectorReverse(t *testing.T) {
	c := &Connector{SourceID: "a", SourceKey: "in", TargetID: "b", TargetKey: "out1"}
	c.Reverse()
	assert.Equal(t, valueobjects.ItemID("b"), c.SourceID)
	assert.Equal(t, "out1", c.SourceKey)
	assert.Equal(t, valueobjects.ItemID("a"), c.TargetID)
	assert.Equal(t, "in", c.TargetKey)
}

func TestConnectorMirrorFrom(t *testing.T) {
	src := &Connector{
		ID:                  "src",
		Properties:          map[string]string{"Core": "4 Core"},
		AlternativeCompany1: "Havells",
		MaterialType:        valueobjects.MaterialCable,
		Laying:              map[string]string{"Method": "Tray"},
		Length:              25,
	}
	mirror := &Connector{ID: "mirror", Length: 12, Properties: map[string]string{"Core": "2 Core"}}

	mirror.MirrorFrom(src)

	assert.Equal(t, map[string]string{"Core": "4 Core", PropIsVirtual: "True"}, mirror.Properties)
	assert.True(t, mirror.IsVirtual)
	assert.Zero(t, mirror.Length)
	assert.Equal(t, "Havells", mirror.AlternativeCompany1)
	assert.Equal(t, valueobjects.MaterialCable, mirror.MaterialType)

	// source untouched
	_, flagged := src.Properties[PropIsVirtual]
	assert.False(t, flagged)
	mirror.Laying["Method"] = "Conduit"
	assert.Equal(t, "Tray", src.Laying["Method"])
}

func TestConnectorTouches(t *testing.T) {
	c := &Connector{SourceID: "a", TargetID: "b"}
	assert.True(t, c.Touches("a"))
	assert.True(t, c.Touches("b"))
	assert.False(t, c.Touches("c"))
	assert.True(t, c.TouchesAny(valueobjects.NewItemSet("x", "b")))
	assert.False(t, c.TouchesAny(valueobjects.NewItemSet("x")))
}

func TestZeroCurrentValues(t *testing.T) {
	cv := ZeroCurrentValues()
	assert.Equal(t, "0 A", cv.TotalCurrent)
	assert.Equal(t, "0 A", cv.RCurrent)
	assert.Equal(t, "0 A", cv.YCurrent)
	assert.Equal(t, "0 A", cv.BCurrent)
	assert.Empty(t, cv.Phase)
}
