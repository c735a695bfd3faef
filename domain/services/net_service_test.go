package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

type netFixture struct {
	diagram *aggregates.Diagram
	sheet1  *aggregates.Sheet
	sheet2  *aggregates.Sheet
	out     *entities.Item
	in      *entities.Item
	feeder  *entities.Item
	load    *entities.Item
}

func newNetFixture(t *testing.T, svc *NetService) *netFixture {
	t.Helper()
	d := aggregates.NewDiagram(20)
	f := &netFixture{diagram: d, sheet1: d.ActiveSheet(), sheet2: d.AddSheet("")}

	netID := valueobjects.NetID("n1")
	f.out = svc.NewPortal(netID, valueobjects.DirectionOut, "P1", valueobjects.Point{X: 200})
	f.in = svc.NewPortal(netID, valueobjects.DirectionIn, "P1", valueobjects.Point{X: 10})
	f.feeder = item("MCCB", "out")
	f.load = item("SPN DB", "in")

	require.NoError(t, d.PlaceItem(f.sheet1.ID(), f.out))
	require.NoError(t, d.PlaceItem(f.sheet1.ID(), f.feeder))
	require.NoError(t, d.PlaceItem(f.sheet2.ID(), f.in))
	require.NoError(t, d.PlaceItem(f.sheet2.ID(), f.load))
	return f
}

func item(itemType string, keys ...string) *entities.Item {
	it := entities.NewItem(itemType, valueobjects.Point{}, valueobjects.Size{Width: 40, Height: 40})
	for _, k := range keys {
		it.ConnectionPoints[k] = valueobjects.Point{}
	}
	return it
}

func connector(src *entities.Item, srcKey string, tgt *entities.Item, tgtKey string) *entities.Connector {
	return &entities.Connector{
		ID:         valueobjects.NewConnectorID(),
		SourceID:   src.ID,
		SourceKey:  srcKey,
		TargetID:   tgt.ID,
		TargetKey:  tgtKey,
		Properties: map[string]string{},
	}
}

func TestNetService_NewPortal(t *testing.T) {
	svc := NewNetService(config.DefaultDomainConfig())

	out := svc.NewPortal("n1", valueobjects.DirectionOut, "P1", valueobjects.Point{X: 5})
	assert.True(t, out.IsPortal())
	assert.Equal(t, valueobjects.Size{Width: 60, Height: 30}, out.Size)
	assert.Equal(t, map[string]valueobjects.Point{"in": {X: 0, Y: 15}}, out.ConnectionPoints)

	in := svc.NewPortal("n1", valueobjects.DirectionIn, "P1", valueobjects.Point{})
	assert.Equal(t, map[string]valueobjects.Point{"out": {X: 60, Y: 15}}, in.ConnectionPoints)
	assert.Equal(t, "P1", in.Label())
}

func TestNetService_NextLabel(t *testing.T) {
	svc := NewNetService(nil)
	d := aggregates.NewDiagram(20)
	assert.Equal(t, "P1", svc.NextLabel(d))

	require.NoError(t, d.PlaceItem(d.ActiveSheetID(), svc.NewPortal("a", valueobjects.DirectionOut, "P1", valueobjects.Point{})))
	require.NoError(t, d.PlaceItem(d.ActiveSheetID(), svc.NewPortal("b", valueobjects.DirectionOut, "P3", valueobjects.Point{})))
	assert.Equal(t, "P2", svc.NextLabel(d))
}

func TestNetService_CheckPairing(t *testing.T) {
	svc := NewNetService(nil)
	f := newNetFixture(t, svc)

	_, err := svc.CheckPairing(f.diagram, "n1")
	assert.Equal(t, apperrors.CodeNetFull, apperrors.RejectionCode(err))

	_, err = svc.CheckPairing(f.diagram, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestNetService_CheckLabel(t *testing.T) {
	svc := NewNetService(nil)
	f := newNetFixture(t, svc)
	require.NoError(t, f.diagram.PlaceItem(f.sheet1.ID(), svc.NewPortal("n2", valueobjects.DirectionOut, "P2", valueobjects.Point{})))

	assert.NoError(t, svc.CheckLabel(f.diagram, "n1", "P1"))
	assert.NoError(t, svc.CheckLabel(f.diagram, "n1", "Feeder A"))
	assert.Equal(t, apperrors.CodeDuplicateLabel, apperrors.RejectionCode(svc.CheckLabel(f.diagram, "n1", "P2")))
	assert.True(t, apperrors.IsValidation(svc.CheckLabel(f.diagram, "n1", " ")))
}

func TestNetService_CheckAttach(t *testing.T) {
	svc := NewNetService(nil)
	f := newNetFixture(t, svc)

	t.Run("portal to portal", func(t *testing.T) {
		other := svc.NewPortal("n9", valueobjects.DirectionOut, "P9", valueobjects.Point{})
		require.NoError(t, f.diagram.PlaceItem(f.sheet1.ID(), other))
		err := svc.CheckAttach(f.sheet1, connector(other, "in", f.out, "in"), "")
		assert.Equal(t, apperrors.CodePortalToPortal, apperrors.RejectionCode(err))
	})

	t.Run("first connection allowed", func(t *testing.T) {
		c := connector(f.feeder, "out", f.out, "in")
		require.NoError(t, svc.CheckAttach(f.sheet1, c, ""))
		require.NoError(t, f.diagram.Connect(f.sheet1.ID(), c))
	})

	t.Run("second connection rejected", func(t *testing.T) {
		second := item("MCB", "out")
		require.NoError(t, f.diagram.PlaceItem(f.sheet1.ID(), second))
		err := svc.CheckAttach(f.sheet1, connector(second, "out", f.out, "in"), "")
		assert.Equal(t, apperrors.CodePortalAlreadyConnected, apperrors.RejectionCode(err))
		assert.Len(t, f.sheet1.ConnectorsTouching(f.out.ID), 1)
	})

	t.Run("replacing the existing connection allowed", func(t *testing.T) {
		existing := f.sheet1.ConnectorsTouching(f.out.ID)[0]
		assert.NoError(t, svc.CheckAttach(f.sheet1, existing, existing.ID))
	})
}

func TestNetService_ExpandDeletion(t *testing.T) {
	svc := NewNetService(nil)
	f := newNetFixture(t, svc)

	t.Run("out portal cascades to sibling", func(t *testing.T) {
		set := svc.ExpandDeletion(f.diagram, []valueobjects.ItemID{f.out.ID})
		assert.True(t, set.Has(f.out.ID))
		assert.True(t, set.Has(f.in.ID))
	})

	t.Run("in portal does not cascade", func(t *testing.T) {
		set := svc.ExpandDeletion(f.diagram, []valueobjects.ItemID{f.in.ID})
		assert.True(t, set.Has(f.in.ID))
		assert.False(t, set.Has(f.out.ID))
	})

	t.Run("plain item", func(t *testing.T) {
		set := svc.ExpandDeletion(f.diagram, []valueobjects.ItemID{f.load.ID})
		assert.Len(t, set, 1)
	})
}

func TestNetService_Propagate(t *testing.T) {
	svc := NewNetService(nil)

	t.Run("out side edit overwrites in side connector", func(t *testing.T) {
		f := newNetFixture(t, svc)
		ghost := connector(f.in, "out", f.load, "in")
		ghost.Length = 7
		require.NoError(t, f.diagram.Connect(f.sheet2.ID(), ghost))

		src := connector(f.feeder, "out", f.out, "in")
		src.MaterialType = valueobjects.MaterialCable
		src.Properties = map[string]string{"Core": "4 Core"}
		src.Length = 30
		require.NoError(t, f.diagram.Connect(f.sheet1.ID(), src))

		assert.Equal(t, []*aggregates.Sheet{f.sheet2}, svc.MirrorSheets(f.diagram, f.sheet1, src))
		mirrors := svc.Propagate(f.diagram, f.sheet1, src)

		require.Len(t, mirrors, 1)
		assert.Equal(t, ghost.ID, mirrors[0].Target)
		assert.Equal(t, map[string]string{"Core": "4 Core", entities.PropIsVirtual: "True"}, ghost.Properties)
		assert.True(t, ghost.IsVirtual)
		assert.Zero(t, ghost.Length)
		assert.Equal(t, "0 A", ghost.CurrentValues.TotalCurrent)
	})

	t.Run("attaching at in side copies from out side", func(t *testing.T) {
		f := newNetFixture(t, svc)
		src := connector(f.feeder, "out", f.out, "in")
		src.MaterialType = valueobjects.MaterialCable
		src.Properties = map[string]string{"Core": "4 Core"}
		require.NoError(t, f.diagram.Connect(f.sheet1.ID(), src))
		assert.Empty(t, svc.Propagate(f.diagram, f.sheet1, src))

		ghost := connector(f.in, "out", f.load, "in")
		require.NoError(t, f.diagram.Connect(f.sheet2.ID(), ghost))
		mirrors := svc.Propagate(f.diagram, f.sheet2, ghost)

		require.Len(t, mirrors, 1)
		assert.Equal(t, src.ID, mirrors[0].Source)
		assert.Equal(t, "True", ghost.Properties[entities.PropIsVirtual])
		assert.True(t, ghost.IsVirtual)
	})

	t.Run("incomplete net does nothing", func(t *testing.T) {
		d := aggregates.NewDiagram(20)
		lone := svc.NewPortal("solo", valueobjects.DirectionOut, "P1", valueobjects.Point{})
		feeder := item("MCCB", "out")
		require.NoError(t, d.PlaceItem(d.ActiveSheetID(), lone))
		require.NoError(t, d.PlaceItem(d.ActiveSheetID(), feeder))
		c := connector(feeder, "out", lone, "in")
		require.NoError(t, d.Connect(d.ActiveSheetID(), c))

		assert.Empty(t, svc.Propagate(d, d.ActiveSheet(), c))
		assert.Empty(t, svc.MirrorSheets(d, d.ActiveSheet(), c))
	})
}
