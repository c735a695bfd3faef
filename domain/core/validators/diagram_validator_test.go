package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	"github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

func portal(netID, dir string) *entities.Item {
	p := entities.NewItem(entities.PortalType, valueobjects.Point{}, valueobjects.Size{Width: 60, Height: 30})
	p.MergeProperties(map[string]string{entities.PropNetID: netID, entities.PropDirection: dir, entities.PropLabel: "P1"})
	return p
}

func plain(t string) *entities.Item {
	return entities.NewItem(t, valueobjects.Point{}, valueobjects.Size{Width: 40, Height: 40})
}

func wire(a, b *entities.Item) *entities.Connector {
	return &entities.Connector{ID: valueobjects.NewConnectorID(), SourceID: a.ID, SourceKey: "out", TargetID: b.ID, TargetKey: "in"}
}

func TestDiagramValidator_CleanDiagram(t *testing.T) {
	d := aggregates.NewDiagram(20)
	a, b := plain("MCCB"), plain("MCB")
	require.NoError(t, d.PlaceItem(d.ActiveSheetID(), a))
	require.NoError(t, d.PlaceItem(d.ActiveSheetID(), b))
	require.NoError(t, d.Connect(d.ActiveSheetID(), wire(a, b)))

	assert.Nil(t, NewDiagramValidator(nil).Validate(d))
}

func TestDiagramValidator_NetIssues(t *testing.T) {
	d := aggregates.NewDiagram(20)
	sheet := d.ActiveSheet()
	for _, p := range []*entities.Item{portal("n1", "out"), portal("n1", "out"), portal("n1", "in"), portal("n2", "sideways")} {
		require.NoError(t, d.PlaceItem(sheet.ID(), p))
	}

	report := NewDiagramValidator(nil).Validate(d)
	require.NotNil(t, report)
	assert.ElementsMatch(t, []string{
		errors.CodePortalDirection,
		errors.CodeNetOverfull,
		errors.CodeNetMultipleOut,
	}, report.Codes())
}

func TestDiagramValidator_DanglingConnector(t *testing.T) {
	a, b := plain("MCCB"), plain("MCB")
	state := aggregates.SheetState{
		ID:         "s1",
		Name:       "Sheet 1",
		Items:      []*entities.Item{a},
		Connectors: []*entities.Connector{wire(a, b)},
	}
	d, err := aggregates.ReconstructDiagram([]aggregates.SheetState{state}, "s1", 20)
	require.NoError(t, err)

	report := NewDiagramValidator(nil).Validate(d)
	require.NotNil(t, report)
	assert.Equal(t, []string{errors.CodeDanglingConnector}, report.Codes())
	assert.Error(t, d.Validate())
}

func TestDiagramValidator_MirrorDiverged(t *testing.T) {
	d := aggregates.NewDiagram(20)
	s1 := d.ActiveSheet()
	s2 := d.AddSheet("")
	out, in := portal("n1", "out"), portal("n1", "in")
	feeder, load := plain("MCCB"), plain("MCB")
	require.NoError(t, d.PlaceItem(s1.ID(), out))
	require.NoError(t, d.PlaceItem(s1.ID(), feeder))
	require.NoError(t, d.PlaceItem(s2.ID(), in))
	require.NoError(t, d.PlaceItem(s2.ID(), load))

	src := wire(feeder, out)
	src.Properties = map[string]string{"Core": "4 Core"}
	src.MaterialType = valueobjects.MaterialCable
	require.NoError(t, d.Connect(s1.ID(), src))

	ghost := wire(in, load)
	require.NoError(t, d.Connect(s2.ID(), ghost))
	d.MirrorConnector(s2.ID(), ghost, src, "n1")

	v := NewDiagramValidator(nil)
	assert.Nil(t, v.Validate(d))

	ghost.Properties["Core"] = "2 Core"
	report := v.Validate(d)
	require.NotNil(t, report)
	assert.Equal(t, []string{errors.CodeMirrorDiverged}, report.Codes())
}

func TestDiagramValidator_ValidateItemType(t *testing.T) {
	v := NewDiagramValidator(nil)
	assert.NoError(t, v.ValidateItemType("MCB"))
	assert.Error(t, v.ValidateItemType("  "))
}
