package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

func TestConnectorDefaults_Canonicalize(t *testing.T) {
	svc := NewConnectorDefaults(nil)
	a := item("MCB", "in")
	b := item("MCCB", "out1")

	tests := []struct {
		name    string
		c       *entities.Connector
		swapped bool
	}{
		{name: "drawn from in to out1", c: connector(a, "in", b, "out1"), swapped: true},
		{name: "drawn from out1 to in", c: connector(b, "out1", a, "in"), swapped: false},
		{name: "inconclusive keys", c: connector(a, "left", b, "right"), swapped: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.swapped, svc.Canonicalize(tt.c))
			if tt.name != "inconclusive keys" {
				assert.Equal(t, b.ID, tt.c.SourceID)
				assert.Equal(t, "out1", tt.c.SourceKey)
				assert.Equal(t, a.ID, tt.c.TargetID)
				assert.Equal(t, "in", tt.c.TargetKey)
			}
		})
	}
}

func TestConnectorDefaults_NeedsMaterialPrompt(t *testing.T) {
	svc := NewConnectorDefaults(nil)
	nets := NewNetService(nil)

	tests := []struct {
		name   string
		source *entities.Item
		target *entities.Item
		want   bool
	}{
		{name: "ordinary items", source: item("MCB"), target: item("Bulb"), want: true},
		{name: "fixed-rating target", source: item("MCB"), target: item("Point Switch Board"), want: false},
		{name: "fixed-rating source", source: item("Avg. 5A Switch Board"), target: item("Bulb"), want: false},
		{name: "in portal", source: nets.NewPortal("n", valueobjects.DirectionIn, "P1", valueobjects.Point{}), target: item("Bulb"), want: false},
		{name: "out portal", source: item("MCCB"), target: nets.NewPortal("n", valueobjects.DirectionOut, "P1", valueobjects.Point{}), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.NeedsMaterialPrompt(tt.source, tt.target))
		})
	}
}

func TestConnectorDefaults_PhaseOf(t *testing.T) {
	svc := NewConnectorDefaults(nil)

	withVoltage := func(itemType, voltage string) *entities.Item {
		it := item(itemType)
		it.SetProperty(entities.PropVoltage, voltage)
		return it
	}

	tests := []struct {
		name string
		item *entities.Item
		want valueobjects.PhaseType
	}{
		{name: "table three phase", item: item("MCCB"), want: valueobjects.PhaseThree},
		{name: "table single phase", item: item("MCB"), want: valueobjects.PhaseSingle},
		{name: "unknown type", item: item("Mystery Box"), want: valueobjects.PhaseUnknown},
		{name: "voltage overrides table", item: withVoltage("MCB", "415V"), want: valueobjects.PhaseThree},
		{name: "low voltage", item: withVoltage("Mystery Box", "230 V"), want: valueobjects.PhaseSingle},
		{name: "garbage voltage falls back", item: withVoltage("MCCB", "n/a"), want: valueobjects.PhaseThree},
		{name: "three-phase type keeps its phase at low voltage", item: withVoltage("Motor", "230V"), want: valueobjects.PhaseThree},
		{name: "low voltage on single-phase type", item: withVoltage("MCB", "230"), want: valueobjects.PhaseSingle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.PhaseOf(tt.item))
		})
	}
}

func TestConnectorDefaults_MinimumWiringSize(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.WiringSizes = []string{
		"3 x 4 + 2 x 2.5 sq.mm",
		"2 x 2.5 + 1 x 1.5 sq.mm",
		"3 x 1.5 + 2 x 1.5 sq.mm",
		"2 x 1.5 + 1 x 1.5 sq.mm",
		"2 x 10 + 1 x 6 sq.mm",
		"4 Core 16 sq.mm",
	}
	svc := NewConnectorDefaults(cfg)

	size, ok := svc.MinimumWiringSize(valueobjects.PhaseThree)
	require.True(t, ok)
	assert.Equal(t, "3 x 1.5 + 2 x 1.5 sq.mm", size)

	size, ok = svc.MinimumWiringSize(valueobjects.PhaseSingle)
	require.True(t, ok)
	assert.Equal(t, "2 x 1.5 + 1 x 1.5 sq.mm", size)

	cfg.WiringSizes = []string{"4 Core 16 sq.mm"}
	_, ok = svc.MinimumWiringSize(valueobjects.PhaseSingle)
	assert.False(t, ok)
}

func TestConnectorDefaults_Apply(t *testing.T) {
	svc := NewConnectorDefaults(nil)
	nets := NewNetService(nil)

	tests := []struct {
		name      string
		source    *entities.Item
		target    *entities.Item
		material  valueobjects.MaterialType
		props     map[string]string
		wantCode  string
		wantMat   valueobjects.MaterialType
		wantProps map[string]string
	}{
		{
			name: "cable to three phase", source: item("ACB", "out"), target: item("MCCB", "in"),
			material: valueobjects.MaterialCable,
			wantMat:  valueobjects.MaterialCable, wantProps: map[string]string{PropCore: CoreThreePhase},
		},
		{
			name: "cable to single phase", source: item("MCCB", "out"), target: item("SPN DB", "in"),
			material: valueobjects.MaterialCable,
			wantMat:  valueobjects.MaterialCable, wantProps: map[string]string{PropCore: CoreSinglePhase},
		},
		{
			name: "wiring to three phase", source: item("MCCB", "out"), target: item("Motor", "in"),
			material: valueobjects.MaterialWiring,
			wantMat:  valueobjects.MaterialWiring, wantProps: map[string]string{PropSize: "3 x 1.5 + 2 x 1.5 sq.mm"},
		},
		{
			name: "exempt downstream forced single phase", source: item("MCCB", "out"), target: withVoltageItem("Point Switch Board", "415"),
			wantMat: valueobjects.MaterialCable, wantProps: map[string]string{PropCore: CoreSinglePhase},
		},
		{
			name: "in portal defaults to cable", source: nets.NewPortal("n", valueobjects.DirectionIn, "P1", valueobjects.Point{}), target: item("VTPN", "in"),
			wantMat: valueobjects.MaterialCable, wantProps: map[string]string{PropCore: CoreThreePhase},
		},
		{
			name: "caller properties win", source: item("ACB", "out"), target: item("MCCB", "in"),
			material: valueobjects.MaterialCable, props: map[string]string{PropCore: "3.5 Core", "Size": "95 sq.mm"},
			wantMat: valueobjects.MaterialCable, wantProps: map[string]string{PropCore: "3.5 Core", "Size": "95 sq.mm"},
		},
		{
			name: "missing material rejected", source: item("MCB", "out"), target: item("Bulb", "in"),
			wantCode: apperrors.CodeMaterialRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := connector(tt.source, "out", tt.target, "in")
			if tt.props != nil {
				c.Properties = tt.props
			}

			err := svc.Apply(c, tt.source, tt.target, tt.material)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, apperrors.RejectionCode(err))
				assert.Nil(t, c.CurrentValues)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMat, c.MaterialType)
			assert.Equal(t, tt.wantProps, c.Properties)
			assert.Equal(t, entities.ZeroCurrentValues(), c.CurrentValues)
		})
	}
}

func TestConnectorDefaults_DownstreamFallback(t *testing.T) {
	svc := NewConnectorDefaults(nil)
	a, b := item("MCCB"), item("MCB")

	assert.Same(t, b, svc.Downstream(connector(a, "left", b, "right"), a, b))
	assert.Same(t, a, svc.Downstream(connector(a, "in", b, "right"), a, b))
	assert.Same(t, b, svc.Downstream(connector(a, "out", b, "in2"), a, b))
}

func withVoltageItem(itemType, voltage string) *entities.Item {
	it := item(itemType, "in")
	it.SetProperty(entities.PropVoltage, voltage)
	return it
}
