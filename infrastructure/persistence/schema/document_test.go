package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

const v1Document = `{
  "sheets": [{
    "id": "sheet-1",
    "name": "Main",
    "items": [
      {"id": "a", "type": "MCCB", "properties": {"Voltage": "415V"}, "connectionPoints": {"out": {"x": 40, "y": 20}}},
      {"id": "b", "type": "MCB", "connectionPoints": {"in": {"x": 0, "y": 20}}}
    ],
    "connectors": [
      {"id": "c1", "sourceId": "a", "sourcePointKey": "out", "targetId": "b", "targetPointKey": "in", "materialType": "Cable"}
    ],
    "viewport": {"pan": {"x": 0, "y": 0}, "scale": 1}
  }]
}`

func TestCodec_DecodeMigratesV1(t *testing.T) {
	doc, applied, err := NewCodec().Decode([]byte(v1Document))
	require.NoError(t, err)

	require.Len(t, applied, 1)
	assert.Equal(t, 2, applied[0].Version)
	assert.Equal(t, CurrentVersion, doc.Version)

	require.Len(t, doc.Sheets, 1)
	sheet := doc.Sheets[0]
	assert.Equal(t, valueobjects.SheetID("sheet-1"), sheet.ID)
	require.Len(t, sheet.Items, 2)
	assert.Equal(t, []map[string]string{{"Voltage": "415V"}}, sheet.Items[0].Properties)
	assert.Equal(t, []map[string]string{{}}, sheet.Items[1].Properties)
	require.Len(t, sheet.Connectors, 1)
	assert.Equal(t, valueobjects.ItemID("a"), sheet.Connectors[0].SourceID)
	assert.Equal(t, valueobjects.MaterialCable, sheet.Connectors[0].MaterialType)
}

func TestCodec_DecodeBareSheetList(t *testing.T) {
	doc, applied, err := NewCodec().Decode([]byte(`[{"id": "s", "name": "Only", "items": [], "connectors": []}]`))
	require.NoError(t, err)
	assert.Len(t, applied, 1)
	require.Len(t, doc.Sheets, 1)
	assert.Equal(t, "Only", doc.Sheets[0].Name)
}

func TestCodec_RoundTrip(t *testing.T) {
	item := entities.NewItem("MCB", valueobjects.Point{X: 1, Y: 2}, valueobjects.Size{Width: 40, Height: 40})
	item.Properties[0]["Rating"] = "32A"
	sheets := []aggregates.SheetState{{
		ID:         valueobjects.NewSheetID(),
		Name:       "Sheet 1",
		Items:      []*entities.Item{item},
		Connectors: []*entities.Connector{},
		Viewport:   valueobjects.Viewport{Scale: 1.5},
	}}

	codec := NewCodec()
	data, err := codec.Encode(sheets, sheets[0].ID)
	require.NoError(t, err)

	doc, applied, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Equal(t, sheets[0].ID, doc.ActiveSheetID)
	assert.Equal(t, sheets, doc.Sheets)
}

func TestCodec_DecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"scalar", `42`},
		{"no sheets", `{"version": 2, "sheets": []}`},
		{"future version", `{"version": 9, "sheets": [{"id": "s"}]}`},
		{"bad properties", `{"version": 1, "sheets": [{"items": [{"properties": 7}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewCodec().Decode([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestSchemaEvolution_RegisterMigration(t *testing.T) {
	s := NewSchemaEvolution()
	noop := func(map[string]interface{}) error { return nil }

	assert.Error(t, s.RegisterMigration(Migration{FromVersion: 1, ToVersion: 2, Up: noop}))
	assert.Error(t, s.RegisterMigration(Migration{FromVersion: 2, ToVersion: 4, Up: noop}))
	assert.Error(t, s.RegisterMigration(Migration{FromVersion: 2, ToVersion: 3}))

	require.NoError(t, s.RegisterMigration(Migration{FromVersion: 2, ToVersion: 3, Description: "noop", Up: noop}))
	assert.Equal(t, 3, s.Latest())

	doc := map[string]interface{}{"sheets": []interface{}{}}
	applied, err := s.Upgrade(doc, 1, 3)
	require.NoError(t, err)
	assert.Len(t, applied, 2)
	assert.Equal(t, 3, doc["version"])

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version": 3, "sheets": []}`, string(raw))
}
