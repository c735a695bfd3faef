package valueobjects

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItemID(t *testing.T) {
	id := NewItemID()

	assert.NotEmpty(t, id.String())
	assert.False(t, id.IsZero())

	_, err := uuid.Parse(id.String())
	assert.NoError(t, err)
}

func TestParseItemID(t *testing.T) {
	_, err := ParseItemID("")
	assert.Error(t, err)

	id, err := ParseItemID("item-1")
	require.NoError(t, err)
	assert.Equal(t, ItemID("item-1"), id)
}

func TestConnectionPointKeys(t *testing.T) {
	tests := []struct {
		key       string
		receiving bool
		sending   bool
	}{
		{key: "in", receiving: true},
		{key: "In1", receiving: true},
		{key: "INPUT", receiving: true},
		{key: "out", sending: true},
		{key: "out1", sending: true},
		{key: "Out_2", sending: true},
		{key: "left"},
		{key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.receiving, IsReceivingKey(tt.key))
			assert.Equal(t, tt.sending, IsSendingKey(tt.key))
		})
	}
}

func TestParseMaterialType(t *testing.T) {
	m, err := ParseMaterialType("Cable")
	require.NoError(t, err)
	assert.Equal(t, MaterialCable, m)

	m, err = ParseMaterialType("Wiring")
	require.NoError(t, err)
	assert.Equal(t, MaterialWiring, m)

	_, err = ParseMaterialType("Busbar")
	assert.Error(t, err)
}

func TestPortalDirectionOpposite(t *testing.T) {
	assert.Equal(t, DirectionIn, DirectionOut.Opposite())
	assert.Equal(t, DirectionOut, DirectionIn.Opposite())
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{450, 90},
		{-90, 270},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRotation(tt.in))
	}
}

func TestNewSize(t *testing.T) {
	s, err := NewSize(60, 30)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 60, Height: 30}, s)

	_, err = NewSize(-1, 30)
	assert.Error(t, err)
}

func TestItemSet(t *testing.T) {
	a, b := NewItemID(), NewItemID()
	set := NewItemSet(a)
	assert.True(t, set.Has(a))
	assert.False(t, set.Has(b))
	set.Add(b)
	assert.True(t, set.Has(b))
}
