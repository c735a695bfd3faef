package versioning

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
)

func snapshotWith(n int) Snapshot {
	items := make([]*entities.Item, n)
	for i := range items {
		items[i] = entities.NewItem(fmt.Sprintf("Type%d", i), valueobjects.Point{}, valueobjects.Size{})
	}
	return NewSnapshot(items, nil, LayoutStaging{})
}

func TestHistory_RecordTruncatesToLimit(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Record(snapshotWith(i))
	}

	assert.Equal(t, 3, h.UndoDepth())

	// Oldest entries were dropped: the remaining ones hold 3, 4, 5 items
	current := snapshotWith(0)
	var sizes []int
	for h.CanUndo() {
		prev, ok := h.Undo(current)
		require.True(t, ok)
		sizes = append(sizes, len(prev.Items))
		current = prev
	}
	assert.Equal(t, []int{5, 4, 3}, sizes)
}

func TestHistory_RecordClearsRedo(t *testing.T) {
	h := NewHistory(20)
	h.Record(snapshotWith(1))
	_, ok := h.Undo(snapshotWith(2))
	require.True(t, ok)
	assert.True(t, h.CanRedo())

	h.Record(snapshotWith(3))
	assert.False(t, h.CanRedo())
}

func TestHistory_UndoRedoSymmetry(t *testing.T) {
	h := NewHistory(20)
	before := snapshotWith(1)
	after := snapshotWith(2)
	h.Record(before)

	restored, ok := h.Undo(after)
	require.True(t, ok)
	assert.Len(t, restored.Items, 1)

	again, ok := h.Redo(restored)
	require.True(t, ok)
	assert.Len(t, again.Items, 2)
	assert.Equal(t, 1, h.UndoDepth())
	assert.Equal(t, 0, h.RedoDepth())
}

func TestHistory_EmptyStacks(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, 1, h.Limit())

	_, ok := h.Undo(snapshotWith(0))
	assert.False(t, ok)
	_, ok = h.Redo(snapshotWith(0))
	assert.False(t, ok)
}

func TestHistory_SetLimitShrinks(t *testing.T) {
	h := NewHistory(10)
	for i := 0; i < 10; i++ {
		h.Record(snapshotWith(i))
	}
	h.SetLimit(4)
	assert.Equal(t, 4, h.UndoDepth())
}

func TestSnapshot_IsDetached(t *testing.T) {
	item := entities.NewItem("MCB", valueobjects.Point{X: 1}, valueobjects.Size{})
	snap := NewSnapshot([]*entities.Item{item}, nil, LayoutStaging{Staged: []string{"a"}, Placed: []string{"z", "b"}})

	item.Position.X = 99
	assert.Equal(t, 1.0, snap.Items[0].Position.X)
	assert.Equal(t, []string{"b", "z"}, snap.Layout.Placed)
}

func TestHistory_PeekLeavesStacks(t *testing.T) {
	h := NewHistory(5)
	_, ok := h.PeekUndo()
	assert.False(t, ok)

	h.Record(snapshotWith(1))
	h.Record(snapshotWith(2))

	next, ok := h.PeekUndo()
	require.True(t, ok)
	assert.Len(t, next.Items, 2)
	assert.Equal(t, 2, h.UndoDepth())

	_, ok = h.Undo(snapshotWith(3))
	require.True(t, ok)
	parked, ok := h.PeekRedo()
	require.True(t, ok)
	assert.Len(t, parked.Items, 3)
	assert.Equal(t, 1, h.RedoDepth())
}
