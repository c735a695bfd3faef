package versioning

import (
	"sort"
	"time"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
)

// LayoutStaging is the coupled floor-plan store's undoable state
type LayoutStaging struct {
	Staged []string `json:"staged"`
	Placed []string `json:"placed"`
}

// Clone returns a detached copy with the placed ids sorted
func (l LayoutStaging) Clone() LayoutStaging {
	cp := LayoutStaging{
		Staged: append([]string(nil), l.Staged...),
		Placed: append([]string(nil), l.Placed...),
	}
	sort.Strings(cp.Placed)
	return cp
}

// Snapshot is a deep, detached copy of a sheet's structural state
type Snapshot struct {
	Items      []*entities.Item      `json:"items"`
	Connectors []*entities.Connector `json:"connectors"`
	Layout     LayoutStaging         `json:"layout"`
	TakenAt    time.Time             `json:"-"`
}

// NewSnapshot deep-copies the given state
func NewSnapshot(items []*entities.Item, connectors []*entities.Connector, layout LayoutStaging) Snapshot {
	s := Snapshot{
		Items:      make([]*entities.Item, len(items)),
		Connectors: make([]*entities.Connector, len(connectors)),
		Layout:     layout.Clone(),
		TakenAt:    time.Now(),
	}
	for i, item := range items {
		s.Items[i] = item.Clone()
	}
	for i, c := range connectors {
		s.Connectors[i] = c.Clone()
	}
	return s
}

// History is a pair of bounded undo/redo snapshot stacks
type History struct {
	limit int
	undo  []Snapshot
	redo  []Snapshot
}

// NewHistory creates a history keeping at most limit entries per stack
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{limit: limit}
}

// Limit returns the maximum depth of each stack
func (h *History) Limit() int {
	return h.limit
}

// SetLimit changes the depth, dropping the oldest entries when shrinking
func (h *History) SetLimit(limit int) {
	if limit < 1 {
		limit = 1
	}
	h.limit = limit
	h.undo = trim(h.undo, limit)
	h.redo = trim(h.redo, limit)
}

// Record pushes a pre-mutation snapshot and invalidates redo
func (h *History) Record(s Snapshot) {
	h.undo = trim(append(h.undo, s), h.limit)
	h.redo = nil
}

// Undo pops the latest snapshot, parking current on the redo stack
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undo) == 0 {
		return Snapshot{}, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = trim(append(h.redo, current), h.limit)
	return prev, true
}

// Redo pops the latest undone snapshot, parking current on the undo stack
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redo) == 0 {
		return Snapshot{}, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = trim(append(h.undo, current), h.limit)
	return next, true
}

// PeekUndo returns the snapshot Undo would restore, leaving both stacks alone
func (h *History) PeekUndo() (Snapshot, bool) {
	if len(h.undo) == 0 {
		return Snapshot{}, false
	}
	return h.undo[len(h.undo)-1], true
}

// PeekRedo returns the snapshot Redo would restore, leaving both stacks alone
func (h *History) PeekRedo() (Snapshot, bool) {
	if len(h.redo) == 0 {
		return Snapshot{}, false
	}
	return h.redo[len(h.redo)-1], true
}

// CanUndo reports whether an undo step is available
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo step is available
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoDepth returns the number of undo entries
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth returns the number of redo entries
func (h *History) RedoDepth() int { return len(h.redo) }

// Clear drops both stacks
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

func trim(stack []Snapshot, limit int) []Snapshot {
	if len(stack) <= limit {
		return stack
	}
	return append([]Snapshot(nil), stack[len(stack)-limit:]...)
}
