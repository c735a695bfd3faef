package queries

import (
	"errors"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
)

// GetSheetsQuery lists every sheet tab
type GetSheetsQuery struct{}

// Validate validates the query
func (q GetSheetsQuery) Validate() error { return nil }

// GetSheetQuery fetches the full content of one sheet
type GetSheetQuery struct {
	SheetID string
}

// Validate validates the query
func (q GetSheetQuery) Validate() error {
	if q.SheetID == "" {
		return errors.New("sheetID is required")
	}
	return nil
}

// GetItemQuery fetches one item
type GetItemQuery struct {
	ItemID string
}

// Validate validates the query
func (q GetItemQuery) Validate() error {
	if q.ItemID == "" {
		return errors.New("itemID is required")
	}
	return nil
}

// GetConnectorQuery fetches one connector
type GetConnectorQuery struct {
	ConnectorID string
}

// Validate validates the query
func (q GetConnectorQuery) Validate() error {
	if q.ConnectorID == "" {
		return errors.New("connectorID is required")
	}
	return nil
}

// GetNetsQuery lists every portal net
type GetNetsQuery struct{}

// Validate validates the query
func (q GetNetsQuery) Validate() error { return nil }

// GetSelectionQuery returns the current selection
type GetSelectionQuery struct{}

// Validate validates the query
func (q GetSelectionQuery) Validate() error { return nil }

// GetClipboardQuery returns the clipboard content
type GetClipboardQuery struct{}

// Validate validates the query
func (q GetClipboardQuery) Validate() error { return nil }

// GetHistoryQuery reports a sheet's undo/redo depth; the active sheet when
// SheetID is empty
type GetHistoryQuery struct {
	SheetID string
}

// Validate validates the query
func (q GetHistoryQuery) Validate() error { return nil }

// GetDocumentQuery exports the whole diagram
type GetDocumentQuery struct{}

// Validate validates the query
func (q GetDocumentQuery) Validate() error { return nil }

// DocumentResult is the exported diagram
type DocumentResult struct {
	ActiveSheetID string                  `json:"activeSheetId"`
	Sheets        []aggregates.SheetState `json:"sheets"`
}

// ValidateDiagramQuery runs the integrity checks
type ValidateDiagramQuery struct{}

// Validate validates the query
func (q ValidateDiagramQuery) Validate() error { return nil }

// IntegrityResult lists integrity issues by field
type IntegrityResult struct {
	Valid  bool                `json:"valid"`
	Codes  []string            `json:"codes,omitempty"`
	Issues map[string][]string `json:"issues,omitempty"`
}

// MaterialPromptQuery asks whether connecting two items needs a material choice
type MaterialPromptQuery struct {
	SourceID string
	TargetID string
}

// Validate validates the query
func (q MaterialPromptQuery) Validate() error {
	if q.SourceID == "" || q.TargetID == "" {
		return errors.New("sourceID and targetID are required")
	}
	return nil
}

// MaterialPromptResult answers a MaterialPromptQuery
type MaterialPromptResult struct {
	Required bool     `json:"required"`
	Choices  []string `json:"choices,omitempty"`
}

// GetLayoutComponentsQuery lists the floor-plan components
type GetLayoutComponentsQuery struct{}

// Validate validates the query
func (q GetLayoutComponentsQuery) Validate() error { return nil }

// GetEngineStatusQuery reports recalculation progress
type GetEngineStatusQuery struct{}

// Validate validates the query
func (q GetEngineStatusQuery) Validate() error { return nil }

// EngineStatusResult describes the recalculation state
type EngineStatusResult struct {
	Generation    uint64 `json:"generation"`
	RecalcPending bool   `json:"recalcPending"`
	ActiveSheetID string `json:"activeSheetId"`
	SheetCount    int    `json:"sheetCount"`
}
