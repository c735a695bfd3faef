// Package schema defines the persisted diagram document and its migrations.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// CurrentVersion is the document version written by Encode
const CurrentVersion = 2

// Document is the saved form of a diagram. Connectors reference items by id.
type Document struct {
	Version       int                     `json:"version"`
	ActiveSheetID valueobjects.SheetID    `json:"activeSheetId,omitempty"`
	Sheets        []aggregates.SheetState `json:"sheets"`
}

// Codec reads and writes documents, upgrading older versions on read
type Codec struct {
	evolution *SchemaEvolution
}

// NewCodec creates a codec with the built-in migrations
func NewCodec() *Codec {
	return &Codec{evolution: NewSchemaEvolution()}
}

// Decode parses a document of any known version. A bare JSON array is read
// as the sheet list of a version 1 document.
func (c *Codec) Decode(data []byte) (*Document, []SchemaVersion, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, apperrors.NewValidationError("document is not valid JSON").WithCause(err)
	}

	var doc map[string]interface{}
	switch v := raw.(type) {
	case []interface{}:
		doc = map[string]interface{}{"version": float64(1), "sheets": v}
	case map[string]interface{}:
		doc = v
	default:
		return nil, nil, apperrors.NewValidationError("document must be an object or a sheet list")
	}

	version := 1
	if v, ok := doc["version"].(float64); ok && v >= 1 {
		version = int(v)
	}

	applied, err := c.evolution.Upgrade(doc, version, CurrentVersion)
	if err != nil {
		return nil, applied, apperrors.NewValidationError(err.Error()).WithCause(err)
	}

	upgraded, err := json.Marshal(doc)
	if err != nil {
		return nil, applied, fmt.Errorf("failed to re-encode migrated document: %w", err)
	}
	var out Document
	if err := json.Unmarshal(upgraded, &out); err != nil {
		return nil, applied, apperrors.NewValidationError("document does not match the diagram schema").WithCause(err)
	}
	if len(out.Sheets) == 0 {
		return nil, applied, apperrors.NewValidationError("document has no sheets")
	}
	return &out, applied, nil
}

// Encode writes sheets as a current-version document
func (c *Codec) Encode(sheets []aggregates.SheetState, activeID valueobjects.SheetID) ([]byte, error) {
	return json.Marshal(Document{
		Version:       CurrentVersion,
		ActiveSheetID: activeID,
		Sheets:        sheets,
	})
}
