package commands

import (
	"errors"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
	"github.com/rickerduniya/Sayanho-sub000/pkg/utils"
)

func init() {
	mustRegister("material", string(valueobjects.MaterialCable), string(valueobjects.MaterialWiring))
	mustRegister("portal_direction", string(valueobjects.DirectionIn), string(valueobjects.DirectionOut))
}

func mustRegister(tag string, values ...string) {
	if err := utils.RegisterEnum(tag, values...); err != nil {
		panic(err)
	}
}

// validate runs struct tag validation and reports failures as validation errors
func validate(cmd interface{}) error {
	err := utils.ValidateStruct(cmd)
	if err == nil {
		return nil
	}
	appErr := apperrors.NewValidationError(err.Error())
	var fields utils.FieldErrors
	if errors.As(err, &fields) {
		appErr.Details = map[string]interface{}{"fields": fields.ToMap()}
	}
	return appErr
}

// Items

// AddItemCommand places a catalogue item on the active sheet
type AddItemCommand struct {
	ItemID              string                        `json:"id"`
	Type                string                        `json:"type" validate:"required,max=100"`
	X                   float64                       `json:"x"`
	Y                   float64                       `json:"y"`
	Width               float64                       `json:"width" validate:"gte=0"`
	Height              float64                       `json:"height" validate:"gte=0"`
	Rotation            int                           `json:"rotation"`
	Locked              bool                          `json:"locked"`
	Properties          []map[string]string           `json:"properties"`
	ConnectionPoints    map[string]valueobjects.Point `json:"connectionPoints"`
	AlternativeCompany1 string                        `json:"alternativeCompany1"`
	AlternativeCompany2 string                        `json:"alternativeCompany2"`
	Incomer             map[string]string             `json:"incomer"`
	OutgoingWays        []map[string]string           `json:"outgoing"`
	Accessories         []map[string]string           `json:"accessories"`
	LayoutComponentID   string                        `json:"layoutComponentId" validate:"max=200"`
}

// Validate validates the command
func (c AddItemCommand) Validate() error { return validate(c) }

// MoveItemsCommand sets absolute positions during a drag
type MoveItemsCommand struct {
	Positions map[string]valueobjects.Point `json:"positions" validate:"required,min=1"`
}

// Validate validates the command
func (c MoveItemsCommand) Validate() error { return validate(c) }

// BeginDragCommand opens a drag gesture
type BeginDragCommand struct{}

// Validate validates the command
func (c BeginDragCommand) Validate() error { return nil }

// EndDragCommand closes a drag gesture
type EndDragCommand struct{}

// Validate validates the command
func (c EndDragCommand) Validate() error { return nil }

// UpdateItemSizeCommand applies regenerated geometry to an item
type UpdateItemSizeCommand struct {
	ItemID           string                        `json:"-" validate:"required"`
	Width            float64                       `json:"width" validate:"gte=0"`
	Height           float64                       `json:"height" validate:"gte=0"`
	ConnectionPoints map[string]valueobjects.Point `json:"connectionPoints"`
}

// Validate validates the command
func (c UpdateItemSizeCommand) Validate() error { return validate(c) }

// UpdateItemLockCommand locks or unlocks an item
type UpdateItemLockCommand struct {
	ItemID string `json:"-" validate:"required"`
	Locked bool   `json:"locked"`
}

// Validate validates the command
func (c UpdateItemLockCommand) Validate() error { return validate(c) }

// UpdateItemPropertiesCommand replaces an item's editable payload
type UpdateItemPropertiesCommand struct {
	ItemID              string              `json:"-" validate:"required"`
	Properties          []map[string]string `json:"properties"`
	AlternativeCompany1 *string             `json:"alternativeCompany1"`
	AlternativeCompany2 *string             `json:"alternativeCompany2"`
	Incomer             map[string]string   `json:"incomer"`
	OutgoingWays        []map[string]string `json:"outgoing"`
	Accessories         []map[string]string `json:"accessories"`
}

// Validate validates the command
func (c UpdateItemPropertiesCommand) Validate() error { return validate(c) }

// UpdateItemTransformCommand sets position and rotation together
type UpdateItemTransformCommand struct {
	ItemID   string  `json:"-" validate:"required"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation int     `json:"rotation"`
}

// Validate validates the command
func (c UpdateItemTransformCommand) Validate() error { return validate(c) }

// RotateItemCommand turns an item a quarter turn
type RotateItemCommand struct {
	ItemID string `json:"-" validate:"required"`
}

// Validate validates the command
func (c RotateItemCommand) Validate() error { return validate(c) }

// DeleteItemCommand removes an item with the portal cascade
type DeleteItemCommand struct {
	ItemID string `json:"-" validate:"required"`
}

// Validate validates the command
func (c DeleteItemCommand) Validate() error { return validate(c) }

// DeleteSelectedCommand removes whatever is selected
type DeleteSelectedCommand struct{}

// Validate validates the command
func (c DeleteSelectedCommand) Validate() error { return nil }

// Connectors

// AddConnectorCommand draws a connector between two connection points
type AddConnectorCommand struct {
	SourceID            string              `json:"sourceId" validate:"required"`
	SourceKey           string              `json:"sourcePointKey" validate:"required"`
	TargetID            string              `json:"targetId" validate:"required"`
	TargetKey           string              `json:"targetPointKey" validate:"required"`
	MaterialType        string              `json:"materialType" validate:"omitempty,material"`
	Properties          map[string]string   `json:"properties"`
	Laying              map[string]string   `json:"laying"`
	Accessories         []map[string]string `json:"accessories"`
	Length              float64             `json:"length" validate:"gte=0"`
	AlternativeCompany1 string              `json:"alternativeCompany1"`
	AlternativeCompany2 string              `json:"alternativeCompany2"`
}

// Validate validates the command
func (c AddConnectorCommand) Validate() error { return validate(c) }

// UpdateConnectorCommand edits a connector's description
type UpdateConnectorCommand struct {
	ConnectorID         string              `json:"-" validate:"required"`
	Properties          map[string]string   `json:"properties"`
	MaterialType        *string             `json:"materialType" validate:"omitempty,material"`
	Laying              map[string]string   `json:"laying"`
	Accessories         []map[string]string `json:"accessories"`
	Length              *float64            `json:"length" validate:"omitempty,gte=0"`
	AlternativeCompany1 *string             `json:"alternativeCompany1"`
	AlternativeCompany2 *string             `json:"alternativeCompany2"`
}

// Validate validates the command
func (c UpdateConnectorCommand) Validate() error { return validate(c) }

// DeleteConnectorCommand removes one connector
type DeleteConnectorCommand struct {
	ConnectorID string `json:"-" validate:"required"`
}

// Validate validates the command
func (c DeleteConnectorCommand) Validate() error { return validate(c) }

// Portals

// CreatePortalCommand starts a new net on the active sheet
type CreatePortalCommand struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction string  `json:"direction" validate:"omitempty,portal_direction"`
}

// Validate validates the command
func (c CreatePortalCommand) Validate() error { return validate(c) }

// CreatePairedPortalCommand completes a net on another sheet
type CreatePairedPortalCommand struct {
	NetID   string  `json:"-" validate:"required"`
	SheetID string  `json:"sheetId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// Validate validates the command
func (c CreatePairedPortalCommand) Validate() error { return validate(c) }

// UpdatePortalLabelCommand renames every portal of a net
type UpdatePortalLabelCommand struct {
	NetID string `json:"-" validate:"required"`
	Label string `json:"label" validate:"required,max=50"`
}

// Validate validates the command
func (c UpdatePortalLabelCommand) Validate() error { return validate(c) }

// Selection and clipboard

// SelectItemCommand changes the item selection
type SelectItemCommand struct {
	ItemID    string `json:"itemId"`
	Multi     bool   `json:"multi"`
	OpenPanel bool   `json:"openPanel"`
}

// Validate validates the command
func (c SelectItemCommand) Validate() error { return nil }

// SelectConnectorCommand selects one connector
type SelectConnectorCommand struct {
	ConnectorID string `json:"connectorId"`
}

// Validate validates the command
func (c SelectConnectorCommand) Validate() error { return nil }

// CopySelectionCommand fills the clipboard from the selection
type CopySelectionCommand struct{}

// Validate validates the command
func (c CopySelectionCommand) Validate() error { return nil }

// PasteSelectionCommand pastes the clipboard, at Target when given
type PasteSelectionCommand struct {
	Target *valueobjects.Point `json:"target"`
}

// Validate validates the command
func (c PasteSelectionCommand) Validate() error { return nil }

// Sheets and history

// AddSheetCommand appends a sheet
type AddSheetCommand struct {
	Name string `json:"name" validate:"max=100"`
}

// Validate validates the command
func (c AddSheetCommand) Validate() error { return validate(c) }

// RemoveSheetCommand deletes a sheet
type RemoveSheetCommand struct {
	SheetID string `json:"-" validate:"required"`
}

// Validate validates the command
func (c RemoveSheetCommand) Validate() error { return validate(c) }

// RenameSheetCommand renames a sheet
type RenameSheetCommand struct {
	SheetID string `json:"-" validate:"required"`
	Name    string `json:"name" validate:"required,max=100"`
}

// Validate validates the command
func (c RenameSheetCommand) Validate() error { return validate(c) }

// SetActiveSheetCommand switches the active sheet
type SetActiveSheetCommand struct {
	SheetID string `json:"-" validate:"required"`
}

// Validate validates the command
func (c SetActiveSheetCommand) Validate() error { return validate(c) }

// UpdateViewportCommand stores a sheet's pan and zoom
type UpdateViewportCommand struct {
	SheetID string  `json:"-" validate:"required"`
	PanX    float64 `json:"panX"`
	PanY    float64 `json:"panY"`
	Scale   float64 `json:"scale" validate:"gt=0"`
}

// Validate validates the command
func (c UpdateViewportCommand) Validate() error { return validate(c) }

// UndoCommand undoes the active sheet's last step
type UndoCommand struct{}

// Validate validates the command
func (c UndoCommand) Validate() error { return nil }

// RedoCommand redoes the active sheet's last undone step
type RedoCommand struct{}

// Validate validates the command
func (c RedoCommand) Validate() error { return nil }

// LoadDiagramCommand replaces the whole diagram
type LoadDiagramCommand struct {
	Sheets        []aggregates.SheetState `validate:"required,min=1"`
	ActiveSheetID string
}

// Validate validates the command
func (c LoadDiagramCommand) Validate() error { return validate(c) }

// StageLayoutComponentCommand registers a floor-plan component awaiting its diagram item
type StageLayoutComponentCommand struct {
	ID       string  `json:"id" validate:"required,max=200"`
	ItemType string  `json:"itemType" validate:"required,max=100"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Validate validates the command
func (c StageLayoutComponentCommand) Validate() error { return validate(c) }

// RecalculateCommand runs a solver pass immediately
type RecalculateCommand struct{}

// Validate validates the command
func (c RecalculateCommand) Validate() error { return nil }
