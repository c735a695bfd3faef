package validators

import (
	"fmt"
	"strings"

	"github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	"github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// DiagramValidator produces an integrity report over a whole diagram
type DiagramValidator struct {
	config *config.DomainConfig
}

// NewDiagramValidator creates a validator bound to the given rules
func NewDiagramValidator(cfg *config.DomainConfig) *DiagramValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &DiagramValidator{config: cfg}
}

// ValidateItemType checks a caller-supplied item type name
func (v *DiagramValidator) ValidateItemType(itemType string) error {
	if strings.TrimSpace(itemType) == "" {
		return errors.NewDomainError(errors.DomainValidationError, "ITEM_TYPE_REQUIRED", "Item type is required").
			WithDetail("field", "type")
	}
	return nil
}

// Validate returns every integrity issue found, or nil if the diagram is sound
func (v *DiagramValidator) Validate(d *aggregates.Diagram) *errors.ValidationErrors {
	report := errors.NewValidationErrors()

	v.checkItemIDs(d, report)
	v.checkConnectors(d, report)
	v.checkNets(d, report)

	if !report.HasErrors() {
		return nil
	}
	return report
}

func (v *DiagramValidator) checkItemIDs(d *aggregates.Diagram, report *errors.ValidationErrors) {
	seen := make(map[valueobjects.ItemID]valueobjects.SheetID)
	for _, s := range d.Sheets() {
		for _, item := range s.Items() {
			if prev, dup := seen[item.ID]; dup {
				report.AddError(errors.NewDomainError(errors.DomainIntegrityError, errors.CodeDuplicateItemID,
					fmt.Sprintf("item %s appears on sheets %s and %s", item.ID, prev, s.ID())).
					WithDetail("itemId", item.ID.String()))
				continue
			}
			seen[item.ID] = s.ID()
		}
	}
}

func (v *DiagramValidator) checkConnectors(d *aggregates.Diagram, report *errors.ValidationErrors) {
	for _, s := range d.Sheets() {
		for _, c := range s.Connectors() {
			if !s.HasItem(c.SourceID) || !s.HasItem(c.TargetID) {
				report.AddError(errors.NewDomainError(errors.DomainIntegrityError, errors.CodeDanglingConnector,
					fmt.Sprintf("connector %s references an item missing from sheet %s", c.ID, s.Name())).
					WithDetail("connectorId", c.ID.String()).
					WithDetail("sheetId", s.ID().String()))
			}
		}
	}
}

func (v *DiagramValidator) checkNets(d *aggregates.Diagram, report *errors.ValidationErrors) {
	nets := make(map[valueobjects.NetID][]aggregates.PortalRef)
	var order []valueobjects.NetID
	for _, ref := range d.Portals() {
		dir := ref.Item.Direction()
		if dir != valueobjects.DirectionIn && dir != valueobjects.DirectionOut {
			report.AddError(errors.NewDomainError(errors.DomainIntegrityError, errors.CodePortalDirection,
				fmt.Sprintf("portal %s has invalid direction %q", ref.Item.ID, dir)).
				WithDetail("itemId", ref.Item.ID.String()))
		}
		if n := len(ref.Sheet.ConnectorsTouching(ref.Item.ID)); n > v.config.MaxConnectorsPerPortal {
			report.AddError(errors.NewDomainError(errors.DomainBusinessRuleError, errors.CodePortalOverconnected,
				fmt.Sprintf("portal %s has %d connectors", ref.Item.Label(), n)).
				WithDetail("itemId", ref.Item.ID.String()))
		}
		netID := ref.Item.NetID()
		if netID.IsZero() {
			continue
		}
		if _, ok := nets[netID]; !ok {
			order = append(order, netID)
		}
		nets[netID] = append(nets[netID], ref)
	}

	for _, netID := range order {
		refs := nets[netID]
		if len(refs) > v.config.MaxPortalsPerNet {
			report.AddError(errors.NewDomainError(errors.DomainBusinessRuleError, errors.CodeNetOverfull,
				fmt.Sprintf("net %s has %d portals", netID, len(refs))).
				WithDetail("netId", netID.String()))
		}
		var outs, ins []aggregates.PortalRef
		for _, ref := range refs {
			switch ref.Item.Direction() {
			case valueobjects.DirectionOut:
				outs = append(outs, ref)
			case valueobjects.DirectionIn:
				ins = append(ins, ref)
			}
		}
		if len(outs) > 1 {
			report.AddError(errors.NewDomainError(errors.DomainBusinessRuleError, errors.CodeNetMultipleOut,
				fmt.Sprintf("net %s has %d out portals", netID, len(outs))).
				WithDetail("netId", netID.String()))
		}
		if len(outs) == 1 && len(ins) == 1 {
			v.checkMirror(netID, outs[0], ins[0], report)
		}
	}
}

func (v *DiagramValidator) checkMirror(netID valueobjects.NetID, out, in aggregates.PortalRef, report *errors.ValidationErrors) {
	source := firstConnector(out)
	mirror := firstConnector(in)
	if source == nil || mirror == nil {
		return
	}
	expected := source.Clone()
	expected.ID = mirror.ID
	want := mirror.Clone()
	want.MirrorFrom(expected)
	if !mirror.IsVirtual || mirror.Length != 0 || !sameProperties(mirror.Properties, want.Properties) || mirror.MaterialType != source.MaterialType {
		report.AddError(errors.NewDomainError(errors.DomainIntegrityError, errors.CodeMirrorDiverged,
			fmt.Sprintf("mirror connector %s no longer matches its source in net %s", mirror.ID, netID)).
			WithDetail("netId", netID.String()).
			WithDetail("connectorId", mirror.ID.String()))
	}
}

func firstConnector(ref aggregates.PortalRef) *entities.Connector {
	touching := ref.Sheet.ConnectorsTouching(ref.Item.ID)
	if len(touching) == 0 {
		return nil
	}
	return touching[0]
}

func sameProperties(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
