package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// labelPrefix precedes the running number of portal labels
const labelPrefix = "P"

// NetService enforces the cross-sheet portal rules: at most two portals per
// net, one connector per portal, no portal-to-portal links, and out→in
// property mirroring.
type NetService struct {
	config *config.DomainConfig
}

// NewNetService creates a net service
func NewNetService(cfg *config.DomainConfig) *NetService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &NetService{config: cfg}
}

// NewPortal builds a portal item. The single exposed connection point is named
// after the opposite direction: it describes what may still attach.
func (s *NetService) NewPortal(netID valueobjects.NetID, dir valueobjects.PortalDirection, label string, position valueobjects.Point) *entities.Item {
	size := valueobjects.Size{Width: s.config.PortalWidth, Height: s.config.PortalHeight}
	portal := entities.NewItem(entities.PortalType, position, size)
	portal.SetProperty(entities.PropNetID, netID.String())
	portal.SetProperty(entities.PropDirection, string(dir))
	portal.SetProperty(entities.PropLabel, label)

	key := string(dir.Opposite())
	if dir == valueobjects.DirectionOut {
		portal.ConnectionPoints[key] = valueobjects.Point{X: 0, Y: size.Height / 2}
	} else {
		portal.ConnectionPoints[key] = valueobjects.Point{X: size.Width, Y: size.Height / 2}
	}
	return portal
}

// NextLabel returns the smallest unused "P<n>" label across all nets
func (s *NetService) NextLabel(d *aggregates.Diagram) string {
	used := make(map[int]bool)
	for _, ref := range d.Portals() {
		label := ref.Item.Label()
		if !strings.HasPrefix(label, labelPrefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(label, labelPrefix)); err == nil {
			used[n] = true
		}
	}
	n := 1
	for used[n] {
		n++
	}
	return fmt.Sprintf("%s%d", labelPrefix, n)
}

// CheckPairing verifies that a net exists and still has room for a portal
func (s *NetService) CheckPairing(d *aggregates.Diagram, netID valueobjects.NetID) ([]aggregates.PortalRef, error) {
	refs := d.PortalsInNet(netID)
	if len(refs) == 0 {
		return nil, apperrors.NewNotFoundError("net " + netID.String())
	}
	if len(refs) >= s.config.MaxPortalsPerNet {
		return nil, apperrors.NewRejectedError(apperrors.CodeNetFull,
			fmt.Sprintf("net %s already has %d portals", refs[0].Item.Label(), len(refs)))
	}
	return refs, nil
}

// CheckRestore verifies that replacing sheetID's items with items keeps every
// net within its portal cap and at one out portal. Undo and redo are per
// sheet, so a restored portal can meet a net refilled on another sheet.
func (s *NetService) CheckRestore(d *aggregates.Diagram, sheetID valueobjects.SheetID, items []*entities.Item) error {
	type tally struct {
		portals, outs int
		label         string
	}
	nets := make(map[valueobjects.NetID]*tally)
	var order []valueobjects.NetID
	for _, item := range items {
		if !item.IsPortal() || item.NetID().IsZero() {
			continue
		}
		t, ok := nets[item.NetID()]
		if !ok {
			t = &tally{label: item.Label()}
			nets[item.NetID()] = t
			order = append(order, item.NetID())
		}
		t.portals++
		if item.Direction() == valueobjects.DirectionOut {
			t.outs++
		}
	}

	for _, netID := range order {
		t := nets[netID]
		for _, ref := range d.PortalsInNet(netID) {
			if ref.Sheet.ID() == sheetID {
				continue
			}
			t.portals++
			if ref.Item.Direction() == valueobjects.DirectionOut {
				t.outs++
			}
		}
		if t.portals > s.config.MaxPortalsPerNet || t.outs > 1 {
			return apperrors.NewRejectedError(apperrors.CodeNetFull,
				fmt.Sprintf("restoring this sheet would give net %s %d portals", t.label, t.portals))
		}
	}
	return nil
}

// CheckLabel rejects a label already used by a different net
func (s *NetService) CheckLabel(d *aggregates.Diagram, netID valueobjects.NetID, label string) error {
	if strings.TrimSpace(label) == "" {
		return apperrors.NewValidationError("portal label required")
	}
	for _, ref := range d.Portals() {
		if ref.Item.NetID() != netID && ref.Item.Label() == label {
			return apperrors.NewRejectedError(apperrors.CodeDuplicateLabel,
				fmt.Sprintf("label %q is already used by another net", label))
		}
	}
	return nil
}

// Sibling returns the other portal of the net, if any
func (s *NetService) Sibling(d *aggregates.Diagram, portal *entities.Item) (aggregates.PortalRef, bool) {
	if !portal.IsPortal() || portal.NetID().IsZero() {
		return aggregates.PortalRef{}, false
	}
	for _, ref := range d.PortalsInNet(portal.NetID()) {
		if ref.Item.ID != portal.ID {
			return ref, true
		}
	}
	return aggregates.PortalRef{}, false
}

// CheckAttach enforces the portal connection rules for a connector about to be
// stored on sheet. ignore names a connector that is being replaced.
func (s *NetService) CheckAttach(sheet *aggregates.Sheet, c *entities.Connector, ignore valueobjects.ConnectorID) error {
	source, _ := sheet.Item(c.SourceID)
	target, _ := sheet.Item(c.TargetID)
	if source == nil || target == nil {
		return apperrors.NewRejectedError(apperrors.CodeCrossSheetConnection, "both connector endpoints must be on the same sheet")
	}
	if source.IsPortal() && target.IsPortal() {
		return apperrors.NewRejectedError(apperrors.CodePortalToPortal, "portals cannot be connected to each other")
	}
	for _, item := range []*entities.Item{source, target} {
		if !item.IsPortal() {
			continue
		}
		count := 0
		for _, existing := range sheet.ConnectorsTouching(item.ID) {
			if existing.ID != ignore {
				count++
			}
		}
		if count >= s.config.MaxConnectorsPerPortal {
			return apperrors.NewRejectedError(apperrors.CodePortalAlreadyConnected,
				fmt.Sprintf("portal %s already has a connection", item.Label()))
		}
	}
	return nil
}

// ExpandDeletion grows a deletion set: deleting an out portal takes every
// other portal of its net along. Deleting an in portal does not cascade.
func (s *NetService) ExpandDeletion(d *aggregates.Diagram, ids []valueobjects.ItemID) valueobjects.ItemSet {
	set := valueobjects.NewItemSet(ids...)
	for _, id := range ids {
		_, item, ok := d.FindItem(id)
		if !ok || !item.IsPortalWithDirection(valueobjects.DirectionOut) || item.NetID().IsZero() {
			continue
		}
		for _, ref := range d.PortalsInNet(item.NetID()) {
			set.Add(ref.Item.ID)
		}
	}
	return set
}

// Mirror is one applied out→in propagation
type Mirror struct {
	SheetID valueobjects.SheetID
	Source  valueobjects.ConnectorID
	Target  valueobjects.ConnectorID
	NetID   valueobjects.NetID
}

// Propagate keeps a net's receiving connector equal to its sending one after c
// was stored or changed on sheet. A connector leaving through an out portal
// overwrites the connector at the in sibling; a connector arriving at an in
// portal is itself overwritten from the out sibling.
func (s *NetService) Propagate(d *aggregates.Diagram, sheet *aggregates.Sheet, c *entities.Connector) []Mirror {
	var mirrors []Mirror
	for _, id := range []valueobjects.ItemID{c.SourceID, c.TargetID} {
		portal, ok := sheet.Item(id)
		if !ok || !portal.IsPortal() {
			continue
		}
		sibling, ok := s.Sibling(d, portal)
		if !ok {
			continue
		}
		siblingConnectors := sibling.Sheet.ConnectorsTouching(sibling.Item.ID)
		if len(siblingConnectors) == 0 {
			continue
		}

		switch {
		case portal.Direction() == valueobjects.DirectionOut && sibling.Item.Direction() == valueobjects.DirectionIn:
			target := siblingConnectors[0]
			d.MirrorConnector(sibling.Sheet.ID(), target, c, portal.NetID())
			mirrors = append(mirrors, Mirror{SheetID: sibling.Sheet.ID(), Source: c.ID, Target: target.ID, NetID: portal.NetID()})
		case portal.Direction() == valueobjects.DirectionIn && sibling.Item.Direction() == valueobjects.DirectionOut:
			source := siblingConnectors[0]
			d.MirrorConnector(sheet.ID(), c, source, portal.NetID())
			mirrors = append(mirrors, Mirror{SheetID: sheet.ID(), Source: source.ID, Target: c.ID, NetID: portal.NetID()})
		}
	}
	return mirrors
}

// MirrorSheets returns the sheets Propagate would write to for c, so callers
// can snapshot them before mutating
func (s *NetService) MirrorSheets(d *aggregates.Diagram, sheet *aggregates.Sheet, c *entities.Connector) []*aggregates.Sheet {
	var sheets []*aggregates.Sheet
	for _, id := range []valueobjects.ItemID{c.SourceID, c.TargetID} {
		portal, ok := sheet.Item(id)
		if !ok || !portal.IsPortalWithDirection(valueobjects.DirectionOut) {
			continue
		}
		sibling, ok := s.Sibling(d, portal)
		if !ok || !sibling.Item.IsPortalWithDirection(valueobjects.DirectionIn) {
			continue
		}
		if len(sibling.Sheet.ConnectorsTouching(sibling.Item.ID)) > 0 {
			sheets = append(sheets, sibling.Sheet)
		}
	}
	return sheets
}
