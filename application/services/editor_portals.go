package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// NetSummary describes one net and where its portals sit
type NetSummary struct {
	NetID   valueobjects.NetID `json:"netId"`
	Label   string             `json:"label"`
	Portals []PortalSummary    `json:"portals"`
}

// PortalSummary locates one portal of a net
type PortalSummary struct {
	ItemID    valueobjects.ItemID          `json:"itemId"`
	SheetID   valueobjects.SheetID         `json:"sheetId"`
	Direction valueobjects.PortalDirection `json:"direction"`
	Connected bool                         `json:"connected"`
}

// CreatePortal starts a new net with one portal on the active sheet. An empty
// direction means out.
func (e *Editor) CreatePortal(ctx context.Context, position valueobjects.Point, dir valueobjects.PortalDirection) (*entities.Item, error) {
	if dir == "" {
		dir = valueobjects.DirectionOut
	}
	if dir != valueobjects.DirectionOut && dir != valueobjects.DirectionIn {
		return nil, apperrors.NewValidationError("portal direction must be in or out")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sheet := e.diagram.ActiveSheet()
	portal := e.nets.NewPortal(valueobjects.NewNetID(), dir, e.nets.NextLabel(e.diagram), position)
	if err := e.before(ctx, OpCreatePortal, sheet.ID(), portal.ID.String()); err != nil {
		return nil, err
	}

	e.snapshot(sheet)
	if err := e.diagram.PlaceItem(sheet.ID(), portal); err != nil {
		return nil, err
	}
	e.commit(ctx, OpCreatePortal, sheet.ID(), []string{portal.ID.String()}, true)

	e.logger.Info("Portal created",
		zap.String("netID", portal.NetID().String()),
		zap.String("label", portal.Label()),
		zap.String("sheetID", sheet.ID().String()),
	)
	return portal.Clone(), nil
}

// CreatePairedPortal completes a net with its second portal on the given sheet
// (the active sheet when empty). The paired portal is always an in portal.
func (e *Editor) CreatePairedPortal(ctx context.Context, netID valueobjects.NetID, sheetID valueobjects.SheetID, position valueobjects.Point) (*entities.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sheetID == "" {
		sheetID = e.diagram.ActiveSheetID()
	}
	sheet, ok := e.diagram.Sheet(sheetID)
	if !ok {
		return nil, apperrors.NewNotFoundError("sheet " + sheetID.String())
	}
	refs, err := e.nets.CheckPairing(e.diagram, netID)
	if err != nil {
		return nil, e.reject(ctx, OpCreatePairedPortal, err)
	}

	existing := refs[0].Item
	portal := e.nets.NewPortal(netID, valueobjects.DirectionIn, existing.Label(), position)
	if err := e.before(ctx, OpCreatePairedPortal, sheet.ID(), portal.ID.String()); err != nil {
		return nil, err
	}

	e.snapshot(sheet)
	if err := e.diagram.PlaceItem(sheet.ID(), portal); err != nil {
		return nil, err
	}
	e.commit(ctx, OpCreatePairedPortal, sheet.ID(), []string{portal.ID.String()}, true)

	e.logger.Info("Portal paired",
		zap.String("netID", netID.String()),
		zap.String("label", portal.Label()),
		zap.String("sheetID", sheet.ID().String()),
		zap.String("pairedSheetID", refs[0].Sheet.ID().String()),
	)
	return portal.Clone(), nil
}

// UpdatePortalLabel renames every portal of a net
func (e *Editor) UpdatePortalLabel(ctx context.Context, netID valueobjects.NetID, label string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	refs := e.diagram.PortalsInNet(netID)
	if len(refs) == 0 {
		return apperrors.NewNotFoundError("net " + netID.String())
	}
	if err := e.nets.CheckLabel(e.diagram, netID, label); err != nil {
		return e.reject(ctx, OpUpdatePortalLabel, err)
	}

	sheets := make([]*aggregates.Sheet, 0, len(refs))
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		sheets = append(sheets, ref.Sheet)
		ids = append(ids, ref.Item.ID.String())
	}
	if err := e.before(ctx, OpUpdatePortalLabel, refs[0].Sheet.ID(), ids...); err != nil {
		return err
	}

	e.snapshot(sheets...)
	for _, ref := range refs {
		ref.Item.SetProperty(entities.PropLabel, label)
	}
	e.commit(ctx, OpUpdatePortalLabel, refs[0].Sheet.ID(), ids, false)
	return nil
}

// Nets lists every net in first-seen sheet order
func (e *Editor) Nets() []NetSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	var nets []NetSummary
	index := make(map[valueobjects.NetID]int)
	for _, ref := range e.diagram.Portals() {
		portal := PortalSummary{
			ItemID:    ref.Item.ID,
			SheetID:   ref.Sheet.ID(),
			Direction: ref.Item.Direction(),
			Connected: len(ref.Sheet.ConnectorsTouching(ref.Item.ID)) > 0,
		}
		i, ok := index[ref.Item.NetID()]
		if !ok {
			i = len(nets)
			index[ref.Item.NetID()] = i
			nets = append(nets, NetSummary{NetID: ref.Item.NetID(), Label: ref.Item.Label()})
		}
		nets[i].Portals = append(nets[i].Portals, portal)
	}
	return nets
}
