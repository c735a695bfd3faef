package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	domainservices "github.com/rickerduniya/Sayanho-sub000/domain/services"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// ConnectorRequest describes a connector drawn between two connection points,
// in the order the user clicked them. An empty MaterialType asks the engine to
// decide; when a choice is required the request is rejected with
// MATERIAL_REQUIRED.
type ConnectorRequest struct {
	SourceID            valueobjects.ItemID
	SourceKey           string
	TargetID            valueobjects.ItemID
	TargetKey           string
	MaterialType        valueobjects.MaterialType
	Properties          map[string]string
	Laying              map[string]string
	Accessories         []map[string]string
	Length              float64
	AlternativeCompany1 string
	AlternativeCompany2 string
}

// ConnectorPatch carries the editable description of a connector. Nil fields
// are left as-is; a non-nil Properties map replaces the current one.
type ConnectorPatch struct {
	Properties          map[string]string
	MaterialType        *valueobjects.MaterialType
	Laying              map[string]string
	Accessories         []map[string]string
	Length              *float64
	AlternativeCompany1 *string
	AlternativeCompany2 *string
}

// AddConnector stores a new connector pointing from the sending side to the
// receiving side, seeds its defaults and mirrors it across a complete net
func (e *Editor) AddConnector(ctx context.Context, req ConnectorRequest) (*entities.Connector, error) {
	if req.MaterialType != "" {
		if _, err := valueobjects.ParseMaterialType(string(req.MaterialType)); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	c := &entities.Connector{
		ID:                  valueobjects.NewConnectorID(),
		SourceID:            req.SourceID,
		SourceKey:           req.SourceKey,
		TargetID:            req.TargetID,
		TargetKey:           req.TargetKey,
		Properties:          cloneDict(req.Properties),
		Laying:              cloneDict(req.Laying),
		Accessories:         cloneDicts(req.Accessories),
		Length:              req.Length,
		AlternativeCompany1: req.AlternativeCompany1,
		AlternativeCompany2: req.AlternativeCompany2,
	}
	swapped := e.defaults.Canonicalize(c)

	sheet, source, target, err := e.resolveEndpoints(c)
	if err != nil {
		return nil, e.reject(ctx, OpAddConnector, err)
	}
	if err := e.nets.CheckAttach(sheet, c, ""); err != nil {
		return nil, e.reject(ctx, OpAddConnector, err)
	}
	if err := e.defaults.Apply(c, source, target, req.MaterialType); err != nil {
		return nil, e.reject(ctx, OpAddConnector, err)
	}
	if err := e.before(ctx, OpAddConnector, sheet.ID(), c.ID.String()); err != nil {
		return nil, err
	}

	touched := append([]*aggregates.Sheet{sheet}, e.nets.MirrorSheets(e.diagram, sheet, c)...)
	e.snapshot(touched...)
	if err := e.diagram.Connect(sheet.ID(), c); err != nil {
		return nil, err
	}
	e.logMirrors(e.nets.Propagate(e.diagram, sheet, c))
	e.commit(ctx, OpAddConnector, sheet.ID(), []string{c.ID.String()}, true)

	e.logger.Debug("Connector created",
		zap.String("connectorID", c.ID.String()),
		zap.String("sourceID", c.SourceID.String()),
		zap.String("targetID", c.TargetID.String()),
		zap.String("material", string(c.MaterialType)),
		zap.Bool("reversed", swapped),
	)
	return c.Clone(), nil
}

// UpdateConnector edits a connector's description and re-mirrors its net
func (e *Editor) UpdateConnector(ctx context.Context, id valueobjects.ConnectorID, patch ConnectorPatch) (*entities.Connector, error) {
	if patch.MaterialType != nil {
		if _, err := valueobjects.ParseMaterialType(string(*patch.MaterialType)); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if patch.Length != nil && *patch.Length < 0 {
		return nil, apperrors.NewValidationError("connector length cannot be negative")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sheet, c, ok := e.diagram.FindConnector(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("connector " + id.String())
	}
	if err := e.before(ctx, OpUpdateConnector, sheet.ID(), id.String()); err != nil {
		return nil, err
	}

	touched := append([]*aggregates.Sheet{sheet}, e.nets.MirrorSheets(e.diagram, sheet, c)...)
	e.snapshot(touched...)
	if patch.Properties != nil {
		c.Properties = cloneDict(patch.Properties)
	}
	if patch.MaterialType != nil {
		c.MaterialType = *patch.MaterialType
	}
	if patch.Laying != nil {
		c.Laying = cloneDict(patch.Laying)
	}
	if patch.Accessories != nil {
		c.Accessories = cloneDicts(patch.Accessories)
	}
	if patch.Length != nil {
		c.Length = *patch.Length
	}
	if patch.AlternativeCompany1 != nil {
		c.AlternativeCompany1 = *patch.AlternativeCompany1
	}
	if patch.AlternativeCompany2 != nil {
		c.AlternativeCompany2 = *patch.AlternativeCompany2
	}
	e.diagram.MarkConnectorUpdated(sheet.ID(), id)
	e.logMirrors(e.nets.Propagate(e.diagram, sheet, c))
	e.commit(ctx, OpUpdateConnector, sheet.ID(), []string{id.String()}, true)
	return c.Clone(), nil
}

// DeleteConnector removes a single connector
func (e *Editor) DeleteConnector(ctx context.Context, id valueobjects.ConnectorID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.deleteConnector(ctx, id)
}

func (e *Editor) deleteConnector(ctx context.Context, id valueobjects.ConnectorID) error {
	sheet, _, ok := e.diagram.FindConnector(id)
	if !ok {
		return apperrors.NewNotFoundError("connector " + id.String())
	}
	if err := e.before(ctx, OpDeleteConnector, sheet.ID(), id.String()); err != nil {
		return err
	}

	e.snapshot(sheet)
	if _, err := e.diagram.Disconnect(id); err != nil {
		return err
	}
	if e.selection.ConnectorID == id {
		e.selection.ConnectorID = ""
	}
	e.commit(ctx, OpDeleteConnector, sheet.ID(), []string{id.String()}, true)
	return nil
}

// resolveEndpoints finds both endpoints and checks that the connector can live
// on the source item's sheet
func (e *Editor) resolveEndpoints(c *entities.Connector) (*aggregates.Sheet, *entities.Item, *entities.Item, error) {
	sheet, source, err := e.findItem(c.SourceID)
	if err != nil {
		return nil, nil, nil, err
	}
	_, target, err := e.findItem(c.TargetID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := sheet.CheckConnector(c); err != nil {
		return nil, nil, nil, err
	}
	for _, end := range []struct {
		item *entities.Item
		key  string
	}{{source, c.SourceKey}, {target, c.TargetKey}} {
		if end.key == "" {
			return nil, nil, nil, apperrors.NewValidationError("connection point key required")
		}
		if len(end.item.ConnectionPoints) > 0 && !end.item.HasConnectionPoint(end.key) {
			return nil, nil, nil, apperrors.NewValidationError(
				fmt.Sprintf("item %s has no connection point %q", end.item.ID, end.key))
		}
	}
	return sheet, source, target, nil
}

func (e *Editor) logMirrors(mirrors []domainservices.Mirror) {
	for _, m := range mirrors {
		e.logger.Debug("Connector mirrored across net",
			zap.String("netID", m.NetID.String()),
			zap.String("sourceID", m.Source.String()),
			zap.String("mirrorID", m.Target.String()),
			zap.String("sheetID", m.SheetID.String()),
		)
	}
}
