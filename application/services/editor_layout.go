package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/ports"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// StageLayoutComponent registers a floor-plan component waiting for its
// diagram item. Staging belongs to the floor plan and records no undo step;
// the drop that places the component does.
func (e *Editor) StageLayoutComponent(ctx context.Context, id, itemType string, position valueobjects.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validator.ValidateItemType(itemType); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if err := e.layout.Stage(id, itemType, position); err != nil {
		return err
	}

	e.logger.Debug("Layout component staged",
		zap.String("componentID", id),
		zap.String("type", itemType),
	)
	return nil
}

// LayoutComponents lists the floor-plan components with their placement state
func (e *Editor) LayoutComponents() []ports.LayoutComponent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout.Components()
}
