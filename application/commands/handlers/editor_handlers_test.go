package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/commands"
	"github.com/rickerduniya/Sayanho-sub000/application/commands/bus"
	"github.com/rickerduniya/Sayanho-sub000/application/services"
	"github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/layout"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/solver"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

func newBus(t *testing.T) (*bus.CommandBus, *services.Editor) {
	t.Helper()
	logger := zap.NewNop()
	editor := services.NewEditor(config.DefaultDomainConfig(), solver.NewPassthroughSolver(),
		layout.NewMemoryLayoutStore(logger), nil, nil, nil, logger)
	t.Cleanup(editor.Close)

	b := bus.NewCommandBus()
	require.NoError(t, NewEditorHandlers(editor, logger).Register(b))
	return b, editor
}

func addItem(t *testing.T, b *bus.CommandBus, itemType, key string) *entities.Item {
	t.Helper()
	result, err := b.Send(context.Background(), commands.AddItemCommand{
		Type:             itemType,
		Width:            40,
		Height:           40,
		ConnectionPoints: map[string]valueobjects.Point{key: {X: 20, Y: 0}},
	})
	require.NoError(t, err)
	item, ok := result.(*entities.Item)
	require.True(t, ok)
	return item
}

func TestEditorHandlers_RegisterTwiceFails(t *testing.T) {
	b, editor := newBus(t)
	assert.Error(t, NewEditorHandlers(editor, zap.NewNop()).Register(b))
}

func TestEditorHandlers_ItemLifecycle(t *testing.T) {
	ctx := context.Background()
	b, editor := newBus(t)

	item := addItem(t, b, "MCB", "in")
	assert.Len(t, editor.ActiveSheet().Items, 1)

	_, err := b.Send(ctx, commands.UpdateItemLockCommand{ItemID: item.ID.String(), Locked: true})
	require.NoError(t, err)

	result, err := b.Send(ctx, commands.MoveItemsCommand{Positions: map[string]valueobjects.Point{item.ID.String(): {X: 5, Y: 5}}})
	require.NoError(t, err)
	assert.Equal(t, MoveResult{Moved: 0}, result)

	_, err = b.Send(ctx, commands.RotateItemCommand{ItemID: item.ID.String()})
	assert.Equal(t, apperrors.CodeItemLocked, apperrors.RejectionCode(err))

	_, err = b.Send(ctx, commands.DeleteItemCommand{ItemID: item.ID.String()})
	require.NoError(t, err)
	assert.Empty(t, editor.ActiveSheet().Items)

	result, err = b.Send(ctx, commands.UndoCommand{})
	require.NoError(t, err)
	assert.Equal(t, HistoryResult{Applied: true}, result)
	assert.Len(t, editor.ActiveSheet().Items, 1)
}

func TestEditorHandlers_Connectors(t *testing.T) {
	ctx := context.Background()
	b, editor := newBus(t)

	feeder := addItem(t, b, "MCCB", "out1")
	load := addItem(t, b, "MCB", "in")

	result, err := b.Send(ctx, commands.AddConnectorCommand{
		SourceID:     load.ID.String(),
		SourceKey:    "in",
		TargetID:     feeder.ID.String(),
		TargetKey:    "out1",
		MaterialType: string(valueobjects.MaterialCable),
	})
	require.NoError(t, err)
	connector, ok := result.(*entities.Connector)
	require.True(t, ok)
	assert.Equal(t, feeder.ID, connector.SourceID)

	length := 12.5
	_, err = b.Send(ctx, commands.UpdateConnectorCommand{ConnectorID: connector.ID.String(), Length: &length})
	require.NoError(t, err)
	stored, err := editor.Connector(connector.ID)
	require.NoError(t, err)
	assert.Equal(t, length, stored.Length)

	_, err = b.Send(ctx, commands.AddConnectorCommand{SourceID: "a", SourceKey: "out", TargetID: "b", TargetKey: "in", MaterialType: "Copper"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestEditorHandlers_Sheets(t *testing.T) {
	ctx := context.Background()
	b, editor := newBus(t)
	first := editor.ActiveSheet().ID

	_, err := b.Send(ctx, commands.RemoveSheetCommand{SheetID: first.String()})
	assert.Equal(t, apperrors.CodeLastSheet, apperrors.RejectionCode(err))

	_, err = b.Send(ctx, commands.AddSheetCommand{Name: "Second"})
	require.NoError(t, err)
	assert.Len(t, editor.Sheets(), 2)

	_, err = b.Send(ctx, commands.RenameSheetCommand{SheetID: first.String(), Name: "Main"})
	require.NoError(t, err)

	_, err = b.Send(ctx, commands.UpdateViewportCommand{SheetID: first.String(), Scale: 0})
	assert.True(t, apperrors.IsValidation(err))
}

func TestEditorHandlers_LoadDiagram(t *testing.T) {
	b, editor := newBus(t)

	item := entities.NewItem("MCB", valueobjects.Point{}, valueobjects.Size{Width: 40, Height: 40})
	dangling := &entities.Connector{ID: "c1", SourceID: item.ID, SourceKey: "out", TargetID: "missing", TargetKey: "in", MaterialType: valueobjects.MaterialCable}

	result, err := b.Send(context.Background(), commands.LoadDiagramCommand{
		Sheets: []aggregates.SheetState{{
			ID:         "s1",
			Items:      []*entities.Item{item},
			Connectors: []*entities.Connector{dangling},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, LoadResult{DroppedConnectors: 1}, result)

	sheet := editor.ActiveSheet()
	assert.Equal(t, "Sheet 1", sheet.Name)
	assert.Empty(t, sheet.Connectors)
}
