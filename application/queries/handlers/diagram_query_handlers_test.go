package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/queries"
	"github.com/rickerduniya/Sayanho-sub000/application/queries/bus"
	"github.com/rickerduniya/Sayanho-sub000/application/services"
	"github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/layout"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/solver"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

type countingMetrics struct {
	outcomes map[string]int
}

func (m *countingMetrics) RecordQuery(query, outcome string) {
	m.outcomes[query+"/"+outcome]++
}

func newQueryBus(t *testing.T) (*bus.QueryBus, *services.Editor, *countingMetrics) {
	t.Helper()
	logger := zap.NewNop()
	editor := services.NewEditor(config.DefaultDomainConfig(), solver.NewPassthroughSolver(),
		layout.NewMemoryLayoutStore(logger), nil, nil, nil, logger)
	t.Cleanup(editor.Close)

	metrics := &countingMetrics{outcomes: map[string]int{}}
	b := bus.NewQueryBus(bus.MetricsMiddleware(metrics))
	require.NoError(t, NewDiagramQueryHandlers(editor).Register(b))
	return b, editor, metrics
}

func place(t *testing.T, editor *services.Editor, itemType, key string) *entities.Item {
	t.Helper()
	item := entities.NewItem(itemType, valueobjects.Point{}, valueobjects.Size{Width: 40, Height: 40})
	item.ConnectionPoints[key] = valueobjects.Point{X: 20}
	added, err := editor.AddItem(context.Background(), item)
	require.NoError(t, err)
	return added
}

func TestDiagramQueries(t *testing.T) {
	ctx := context.Background()
	b, editor, metrics := newQueryBus(t)
	mcb := place(t, editor, "MCB", "out")
	bulb := place(t, editor, "Bulb", "in")

	t.Run("item lookup", func(t *testing.T) {
		result, err := b.Ask(ctx, queries.GetItemQuery{ItemID: mcb.ID.String()})
		require.NoError(t, err)
		assert.Equal(t, mcb.ID, result.(*entities.Item).ID)

		_, err = b.Ask(ctx, queries.GetItemQuery{ItemID: "missing"})
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("nets are never null", func(t *testing.T) {
		result, err := b.Ask(ctx, queries.GetNetsQuery{})
		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("history defaults to the active sheet", func(t *testing.T) {
		result, err := b.Ask(ctx, queries.GetHistoryQuery{})
		require.NoError(t, err)
		status := result.(services.HistoryStatus)
		assert.True(t, status.CanUndo)
		assert.Equal(t, 2, status.UndoDepth)
	})

	t.Run("material prompt between free items", func(t *testing.T) {
		result, err := b.Ask(ctx, queries.MaterialPromptQuery{SourceID: mcb.ID.String(), TargetID: bulb.ID.String()})
		require.NoError(t, err)
		prompt := result.(queries.MaterialPromptResult)
		assert.True(t, prompt.Required)
		assert.Equal(t, []string{"Cable", "Wiring"}, prompt.Choices)

		_, err = b.Ask(ctx, queries.MaterialPromptQuery{SourceID: mcb.ID.String()})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("document and integrity", func(t *testing.T) {
		result, err := b.Ask(ctx, queries.GetDocumentQuery{})
		require.NoError(t, err)
		doc := result.(queries.DocumentResult)
		assert.Equal(t, editor.ActiveSheet().ID.String(), doc.ActiveSheetID)
		require.Len(t, doc.Sheets, 1)
		assert.Len(t, doc.Sheets[0].Items, 2)

		result, err = b.Ask(ctx, queries.ValidateDiagramQuery{})
		require.NoError(t, err)
		assert.True(t, result.(queries.IntegrityResult).Valid)
	})

	assert.Equal(t, 1, metrics.outcomes["GetItemQuery/not_found"])
	assert.GreaterOrEqual(t, metrics.outcomes["GetItemQuery/success"], 1)
}
