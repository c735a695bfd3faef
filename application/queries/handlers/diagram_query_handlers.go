package handlers

import (
	"context"
	"fmt"

	"github.com/rickerduniya/Sayanho-sub000/application/queries"
	"github.com/rickerduniya/Sayanho-sub000/application/queries/bus"
	"github.com/rickerduniya/Sayanho-sub000/application/services"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
)

// DiagramQueryHandlers answers read model queries from the live editor
type DiagramQueryHandlers struct {
	editor *services.Editor
}

// NewDiagramQueryHandlers creates the query handler set
func NewDiagramQueryHandlers(editor *services.Editor) *DiagramQueryHandlers {
	return &DiagramQueryHandlers{editor: editor}
}

func typed[Q bus.Query](fn func(ctx context.Context, q Q) (interface{}, error)) bus.QueryHandler {
	return bus.QueryHandlerFunc(func(ctx context.Context, query bus.Query) (interface{}, error) {
		q, ok := query.(Q)
		if !ok {
			return nil, fmt.Errorf("unexpected query type %T", query)
		}
		return fn(ctx, q)
	})
}

// Register binds every diagram query to the bus
func (h *DiagramQueryHandlers) Register(b *bus.QueryBus) error {
	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.GetSheetsQuery{}, typed(h.getSheets)},
		{queries.GetSheetQuery{}, typed(h.getSheet)},
		{queries.GetItemQuery{}, typed(h.getItem)},
		{queries.GetConnectorQuery{}, typed(h.getConnector)},
		{queries.GetNetsQuery{}, typed(h.getNets)},
		{queries.GetSelectionQuery{}, typed(h.getSelection)},
		{queries.GetClipboardQuery{}, typed(h.getClipboard)},
		{queries.GetHistoryQuery{}, typed(h.getHistory)},
		{queries.GetDocumentQuery{}, typed(h.getDocument)},
		{queries.ValidateDiagramQuery{}, typed(h.validate)},
		{queries.MaterialPromptQuery{}, typed(h.materialPrompt)},
		{queries.GetEngineStatusQuery{}, typed(h.engineStatus)},
		{queries.GetLayoutComponentsQuery{}, typed(h.layoutComponents)},
	}
	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *DiagramQueryHandlers) getSheets(_ context.Context, _ queries.GetSheetsQuery) (interface{}, error) {
	return h.editor.Sheets(), nil
}

func (h *DiagramQueryHandlers) getSheet(_ context.Context, q queries.GetSheetQuery) (interface{}, error) {
	return h.editor.SheetState(valueobjects.SheetID(q.SheetID))
}

func (h *DiagramQueryHandlers) getItem(_ context.Context, q queries.GetItemQuery) (interface{}, error) {
	return h.editor.Item(valueobjects.ItemID(q.ItemID))
}

func (h *DiagramQueryHandlers) getConnector(_ context.Context, q queries.GetConnectorQuery) (interface{}, error) {
	return h.editor.Connector(valueobjects.ConnectorID(q.ConnectorID))
}

func (h *DiagramQueryHandlers) getNets(_ context.Context, _ queries.GetNetsQuery) (interface{}, error) {
	nets := h.editor.Nets()
	if nets == nil {
		nets = []services.NetSummary{}
	}
	return nets, nil
}

func (h *DiagramQueryHandlers) getSelection(_ context.Context, _ queries.GetSelectionQuery) (interface{}, error) {
	return h.editor.Selection(), nil
}

func (h *DiagramQueryHandlers) getClipboard(_ context.Context, _ queries.GetClipboardQuery) (interface{}, error) {
	return h.editor.Clipboard(), nil
}

func (h *DiagramQueryHandlers) getHistory(_ context.Context, q queries.GetHistoryQuery) (interface{}, error) {
	sheetID := valueobjects.SheetID(q.SheetID)
	if sheetID == "" {
		sheetID = h.editor.ActiveSheet().ID
	}
	return h.editor.HistoryStatus(sheetID)
}

func (h *DiagramQueryHandlers) getDocument(_ context.Context, _ queries.GetDocumentQuery) (interface{}, error) {
	sheets, active := h.editor.Document()
	return queries.DocumentResult{ActiveSheetID: active.String(), Sheets: sheets}, nil
}

func (h *DiagramQueryHandlers) validate(_ context.Context, _ queries.ValidateDiagramQuery) (interface{}, error) {
	report := h.editor.Validate()
	if report == nil {
		return queries.IntegrityResult{Valid: true}, nil
	}
	return queries.IntegrityResult{Codes: report.Codes(), Issues: report.ByCode()}, nil
}

func (h *DiagramQueryHandlers) materialPrompt(_ context.Context, q queries.MaterialPromptQuery) (interface{}, error) {
	required, err := h.editor.NeedsMaterialPrompt(valueobjects.ItemID(q.SourceID), valueobjects.ItemID(q.TargetID))
	if err != nil {
		return nil, err
	}
	result := queries.MaterialPromptResult{Required: required}
	if required {
		result.Choices = []string{string(valueobjects.MaterialCable), string(valueobjects.MaterialWiring)}
	}
	return result, nil
}

func (h *DiagramQueryHandlers) engineStatus(_ context.Context, _ queries.GetEngineStatusQuery) (interface{}, error) {
	sheets := h.editor.Sheets()
	status := queries.EngineStatusResult{
		Generation:    h.editor.Generation(),
		RecalcPending: h.editor.Recalculator().Pending(),
		SheetCount:    len(sheets),
	}
	for _, s := range sheets {
		if s.Active {
			status.ActiveSheetID = s.ID.String()
		}
	}
	return status, nil
}

func (h *DiagramQueryHandlers) layoutComponents(_ context.Context, _ queries.GetLayoutComponentsQuery) (interface{}, error) {
	return h.editor.LayoutComponents(), nil
}
