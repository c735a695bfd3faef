package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/commands"
	"github.com/rickerduniya/Sayanho-sub000/application/commands/bus"
	"github.com/rickerduniya/Sayanho-sub000/application/queries"
	querybus "github.com/rickerduniya/Sayanho-sub000/application/queries/bus"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// EditorHandler serves the session-level endpoints: selection, clipboard,
// history and recalculation
type EditorHandler struct {
	base
}

// NewEditorHandler creates a new editor handler
func NewEditorHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *EditorHandler {
	return &EditorHandler{base: newBase(commandBus, queryBus, errorHandler, logger)}
}

// Routes mounts the editor endpoints
func (h *EditorHandler) Routes(r chi.Router) {
	r.Get("/selection", h.GetSelection)
	r.Post("/selection/items", h.SelectItem)
	r.Post("/selection/connector", h.SelectConnector)
	r.Get("/clipboard", h.GetClipboard)
	r.Post("/clipboard/copy", h.Copy)
	r.Post("/clipboard/paste", h.Paste)
	r.Get("/history", h.GetHistory)
	r.Post("/undo", h.Undo)
	r.Post("/redo", h.Redo)
	r.Post("/recalculate", h.Recalculate)
	r.Get("/status", h.Status)
}

// LayoutRoutes mounts the floor-plan staging endpoints
func (h *EditorHandler) LayoutRoutes(r chi.Router) {
	r.Get("/", h.ListLayoutComponents)
	r.Post("/", h.StageLayoutComponent)
}

// ListLayoutComponents handles GET /layout
func (h *EditorHandler) ListLayoutComponents(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetLayoutComponentsQuery{})
}

// StageLayoutComponent handles POST /layout
func (h *EditorHandler) StageLayoutComponent(w http.ResponseWriter, r *http.Request) {
	var cmd commands.StageLayoutComponentCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

// GetSelection handles GET /editor/selection
func (h *EditorHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetSelectionQuery{})
}

// SelectItem handles POST /editor/selection/items. An empty itemId clears.
func (h *EditorHandler) SelectItem(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SelectItemCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusOK)
}

// SelectConnector handles POST /editor/selection/connector
func (h *EditorHandler) SelectConnector(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SelectConnectorCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusOK)
}

// GetClipboard handles GET /editor/clipboard
func (h *EditorHandler) GetClipboard(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetClipboardQuery{})
}

// Copy handles POST /editor/clipboard/copy
func (h *EditorHandler) Copy(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.CopySelectionCommand{}, http.StatusOK)
}

// Paste handles POST /editor/clipboard/paste
func (h *EditorHandler) Paste(w http.ResponseWriter, r *http.Request) {
	var cmd commands.PasteSelectionCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

// GetHistory handles GET /editor/history for the active sheet
func (h *EditorHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetHistoryQuery{})
}

// Undo handles POST /editor/undo
func (h *EditorHandler) Undo(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.UndoCommand{}, http.StatusOK)
}

// Redo handles POST /editor/redo
func (h *EditorHandler) Redo(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RedoCommand{}, http.StatusOK)
}

// Recalculate handles POST /editor/recalculate
func (h *EditorHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RecalculateCommand{}, http.StatusOK)
}

// Status handles GET /editor/status
func (h *EditorHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetEngineStatusQuery{})
}
