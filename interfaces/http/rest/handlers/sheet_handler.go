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

// SheetHandler handles sheet-related HTTP requests
type SheetHandler struct {
	base
}

// NewSheetHandler creates a new sheet handler
func NewSheetHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *SheetHandler {
	return &SheetHandler{base: newBase(commandBus, queryBus, errorHandler, logger)}
}

// Routes mounts the sheet endpoints
func (h *SheetHandler) Routes(r chi.Router) {
	r.Get("/", h.ListSheets)
	r.Post("/", h.AddSheet)
	r.Get("/{sheetID}", h.GetSheet)
	r.Delete("/{sheetID}", h.RemoveSheet)
	r.Put("/{sheetID}/name", h.RenameSheet)
	r.Post("/{sheetID}/activate", h.ActivateSheet)
	r.Put("/{sheetID}/viewport", h.UpdateViewport)
	r.Get("/{sheetID}/history", h.GetHistory)
}

// ListSheets handles GET /sheets
func (h *SheetHandler) ListSheets(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetSheetsQuery{})
}

// AddSheet handles POST /sheets
func (h *SheetHandler) AddSheet(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddSheetCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

// GetSheet handles GET /sheets/{sheetID}
func (h *SheetHandler) GetSheet(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetSheetQuery{SheetID: chi.URLParam(r, "sheetID")})
}

// RemoveSheet handles DELETE /sheets/{sheetID}
func (h *SheetHandler) RemoveSheet(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RemoveSheetCommand{SheetID: chi.URLParam(r, "sheetID")}, http.StatusOK)
}

// RenameSheet handles PUT /sheets/{sheetID}/name
func (h *SheetHandler) RenameSheet(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RenameSheetCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.SheetID = chi.URLParam(r, "sheetID")
	h.send(w, r, cmd, http.StatusOK)
}

// ActivateSheet handles POST /sheets/{sheetID}/activate
func (h *SheetHandler) ActivateSheet(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.SetActiveSheetCommand{SheetID: chi.URLParam(r, "sheetID")}, http.StatusOK)
}

// UpdateViewport handles PUT /sheets/{sheetID}/viewport
func (h *SheetHandler) UpdateViewport(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateViewportCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.SheetID = chi.URLParam(r, "sheetID")
	h.send(w, r, cmd, http.StatusOK)
}

// GetHistory handles GET /sheets/{sheetID}/history
func (h *SheetHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetHistoryQuery{SheetID: chi.URLParam(r, "sheetID")})
}
