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

// ItemHandler handles item-related HTTP requests
type ItemHandler struct {
	base
}

// NewItemHandler creates a new item handler
func NewItemHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *ItemHandler {
	return &ItemHandler{base: newBase(commandBus, queryBus, errorHandler, logger)}
}

// Routes mounts the item endpoints
func (h *ItemHandler) Routes(r chi.Router) {
	r.Post("/", h.AddItem)
	r.Post("/drag", h.BeginDrag)
	r.Put("/drag", h.MoveItems)
	r.Delete("/drag", h.EndDrag)
	r.Post("/delete-selected", h.DeleteSelected)
	r.Get("/{itemID}", h.GetItem)
	r.Delete("/{itemID}", h.DeleteItem)
	r.Put("/{itemID}/size", h.UpdateSize)
	r.Put("/{itemID}/lock", h.UpdateLock)
	r.Put("/{itemID}/properties", h.UpdateProperties)
	r.Put("/{itemID}/transform", h.UpdateTransform)
	r.Post("/{itemID}/rotate", h.Rotate)
}

// AddItem handles POST /items
func (h *ItemHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddItemCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

// GetItem handles GET /items/{itemID}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetItemQuery{ItemID: chi.URLParam(r, "itemID")})
}

// BeginDrag handles POST /items/drag
func (h *ItemHandler) BeginDrag(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.BeginDragCommand{}, http.StatusOK)
}

// MoveItems handles PUT /items/drag
func (h *ItemHandler) MoveItems(w http.ResponseWriter, r *http.Request) {
	var cmd commands.MoveItemsCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusOK)
}

// EndDrag handles DELETE /items/drag
func (h *ItemHandler) EndDrag(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.EndDragCommand{}, http.StatusOK)
}

// UpdateSize handles PUT /items/{itemID}/size
func (h *ItemHandler) UpdateSize(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateItemSizeCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ItemID = chi.URLParam(r, "itemID")
	h.send(w, r, cmd, http.StatusOK)
}

// UpdateLock handles PUT /items/{itemID}/lock
func (h *ItemHandler) UpdateLock(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateItemLockCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ItemID = chi.URLParam(r, "itemID")
	h.send(w, r, cmd, http.StatusOK)
}

// UpdateProperties handles PUT /items/{itemID}/properties
func (h *ItemHandler) UpdateProperties(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateItemPropertiesCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ItemID = chi.URLParam(r, "itemID")
	h.send(w, r, cmd, http.StatusOK)
}

// UpdateTransform handles PUT /items/{itemID}/transform
func (h *ItemHandler) UpdateTransform(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateItemTransformCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ItemID = chi.URLParam(r, "itemID")
	h.send(w, r, cmd, http.StatusOK)
}

// Rotate handles POST /items/{itemID}/rotate
func (h *ItemHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RotateItemCommand{ItemID: chi.URLParam(r, "itemID")}, http.StatusOK)
}

// DeleteItem handles DELETE /items/{itemID}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DeleteItemCommand{ItemID: chi.URLParam(r, "itemID")}, http.StatusOK)
}

// DeleteSelected handles POST /items/delete-selected
func (h *ItemHandler) DeleteSelected(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DeleteSelectedCommand{}, http.StatusOK)
}
