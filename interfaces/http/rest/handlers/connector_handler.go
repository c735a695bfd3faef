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

// ConnectorHandler handles connector and portal HTTP requests
type ConnectorHandler struct {
	base
}

// NewConnectorHandler creates a new connector handler
func NewConnectorHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *ConnectorHandler {
	return &ConnectorHandler{base: newBase(commandBus, queryBus, errorHandler, logger)}
}

// Routes mounts the connector endpoints
func (h *ConnectorHandler) Routes(r chi.Router) {
	r.Post("/", h.AddConnector)
	r.Get("/material-prompt", h.MaterialPrompt)
	r.Get("/{connectorID}", h.GetConnector)
	r.Patch("/{connectorID}", h.UpdateConnector)
	r.Delete("/{connectorID}", h.DeleteConnector)
}

// PortalRoutes mounts the portal and net endpoints
func (h *ConnectorHandler) PortalRoutes(r chi.Router) {
	r.Get("/", h.ListNets)
	r.Post("/", h.CreatePortal)
	r.Post("/{netID}/pair", h.CreatePairedPortal)
	r.Put("/{netID}/label", h.UpdatePortalLabel)
}

// AddConnector handles POST /connectors
func (h *ConnectorHandler) AddConnector(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddConnectorCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

// MaterialPrompt handles GET /connectors/material-prompt?sourceId=&targetId=
func (h *ConnectorHandler) MaterialPrompt(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.MaterialPromptQuery{
		SourceID: r.URL.Query().Get("sourceId"),
		TargetID: r.URL.Query().Get("targetId"),
	})
}

// GetConnector handles GET /connectors/{connectorID}
func (h *ConnectorHandler) GetConnector(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetConnectorQuery{ConnectorID: chi.URLParam(r, "connectorID")})
}

// UpdateConnector handles PATCH /connectors/{connectorID}
func (h *ConnectorHandler) UpdateConnector(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateConnectorCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ConnectorID = chi.URLParam(r, "connectorID")
	h.send(w, r, cmd, http.StatusOK)
}

// DeleteConnector handles DELETE /connectors/{connectorID}
func (h *ConnectorHandler) DeleteConnector(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DeleteConnectorCommand{ConnectorID: chi.URLParam(r, "connectorID")}, http.StatusOK)
}

// ListNets handles GET /portals
func (h *ConnectorHandler) ListNets(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetNetsQuery{})
}

// CreatePortal handles POST /portals
func (h *ConnectorHandler) CreatePortal(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreatePortalCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

// CreatePairedPortal handles POST /portals/{netID}/pair
func (h *ConnectorHandler) CreatePairedPortal(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreatePairedPortalCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.NetID = chi.URLParam(r, "netID")
	h.send(w, r, cmd, http.StatusCreated)
}

// UpdatePortalLabel handles PUT /portals/{netID}/label
func (h *ConnectorHandler) UpdatePortalLabel(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdatePortalLabelCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.NetID = chi.URLParam(r, "netID")
	h.send(w, r, cmd, http.StatusOK)
}
