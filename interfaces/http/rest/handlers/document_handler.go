package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/commands"
	"github.com/rickerduniya/Sayanho-sub000/application/commands/bus"
	"github.com/rickerduniya/Sayanho-sub000/application/queries"
	querybus "github.com/rickerduniya/Sayanho-sub000/application/queries/bus"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/messaging"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/persistence/schema"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

const (
	maxDocumentBytes  = 16 << 20
	defaultEventLimit = 50
)

// EventFeed exposes recently published domain events
type EventFeed interface {
	Recent(limit int) []messaging.Envelope
}

// DocumentHandler imports and exports whole diagrams
type DocumentHandler struct {
	base
	codec *schema.Codec
	feed  EventFeed
}

// NewDocumentHandler creates a new document handler. feed may be nil.
func NewDocumentHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *apperrors.ErrorHandler,
	codec *schema.Codec,
	feed EventFeed,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		base:  newBase(commandBus, queryBus, errorHandler, logger),
		codec: codec,
		feed:  feed,
	}
}

// Routes mounts the document endpoints
func (h *DocumentHandler) Routes(r chi.Router) {
	r.Get("/", h.Export)
	r.Put("/", h.Import)
	r.Get("/integrity", h.Integrity)
	r.Get("/events", h.Events)
}

// Export handles GET /document and writes the saved document form
func (h *DocumentHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetDocumentQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	doc, ok := result.(queries.DocumentResult)
	if !ok {
		h.errors.Handle(w, r, apperrors.NewInternalError("unexpected document result"))
		return
	}

	data, err := h.codec.Encode(doc.Sheets, valueobjects.SheetID(doc.ActiveSheetID))
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewInternalError("failed to encode document").WithCause(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import handles PUT /document. Older document versions are migrated before
// loading; connectors with unresolved endpoints are dropped.
func (h *DocumentHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Failed to read document").WithCause(err))
		return
	}

	doc, applied, err := h.codec.Decode(body)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if len(applied) > 0 {
		h.logger.Info("Migrated imported document",
			zap.Int("from", applied[0].Version-1),
			zap.Int("to", doc.Version),
		)
	}

	h.send(w, r, commands.LoadDiagramCommand{
		Sheets:        doc.Sheets,
		ActiveSheetID: doc.ActiveSheetID.String(),
	}, http.StatusOK)
}

// Integrity handles GET /document/integrity
func (h *DocumentHandler) Integrity(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.ValidateDiagramQuery{})
}

// Events handles GET /document/events?limit=n
func (h *DocumentHandler) Events(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		h.errors.Handle(w, r, apperrors.NewUnavailableError("event feed"))
		return
	}
	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.errors.Handle(w, r, apperrors.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}
	h.respond(w, r, http.StatusOK, h.feed.Recent(limit))
}
