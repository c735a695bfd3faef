// Package handlers exposes the diagram engine over HTTP. Every handler turns a
// request into a command or query and dispatches it through the buses.
package handlers

import (
	"errors"
	"io"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/commands/bus"
	querybus "github.com/rickerduniya/Sayanho-sub000/application/queries/bus"
	"github.com/rickerduniya/Sayanho-sub000/pkg/common"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

const (
	apiVersion = "v1"

	// maxBodyBytes bounds ordinary JSON requests
	maxBodyBytes = 1 << 20
)

// base carries what every resource handler needs
type base struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *apperrors.ErrorHandler
	logger     *zap.Logger
}

func newBase(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) base {
	return base{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// decode reads an optional JSON body into v. It writes the error response and
// returns false when the body is malformed.
func (b *base) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := common.ParseJSONBody(w, r, v, maxBodyBytes)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	b.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()).WithCause(err))
	return false
}

// send dispatches a command and writes its result with status. A command with
// no result answers 204.
func (b *base) send(w http.ResponseWriter, r *http.Request, cmd bus.Command, status int) {
	result, err := b.commandBus.Send(r.Context(), cmd)
	if err != nil {
		b.errors.Handle(w, r, err)
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	b.respond(w, r, status, result)
}

// ask dispatches a query and writes its result
func (b *base) ask(w http.ResponseWriter, r *http.Request, query querybus.Query) {
	result, err := b.queryBus.Ask(r.Context(), query)
	if err != nil {
		b.errors.Handle(w, r, err)
		return
	}
	b.respond(w, r, http.StatusOK, result)
}

func (b *base) respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	common.RespondWithMeta(w, status, data, common.NewMeta(chimiddleware.GetReqID(r.Context()), apiVersion))
}
