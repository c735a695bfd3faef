package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	handlers    map[reflect.Type]QueryHandler
	middlewares []Middleware
	mu          sync.RWMutex
}

// NewQueryBus creates a new query bus. Middleware wraps every handler
// registered afterwards.
func NewQueryBus(middlewares ...Middleware) *QueryBus {
	return &QueryBus{
		handlers:    make(map[reflect.Type]QueryHandler),
		middlewares: middlewares,
	}
}

var (
	// ErrQueryHandlerNotFound is returned when no handler serves a query type
	ErrQueryHandlerNotFound = errors.New("query handler not found")
	// ErrQueryHandlerExists is returned when a query type is registered twice
	ErrQueryHandlerExists = errors.New("query handler already registered")
)

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("%w: %s", ErrQueryHandlerExists, t.Name())
	}

	for i := len(b.middlewares) - 1; i >= 0; i-- {
		handler = b.middlewares[i](handler)
	}
	b.handlers[t] = handler
	return nil
}

// Ask dispatches a query to its handler and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if query == nil {
		return nil, apperrors.NewValidationError("query required")
	}
	if err := query.Validate(); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.NewValidationError(err.Error())
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %T", ErrQueryHandlerNotFound, query)
	}

	return handler.Handle(ctx, query)
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// Middleware defines query middleware
type Middleware func(next QueryHandler) QueryHandler

// Metrics records query outcomes
type Metrics interface {
	RecordQuery(query, outcome string)
}

// MetricsMiddleware counts queries by type and outcome. Lookups of missing
// objects are counted apart from failures.
func MetricsMiddleware(metrics Metrics) Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
			queryType := reflect.TypeOf(query).Name()

			result, err := next.Handle(ctx, query)
			metrics.RecordQuery(queryType, outcome(err))
			if err != nil {
				return nil, err
			}
			return result, nil
		})
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
