package solver

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/ports"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
	"github.com/rickerduniya/Sayanho-sub000/pkg/observability"
)

// BreakerConfig holds configuration for the solver circuit breaker
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// Trip once FailureThreshold of at least MinRequests calls failed
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the breaker settings used in production
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             serviceName,
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// BreakerSolver guards a Solver with a circuit breaker. While open, passes
// fail fast and the engine keeps its last solved state. It never retries.
type BreakerSolver struct {
	next    ports.Solver
	cb      *gobreaker.CircuitBreaker
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewBreakerSolver wraps next
func NewBreakerSolver(next ports.Solver, config BreakerConfig, metrics *observability.Collector, logger *zap.Logger) *BreakerSolver {
	s := &BreakerSolver{next: next, metrics: metrics, logger: logger}

	s.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
		},
		IsSuccessful: func(err error) bool {
			// a cancelled caller says nothing about solver health
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	metrics.BreakerState.WithLabelValues(config.Name).Set(stateValue(gobreaker.StateClosed))

	return s
}

// Solve runs the wrapped solver through the breaker
func (s *BreakerSolver) Solve(ctx context.Context, sheets []aggregates.SheetState) ([]aggregates.SheetState, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Solve(ctx, sheets)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			s.logger.Debug("Solver call short-circuited", zap.String("state", s.cb.State().String()))
			return nil, apperrors.NewUnavailableError(serviceName).WithCause(err)
		}
		return nil, err
	}
	return result.([]aggregates.SheetState), nil
}

// State returns the current breaker state
func (s *BreakerSolver) State() gobreaker.State {
	return s.cb.State()
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
