package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/ports"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	"github.com/rickerduniya/Sayanho-sub000/pkg/extensions"
	"github.com/rickerduniya/Sayanho-sub000/pkg/observability"
)

// Recalculation outcomes reported to metrics
const (
	outcomeApplied  = "applied"
	outcomeStale    = "stale"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// recalcTarget is the live state a Recalculator reads and writes back.
// captureStates returns detached sheets and the revision they reflect;
// applySolved installs solver output only if that revision is still current.
type recalcTarget interface {
	captureStates() ([]aggregates.SheetState, uint64)
	applySolved(ctx context.Context, states []aggregates.SheetState, revision uint64) (uint64, string)
}

// Recalculator debounces solver passes. Calls to Schedule within the debounce
// window collapse into one pass that reads the state at the moment the timer
// fires. A result computed from an older revision than the live one is
// discarded, so the newest edit always wins.
type Recalculator struct {
	solver  ports.Solver
	target  recalcTarget
	hooks   *extensions.HookManager
	metrics *observability.Collector
	logger  *zap.Logger

	mu       sync.Mutex
	debounce time.Duration
	timer    *time.Timer
	ticket   uint64
	pending  bool
	stopped  bool
	inflight sync.WaitGroup
}

// NewRecalculator creates a recalculator for target
func NewRecalculator(
	solver ports.Solver,
	target recalcTarget,
	debounce time.Duration,
	hooks *extensions.HookManager,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Recalculator {
	return &Recalculator{
		solver:   solver,
		target:   target,
		hooks:    hooks,
		metrics:  metrics,
		logger:   logger,
		debounce: debounce,
	}
}

// SetDebounce changes the window used by subsequent Schedule calls
func (r *Recalculator) SetDebounce(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debounce = d
}

// Schedule (re)starts the debounce window
func (r *Recalculator) Schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	r.cancelLocked()
	r.ticket++
	ticket := r.ticket
	r.pending = true
	r.inflight.Add(1)
	r.timer = time.AfterFunc(r.debounce, func() { r.fire(ticket) })
}

// Pending reports whether a pass is waiting for its timer
func (r *Recalculator) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// RunNow cancels any pending timer and runs a pass synchronously
func (r *Recalculator) RunNow(ctx context.Context) error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return fmt.Errorf("recalculator stopped")
	}
	r.cancelLocked()
	r.pending = false
	r.inflight.Add(1)
	r.mu.Unlock()

	defer r.inflight.Done()
	return r.run(ctx)
}

// Stop cancels the pending pass, refuses new ones and waits for running passes
func (r *Recalculator) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.cancelLocked()
	r.pending = false
	r.mu.Unlock()

	r.inflight.Wait()
}

// cancelLocked stops the current timer if it has not fired yet
func (r *Recalculator) cancelLocked() {
	if r.timer != nil && r.timer.Stop() {
		r.inflight.Done()
	}
	r.timer = nil
}

func (r *Recalculator) fire(ticket uint64) {
	defer r.inflight.Done()

	r.mu.Lock()
	if ticket != r.ticket {
		r.mu.Unlock()
		return
	}
	r.pending = false
	r.timer = nil
	r.mu.Unlock()

	_ = r.run(context.Background())
}

// run performs one pass. There is no timeout: a slow solver only delays the
// next visible update.
func (r *Recalculator) run(ctx context.Context) error {
	states, revision := r.target.captureStates()

	start := time.Now()
	solved, err := r.solver.Solve(ctx, states)
	elapsed := time.Since(start)
	if err != nil {
		r.metrics.RecordRecalculation(outcomeFailed, elapsed)
		r.logger.Error("Recalculation failed",
			zap.Uint64("revision", revision),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return err
	}

	generation, outcome := r.target.applySolved(ctx, solved, revision)
	r.metrics.RecordRecalculation(outcome, elapsed)

	switch outcome {
	case outcomeStale:
		r.metrics.StaleSolves.Inc()
		r.logger.Debug("Discarded stale solver result", zap.Uint64("revision", revision))
		if !r.Pending() {
			r.Schedule()
		}
	case outcomeRejected:
		r.logger.Error("Solver returned sheets with unresolved connectors", zap.Uint64("revision", revision))
		return fmt.Errorf("solver result rejected")
	case outcomeApplied:
		r.logger.Debug("Recalculation applied",
			zap.Uint64("generation", generation),
			zap.Duration("duration", elapsed),
		)
		r.hooks.ExecuteAsync(context.WithoutCancel(ctx), extensions.HookAfterRecalculation, extensions.HookData{
			Operation: "recalculate",
			Metadata: map[string]interface{}{
				"generation": generation,
				"revision":   revision,
			},
		})
	}
	return nil
}

// captureStates implements recalcTarget
func (e *Editor) captureStates() ([]aggregates.SheetState, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.diagram.States(), e.revision
}

// applySolved implements recalcTarget. Solver output that references missing
// items is refused so a faulty solve never corrupts the live diagram.
func (e *Editor) applySolved(ctx context.Context, states []aggregates.SheetState, revision uint64) (uint64, string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if revision != e.revision {
		return e.generation, outcomeStale
	}
	for _, state := range states {
		known := valueobjects.NewItemSet()
		for _, item := range state.Items {
			if item == nil {
				return e.generation, outcomeRejected
			}
			known.Add(item.ID)
		}
		for _, c := range state.Connectors {
			if c == nil || !known.Has(c.SourceID) || !known.Has(c.TargetID) {
				return e.generation, outcomeRejected
			}
		}
	}

	e.diagram.ApplyStates(states)
	e.generation++
	e.diagram.RecordRecalculated(e.generation)
	e.publish(ctx)
	return e.generation, outcomeApplied
}

// Generation returns the number of applied recalculation passes
func (e *Editor) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}
