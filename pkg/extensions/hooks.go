package extensions

import (
	"context"
	"fmt"
	"sync"
)

// HookPoint represents a point in the engine where hooks can be registered
type HookPoint string

const (
	// Mutation hooks
	HookBeforeMutation   HookPoint = "before_mutation"
	HookAfterMutation    HookPoint = "after_mutation"
	HookMutationRejected HookPoint = "mutation_rejected"

	// History hooks
	HookAfterUndo HookPoint = "after_undo"
	HookAfterRedo HookPoint = "after_redo"

	// Recalculation hooks
	HookAfterRecalculation HookPoint = "after_recalculation"

	// Domain events published through the event bus
	HookDomainEvent HookPoint = "domain_event"
)

// Hook represents a function that can be executed at a hook point
type Hook func(ctx context.Context, data interface{}) error

// AsyncErrorFunc receives failures from hooks run by ExecuteAsync
type AsyncErrorFunc func(point HookPoint, err error)

// HookManager manages hooks for extension points
type HookManager struct {
	hooks   map[HookPoint][]Hook
	onError AsyncErrorFunc
	mu      sync.RWMutex
}

// NewHookManager creates a new hook manager
func NewHookManager() *HookManager {
	return &HookManager{
		hooks: make(map[HookPoint][]Hook),
	}
}

// OnAsyncError installs the receiver for asynchronous hook failures. Without
// one they are dropped.
func (m *HookManager) OnAsyncError(fn AsyncErrorFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onError = fn
}

// Register registers a hook for a specific hook point
func (m *HookManager) Register(point HookPoint, hook Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hooks[point] = append(m.hooks[point], hook)
}

// Execute runs the hooks at point in registration order and stops at the
// first failure. A before_mutation failure vetoes the edit.
func (m *HookManager) Execute(ctx context.Context, point HookPoint, data interface{}) error {
	m.mu.RLock()
	hooks := m.hooks[point]
	m.mu.RUnlock()

	for i, hook := range hooks {
		if err := hook(ctx, data); err != nil {
			return fmt.Errorf("hook %d at %s failed: %w", i, point, err)
		}
	}

	return nil
}

// ExecuteAsync runs each hook at point on its own goroutine. The caller may
// hold engine locks, so hooks are free to call back into the engine. Errors
// and panics go to the OnAsyncError receiver.
func (m *HookManager) ExecuteAsync(ctx context.Context, point HookPoint, data interface{}) {
	m.mu.RLock()
	hooks := m.hooks[point]
	onError := m.onError
	m.mu.RUnlock()

	for _, hook := range hooks {
		go func(h Hook) {
			defer func() {
				if rec := recover(); rec != nil && onError != nil {
					onError(point, fmt.Errorf("hook panicked: %v", rec))
				}
			}()
			if err := h(ctx, data); err != nil && onError != nil {
				onError(point, err)
			}
		}(hook)
	}
}

// HookData represents data passed to mutation and history hooks
type HookData struct {
	Operation string                 `json:"operation"`
	SheetID   string                 `json:"sheet_id,omitempty"`
	EntityIDs []string               `json:"entity_ids,omitempty"`
	Code      string                 `json:"code,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}
