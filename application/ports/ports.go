package ports

import (
	"context"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	"github.com/rickerduniya/Sayanho-sub000/domain/events"
	"github.com/rickerduniya/Sayanho-sub000/domain/versioning"
)

// Solver computes per-connector current annotations for a whole diagram.
// It receives detached sheets and returns the same sheets with each
// connector's CurrentValues populated. Implementations must not retain the
// input slices.
type Solver interface {
	Solve(ctx context.Context, sheets []aggregates.SheetState) ([]aggregates.SheetState, error)
}

// LayoutComponent is a floor-plan element, optionally linked to a diagram item
type LayoutComponent struct {
	ID       string             `json:"id"`
	ItemType string             `json:"itemType"`
	Position valueobjects.Point `json:"position"`
	Placed   bool               `json:"placed"`
}

// LayoutStore is the coupled floor-plan store. The engine snapshots its
// staging state with every undo step, marks staged components placed when a
// diagram item carrying their id is dropped, and asks it to drop components
// whose diagram item was deleted.
type LayoutStore interface {
	// Stage registers a floor-plan component awaiting a diagram item
	Stage(id, itemType string, position valueobjects.Point) error

	// Place moves a staged component to the placed set
	Place(id string) error

	// Components lists every component ordered by id
	Components() []LayoutComponent

	// Staging returns the current staging list and placed-id set
	Staging() versioning.LayoutStaging

	// RestoreStaging puts back a staging state captured by Staging
	RestoreStaging(staging versioning.LayoutStaging)

	// RemoveComponent deletes a placed component. Called at most once per
	// deleted item, without retry.
	RemoveComponent(ctx context.Context, componentID string) error
}

// EventBus defines the interface for publishing domain events
type EventBus interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
