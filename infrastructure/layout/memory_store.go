// Package layout holds the coupled floor-plan store used alongside the diagram.
package layout

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/ports"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	"github.com/rickerduniya/Sayanho-sub000/domain/versioning"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// MemoryLayoutStore keeps floor-plan components in memory. Components start
// staged and move to the placed set once a diagram item represents them.
type MemoryLayoutStore struct {
	mu         sync.RWMutex
	components map[string]*ports.LayoutComponent
	staged     []string
	logger     *zap.Logger
}

// NewMemoryLayoutStore creates an empty layout store
func NewMemoryLayoutStore(logger *zap.Logger) *MemoryLayoutStore {
	return &MemoryLayoutStore{
		components: make(map[string]*ports.LayoutComponent),
		logger:     logger,
	}
}

// Stage registers a component awaiting placement
func (s *MemoryLayoutStore) Stage(id, itemType string, position valueobjects.Point) error {
	if id == "" {
		return apperrors.NewValidationError("component id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[id]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("component %s already exists", id))
	}
	s.components[id] = &ports.LayoutComponent{ID: id, ItemType: itemType, Position: position}
	s.staged = append(s.staged, id)
	return nil
}

// Place marks a component as represented on the diagram. Placing an
// already placed component is a no-op.
func (s *MemoryLayoutStore) Place(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.components[id]
	if !exists {
		return apperrors.NewNotFoundError("layout component")
	}
	c.Placed = true
	s.staged = without(s.staged, id)
	return nil
}

// Components returns copies of all components ordered by id
func (s *MemoryLayoutStore) Components() []ports.LayoutComponent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.LayoutComponent, 0, len(s.components))
	for _, c := range s.components {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Staging returns the staging list and the placed-id set
func (s *MemoryLayoutStore) Staging() versioning.LayoutStaging {
	s.mu.RLock()
	defer s.mu.RUnlock()

	staging := versioning.LayoutStaging{
		Staged: append([]string{}, s.staged...),
		Placed: []string{},
	}
	for id, c := range s.components {
		if c.Placed {
			staging.Placed = append(staging.Placed, id)
		}
	}
	sort.Strings(staging.Placed)
	return staging
}

// RestoreStaging reinstates a staging state captured by Staging. Components
// named by the state but unknown to the store are recreated without position.
func (s *MemoryLayoutStore) RestoreStaging(staging versioning.LayoutStaging) {
	s.mu.Lock()
	defer s.mu.Unlock()

	placed := make(map[string]bool, len(staging.Placed))
	for _, id := range staging.Placed {
		placed[id] = true
	}
	known := make(map[string]bool, len(staging.Staged)+len(staging.Placed))
	for _, id := range staging.Staged {
		known[id] = true
	}
	for id := range placed {
		known[id] = true
	}

	for id := range s.components {
		if !known[id] {
			delete(s.components, id)
		}
	}
	for id := range known {
		c, exists := s.components[id]
		if !exists {
			c = &ports.LayoutComponent{ID: id}
			s.components[id] = c
		}
		c.Placed = placed[id]
	}
	s.staged = append([]string{}, staging.Staged...)
}

// RemoveComponent deletes a component from the floor plan
func (s *MemoryLayoutStore) RemoveComponent(ctx context.Context, componentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[componentID]; !exists {
		return apperrors.NewNotFoundError("layout component")
	}
	delete(s.components, componentID)
	s.staged = without(s.staged, componentID)

	s.logger.Debug("Layout component removed", zap.String("componentID", componentID))
	return nil
}

func without(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
