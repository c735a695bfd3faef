package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/ports"
	"github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	"github.com/rickerduniya/Sayanho-sub000/domain/events"
	"github.com/rickerduniya/Sayanho-sub000/domain/versioning"
	"github.com/rickerduniya/Sayanho-sub000/pkg/extensions"
	"github.com/rickerduniya/Sayanho-sub000/pkg/observability"
)

// fakeSolver stamps every connector with a fixed current. A gate, when set,
// blocks the first call until it is closed.
type fakeSolver struct {
	mu      sync.Mutex
	calls   int
	err     error
	gate    chan struct{}
	mangle  bool
	current string
}

func (s *fakeSolver) Solve(ctx context.Context, sheets []aggregates.SheetState) ([]aggregates.SheetState, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	gate := s.gate
	err := s.err
	mangle := s.mangle
	current := s.current
	s.mu.Unlock()

	if gate != nil && call == 1 {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if current == "" {
		current = "5 A"
	}

	out := make([]aggregates.SheetState, len(sheets))
	for i, sheet := range sheets {
		out[i] = sheet.Clone()
		for _, c := range out[i].Connectors {
			c.CurrentValues = &entities.CurrentValues{TotalCurrent: current, RCurrent: current, YCurrent: "0 A", BCurrent: "0 A", Phase: "R"}
		}
		if mangle {
			out[i].Connectors = append(out[i].Connectors, &entities.Connector{
				ID: valueobjects.NewConnectorID(), SourceID: "ghost", TargetID: "phantom",
			})
		}
	}
	return out, nil
}

func (s *fakeSolver) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fakeLayout records removals and keeps a mutable staging state
type fakeLayout struct {
	mu      sync.Mutex
	staging versioning.LayoutStaging
	removed []string
	fail    bool
}

func (l *fakeLayout) Staging() versioning.LayoutStaging {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.staging.Clone()
}

func (l *fakeLayout) RestoreStaging(staging versioning.LayoutStaging) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.staging = staging.Clone()
}

func (l *fakeLayout) RemoveComponent(ctx context.Context, componentID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removed = append(l.removed, componentID)
	if l.fail {
		return errors.New("layout store offline")
	}
	return nil
}

func (l *fakeLayout) Removed() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.removed...)
}

func (l *fakeLayout) Stage(id, itemType string, _ valueobjects.Point) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.staging.Staged = append(l.staging.Staged, id)
	return nil
}

func (l *fakeLayout) Place(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, staged := range l.staging.Staged {
		if staged == id {
			l.staging.Staged = append(l.staging.Staged[:i:i], l.staging.Staged[i+1:]...)
			l.staging.Placed = append(l.staging.Placed, id)
			return nil
		}
	}
	return errors.New("component not staged")
}

func (l *fakeLayout) Components() []ports.LayoutComponent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ports.LayoutComponent, 0, len(l.staging.Staged)+len(l.staging.Placed))
	for _, id := range l.staging.Staged {
		out = append(out, ports.LayoutComponent{ID: id})
	}
	for _, id := range l.staging.Placed {
		out = append(out, ports.LayoutComponent{ID: id, Placed: true})
	}
	return out
}

// recordingBus keeps every published event type
type recordingBus struct {
	mu     sync.Mutex
	types  []string
	failOn bool
}

func (b *recordingBus) Publish(ctx context.Context, event events.DomainEvent) error {
	return b.PublishBatch(ctx, []events.DomainEvent{event})
}

func (b *recordingBus) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, evt := range evts {
		b.types = append(b.types, evt.GetEventType())
	}
	if b.failOn {
		return errors.New("bus down")
	}
	return nil
}

func (b *recordingBus) Types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.types...)
}

type fixture struct {
	editor  *Editor
	solver  *fakeSolver
	layout  *fakeLayout
	bus     *recordingBus
	hooks   *extensions.HookManager
	metrics *observability.Collector
}

// newFixture builds an editor whose debounce never fires unless the test
// shortens it
func newFixture(t *testing.T, debounce ...time.Duration) *fixture {
	t.Helper()

	cfg := config.DefaultDomainConfig()
	cfg.RecalcDebounce = time.Hour
	if len(debounce) > 0 {
		cfg.RecalcDebounce = debounce[0]
	}

	f := &fixture{
		solver:  &fakeSolver{},
		layout:  &fakeLayout{},
		bus:     &recordingBus{},
		hooks:   extensions.NewHookManager(),
		metrics: observability.NewCollector("test"),
	}
	f.editor = NewEditor(cfg, f.solver, f.layout, f.bus, f.hooks, f.metrics, zap.NewNop())
	t.Cleanup(f.editor.Close)
	return f
}

// place adds an item with the given connection point keys to the active sheet
func (f *fixture) place(t *testing.T, itemType string, keys ...string) *entities.Item {
	t.Helper()
	item := entities.NewItem(itemType, valueobjects.Point{X: 100, Y: 100}, valueobjects.Size{Width: 40, Height: 40})
	for i, key := range keys {
		item.ConnectionPoints[key] = valueobjects.Point{X: float64(i * 10), Y: 0}
	}
	placed, err := f.editor.AddItem(context.Background(), item)
	require.NoError(t, err)
	return placed
}

// connect draws a Cable connector from source.sourceKey to target.targetKey
func (f *fixture) connect(t *testing.T, source *entities.Item, sourceKey string, target *entities.Item, targetKey string) *entities.Connector {
	t.Helper()
	c, err := f.editor.AddConnector(context.Background(), ConnectorRequest{
		SourceID:     source.ID,
		SourceKey:    sourceKey,
		TargetID:     target.ID,
		TargetKey:    targetKey,
		MaterialType: valueobjects.MaterialCable,
	})
	require.NoError(t, err)
	return c
}

// portalKey returns the single exposed key of a portal
func portalKey(p *entities.Item) string {
	for key := range p.ConnectionPoints {
		return key
	}
	return ""
}

// checksum fingerprints the active sheet's items and connectors
func (f *fixture) checksum(t *testing.T) string {
	t.Helper()
	state := f.editor.ActiveSheet()
	data, err := json.Marshal(struct {
		Items      []*entities.Item      `json:"items"`
		Connectors []*entities.Connector `json:"connectors"`
	}{state.Items, state.Connectors})
	require.NoError(t, err)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
