// Package messaging implements the EventBus port.
package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/domain/events"
	"github.com/rickerduniya/Sayanho-sub000/pkg/extensions"
)

// DefaultRetention is how many recent events the bus keeps for inspection
const DefaultRetention = 256

// Envelope is a serialized domain event as kept in the recent-events buffer
type Envelope struct {
	EventType   string          `json:"eventType"`
	AggregateID string          `json:"aggregateId"`
	Timestamp   time.Time       `json:"timestamp"`
	Detail      json.RawMessage `json:"detail"`
}

// HookEventBus delivers domain events to the domain_event hook point and
// keeps a bounded buffer of the most recent ones. Hooks run asynchronously,
// so a subscriber may call back into the engine.
type HookEventBus struct {
	hooks     *extensions.HookManager
	logger    *zap.Logger
	retention int

	mu     sync.RWMutex
	recent []Envelope
}

// NewHookEventBus creates an event bus backed by hooks
func NewHookEventBus(hooks *extensions.HookManager, retention int, logger *zap.Logger) *HookEventBus {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &HookEventBus{
		hooks:     hooks,
		logger:    logger,
		retention: retention,
	}
}

// Publish sends a single event
func (b *HookEventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	return b.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch sends multiple events in order
func (b *HookEventBus) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

	envelopes := make([]Envelope, 0, len(domainEvents))
	for _, event := range domainEvents {
		detail, err := json.Marshal(event)
		if err != nil {
			b.logger.Error("Failed to marshal event",
				zap.Error(err),
				zap.String("eventType", event.GetEventType()),
			)
			continue
		}
		envelopes = append(envelopes, Envelope{
			EventType:   event.GetEventType(),
			AggregateID: event.GetAggregateID(),
			Timestamp:   event.GetTimestamp(),
			Detail:      detail,
		})
		b.hooks.ExecuteAsync(context.WithoutCancel(ctx), extensions.HookDomainEvent, event)
	}

	b.mu.Lock()
	b.recent = append(b.recent, envelopes...)
	if overflow := len(b.recent) - b.retention; overflow > 0 {
		b.recent = append([]Envelope(nil), b.recent[overflow:]...)
	}
	b.mu.Unlock()

	b.logger.Debug("Events published",
		zap.Int("count", len(envelopes)),
	)
	return nil
}

// Recent returns up to limit of the newest events, oldest first. A limit of
// zero or less returns everything retained.
func (b *HookEventBus) Recent(limit int) []Envelope {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start := 0
	if limit > 0 && limit < len(b.recent) {
		start = len(b.recent) - limit
	}
	return append([]Envelope{}, b.recent[start:]...)
}
