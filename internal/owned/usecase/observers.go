package usecase

import (
	"context"
	"sync"
	"time"

	"fittrack-backend/internal/owned/domain"
	"fittrack-backend/pkg/events"

	"go.uber.org/zap"
)

const (
	publishTimeout = 5 * time.Second
	eventQueueSize = 1024
)

// EventObserver forwards committed changes to an event publisher. Events are
// queued and published by a single worker, so they leave in the order they
// were committed. Failures are logged only.
type EventObserver struct {
	publisher events.Publisher
	log       *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan events.RecordEvent
	done   chan struct{}
}

func NewEventObserver(publisher events.Publisher, log *zap.Logger) *EventObserver {
	o := &EventObserver{
		publisher: publisher,
		log:       log,
		queue:     make(chan events.RecordEvent, eventQueueSize),
		done:      make(chan struct{}),
	}
	go o.run()
	return o
}

func (o *EventObserver) RecordChanged(_ context.Context, change domain.Change) {
	event := events.RecordEvent{
		Kind:       change.Kind,
		Action:     string(change.Action),
		UserID:     change.UserID,
		RecordID:   change.RecordID,
		Count:      change.Count,
		OccurredAt: change.At,
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		o.log.Warn("record_event_dropped", zap.String("reason", "observer closed"),
			zap.String("kind", event.Kind), zap.String("action", event.Action))
		return
	}

	select {
	case o.queue <- event:
	default:
		o.log.Warn("record_event_dropped", zap.String("reason", "queue full"),
			zap.String("kind", event.Kind), zap.String("action", event.Action))
	}
}

// Close stops accepting events and waits until the queued ones have been
// handed to the publisher, or ctx expires.
func (o *EventObserver) Close(ctx context.Context) error {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.queue)
	}
	o.mu.Unlock()

	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *EventObserver) run() {
	defer close(o.done)
	for event := range o.queue {
		o.publish(event)
	}
}

func (o *EventObserver) publish(event events.RecordEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := o.publisher.Publish(ctx, event); err != nil {
		o.log.Warn("record_event_publish_failed",
			zap.String("kind", event.Kind),
			zap.String("action", event.Action),
			zap.Error(err),
		)
	}
}
