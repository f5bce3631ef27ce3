package service

import (
	"context"
	"sync"
	"time"

	"socialfeed/internal/logger"
	"socialfeed/internal/queue"
)

// DefaultPublishTimeout bounds a single activity publish.
const DefaultPublishTimeout = 2 * time.Second

// ActivityEmitter publishes activity events after a mutation commits. Emit
// never blocks the caller and a failed publish is only logged.
// A nil *ActivityEmitter is valid and drops every event.
type ActivityEmitter struct {
	publisher queue.Publisher
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewActivityEmitter(publisher queue.Publisher, timeout time.Duration) *ActivityEmitter {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &ActivityEmitter{publisher: publisher, timeout: timeout}
}

func (e *ActivityEmitter) Emit(event queue.ActivityEvent) {
	if e == nil {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		// Detached from the request: the response may already be written.
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()

		if _, err := e.publisher.Publish(ctx, queue.StreamActivity, event); err != nil {
			log := logger.Component("activity")
			log.Warn().
				Err(err).
				Str("event", event.Type).
				Str(logger.FieldActorID, event.ActorID).
				Msg("failed to publish activity event")
		}
	}()
}

// Wait blocks until every in-flight publish has finished.
func (e *ActivityEmitter) Wait() {
	if e == nil {
		return
	}
	e.wg.Wait()
}
