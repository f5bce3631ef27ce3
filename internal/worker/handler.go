package worker

import (
	"context"
	"fmt"

	"socialfeed/internal/logger"
	"socialfeed/internal/queue"
)

// ViewInvalidator drops cached views. cache.HomeCache satisfies it.
type ViewInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Handler turns activity events into home view invalidations.
type Handler struct {
	home ViewInvalidator
}

// NewHandler creates a new event handler.
func NewHandler(home ViewInvalidator) *Handler {
	return &Handler{home: home}
}

// staleHome lists the events that change what the home view renders.
var staleHome = map[string]bool{
	queue.EventPostCreated:    true,
	queue.EventPostDeleted:    true,
	queue.EventPostLiked:      true,
	queue.EventPostUnliked:    true,
	queue.EventPostCommented:  true,
	queue.EventUserFollowed:   true,
	queue.EventUserUnfollowed: true,
	queue.EventProfileUpdated: true,
}

// HandleBatch invalidates the home view at most once for a batch of events.
// Unknown event types are reported but do not block the rest of the batch.
func (h *Handler) HandleBatch(ctx context.Context, events []queue.ActivityEvent) error {
	log := logger.Component("worker")

	stale := false
	var unknown []string
	for _, e := range events {
		if staleHome[e.Type] {
			stale = true
			continue
		}
		unknown = append(unknown, e.Type)
	}

	if stale {
		if err := h.home.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate home view: %w", err)
		}
		log.Debug().Int("events", len(events)).Msg("home view invalidated")
	}

	if len(unknown) > 0 {
		return fmt.Errorf("unknown event types: %v", unknown)
	}
	return nil
}
