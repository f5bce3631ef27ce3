package service

import (
	"context"

	"socialfeed/internal/model"
	"socialfeed/internal/repository"
)

const (
	DefaultNotificationLimit = 50
	MaxNotificationLimit     = 100
)

// NotificationService reads a recipient's notifications. Every operation is
// scoped to the requesting actor.
type NotificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// ListNotifications returns the actor's notifications, newest first, with
// actor, post and comment projections attached.
func (s *NotificationService) ListNotifications(ctx context.Context, actorID string, limit int) ([]model.Notification, error) {
	if actorID == "" {
		return []model.Notification{}, nil
	}

	notifications, err := s.notifications.ListForUser(ctx, actorID, clampLimit(limit, DefaultNotificationLimit, MaxNotificationLimit))
	if err != nil {
		return nil, model.StoreFailure("list notifications", err)
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	return notifications, nil
}

// MarkRead marks the given notifications read. Ids that are unknown, already
// read, or addressed to another recipient are left alone.
func (s *NotificationService) MarkRead(ctx context.Context, actorID string, ids []string) (*model.MarkReadResult, error) {
	if actorID == "" {
		return &model.MarkReadResult{Skipped: true}, nil
	}
	if len(ids) == 0 {
		return &model.MarkReadResult{}, nil
	}

	updated, err := s.notifications.MarkRead(ctx, actorID, dedupe(ids))
	if err != nil {
		return nil, model.StoreFailure("mark notifications read", err)
	}
	return &model.MarkReadResult{Updated: updated}, nil
}

// MarkAllRead marks every notification of the actor read.
func (s *NotificationService) MarkAllRead(ctx context.Context, actorID string) (*model.MarkReadResult, error) {
	if actorID == "" {
		return &model.MarkReadResult{Skipped: true}, nil
	}

	updated, err := s.notifications.MarkAllRead(ctx, actorID)
	if err != nil {
		return nil, model.StoreFailure("mark all notifications read", err)
	}
	return &model.MarkReadResult{Updated: updated}, nil
}

// UnreadCount returns the number of unread notifications (for badge display).
func (s *NotificationService) UnreadCount(ctx context.Context, actorID string) (int, error) {
	if actorID == "" {
		return 0, nil
	}

	count, err := s.notifications.UnreadCount(ctx, actorID)
	if err != nil {
		return 0, model.StoreFailure("count unread notifications", err)
	}
	return count, nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
