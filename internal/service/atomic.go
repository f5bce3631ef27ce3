package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"socialfeed/internal/model"
	"socialfeed/internal/repository"
)

// createWithConditionalNotification runs primaryWrite and, when shouldNotify
// holds for its result, inserts the notification built from that result. Both
// writes share one transaction: any failure rolls back the whole unit.
//
// A notification addressed to its own actor is never written.
func createWithConditionalNotification[T any](
	ctx context.Context,
	db *sqlx.DB,
	notifications repository.NotificationRepository,
	op string,
	primaryWrite func(ctx context.Context, tx *sqlx.Tx) (T, error),
	shouldNotify func(T) bool,
	buildNotification func(T) *model.Notification,
) (T, error) {
	var zero T

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return zero, model.StoreFailure(op+": begin", err)
	}
	defer tx.Rollback()

	result, err := primaryWrite(ctx, tx)
	if err != nil {
		return zero, classify(op, err)
	}

	if shouldNotify(result) {
		n := buildNotification(result)
		if n != nil && n.UserID != n.ActorID {
			if n.ID == "" {
				n.ID = uuid.NewString()
			}
			if err := notifications.Create(ctx, tx, n); err != nil {
				return zero, classify(op+": notify", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return zero, model.StoreFailure(op+": commit", err)
	}
	return result, nil
}

// classify passes categorized errors through and tags everything else as a
// store failure.
func classify(op string, err error) error {
	if model.IsCategorized(err) {
		return err
	}
	return model.StoreFailure(op, err)
}
