package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"socialfeed/internal/model"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create inserts a new notification.
func (r *notificationRepository) Create(ctx context.Context, q sqlx.ExtContext, n *model.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	query := q.Rebind(`
		INSERT INTO notifications (id, type, user_id, actor_id, post_id, comment_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := q.ExecContext(ctx, query, n.ID, n.Type, n.UserID, n.ActorID, n.PostID, n.CommentID, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListForUser returns notifications with the actor, post and comment
// projections joined in, so the caller needs no further lookups.
func (r *notificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	query := r.db.Rebind(`
		SELECT n.id, n.type, n.user_id, n.actor_id, n.post_id, n.comment_id, n.is_read, n.created_at,
		       u.name AS actor_name, u.username AS actor_username, u.image AS actor_image,
		       p.content AS post_content, p.image AS post_image,
		       c.content AS comment_content, c.created_at AS comment_created_at
		FROM notifications n
		JOIN users u ON u.id = n.actor_id
		LEFT JOIN posts p ON p.id = n.post_id
		LEFT JOIN comments c ON c.id = n.comment_id
		WHERE n.user_id = ?
		ORDER BY n.created_at DESC, n.id DESC
		LIMIT ?
	`)

	type notifRow struct {
		ID               string     `db:"id"`
		Type             string     `db:"type"`
		UserID           string     `db:"user_id"`
		ActorID          string     `db:"actor_id"`
		PostID           *string    `db:"post_id"`
		CommentID        *string    `db:"comment_id"`
		IsRead           bool       `db:"is_read"`
		CreatedAt        time.Time  `db:"created_at"`
		ActorName        string     `db:"actor_name"`
		ActorUsername    string     `db:"actor_username"`
		ActorImage       string     `db:"actor_image"`
		PostContent      *string    `db:"post_content"`
		PostImage        *string    `db:"post_image"`
		CommentContent   *string    `db:"comment_content"`
		CommentCreatedAt *time.Time `db:"comment_created_at"`
	}

	var rows []notifRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]model.Notification, len(rows))
	for i, row := range rows {
		n := model.Notification{
			ID:        row.ID,
			Type:      row.Type,
			UserID:    row.UserID,
			ActorID:   row.ActorID,
			PostID:    row.PostID,
			CommentID: row.CommentID,
			IsRead:    row.IsRead,
			CreatedAt: row.CreatedAt,
			Actor: &model.UserSummary{
				ID:       row.ActorID,
				Name:     row.ActorName,
				Username: row.ActorUsername,
				Image:    row.ActorImage,
			},
		}
		if row.PostID != nil && row.PostContent != nil {
			n.Post = &model.PostPreview{
				ID:      *row.PostID,
				Content: *row.PostContent,
				Image:   row.PostImage,
			}
		}
		if row.CommentID != nil && row.CommentContent != nil {
			n.Comment = &model.CommentPreview{
				ID:      *row.CommentID,
				Content: *row.CommentContent,
			}
			if row.CommentCreatedAt != nil {
				n.Comment.CreatedAt = *row.CommentCreatedAt
			}
		}
		notifications[i] = n
	}

	return notifications, nil
}

// MarkRead marks the given notifications as read, limited to the recipient's own rows.
func (r *notificationRepository) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`
		UPDATE notifications
		SET is_read = TRUE
		WHERE user_id = ? AND is_read = FALSE AND id IN (?)
	`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("build mark read query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("mark notifications as read: %w", err)
	}
	return result.RowsAffected()
}

// MarkAllRead marks all notifications for a user as read.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	query := r.db.Rebind(`
		UPDATE notifications
		SET is_read = TRUE
		WHERE user_id = ? AND is_read = FALSE
	`)
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications as read: %w", err)
	}
	return result.RowsAffected()
}

// UnreadCount returns the count of unread notifications.
func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	query := r.db.Rebind(`
		SELECT COUNT(*) FROM notifications
		WHERE user_id = ? AND is_read = FALSE
	`)
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("get unread count: %w", err)
	}
	return count, nil
}
