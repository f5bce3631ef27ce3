package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"socialfeed/internal/database"
	"socialfeed/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	query := r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = ? AND post_id = ?)`)
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, postID); err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}
	return exists, nil
}

// Create inserts the like. The primary key on (user_id, post_id) rejects a
// second row; that case is reported as model.ErrLikeConflict. A post removed
// since it was looked up is reported as model.ErrPostNotFound.
func (r *likeRepository) Create(ctx context.Context, q sqlx.ExtContext, l *model.Like) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	query := q.Rebind(`INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?)`)
	if _, err := q.ExecContext(ctx, query, l.UserID, l.PostID, l.CreatedAt); err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrLikeConflict
		}
		if database.IsForeignKeyViolation(err) {
			return model.ErrPostNotFound
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, q sqlx.ExtContext, userID, postID string) (bool, error) {
	query := q.Rebind(`DELETE FROM likes WHERE user_id = ? AND post_id = ?`)
	result, err := q.ExecContext(ctx, query, userID, postID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *likeRepository) ListByPosts(ctx context.Context, postIDs []string) ([]model.Like, error) {
	if len(postIDs) == 0 {
		return []model.Like{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT user_id, post_id, created_at
		FROM likes
		WHERE post_id IN (?)
		ORDER BY created_at ASC
	`, postIDs)
	if err != nil {
		return nil, fmt.Errorf("build like query: %w", err)
	}

	var likes []model.Like
	if err := r.db.SelectContext(ctx, &likes, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return likes, nil
}
