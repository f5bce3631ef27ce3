package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"socialfeed/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	query := r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = ? AND following_id = ?)`)
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, followerID, followingID); err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// Create inserts the follow edge. A concurrent insert of the same pair makes
// ON CONFLICT swallow the row, which is reported as model.ErrFollowConflict.
func (r *followRepository) Create(ctx context.Context, q sqlx.ExtContext, f *model.Follow) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}

	query := q.Rebind(`
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`)
	result, err := q.ExecContext(ctx, query, f.FollowerID, f.FollowingID, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrFollowConflict
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, q sqlx.ExtContext, followerID, followingID string) (bool, error) {
	query := q.Rebind(`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`)
	result, err := q.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
