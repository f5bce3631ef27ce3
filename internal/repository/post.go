package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"socialfeed/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, q sqlx.ExtContext, p *model.Post) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	query := q.Rebind(`
		INSERT INTO posts (id, author_id, content, image, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err := q.ExecContext(ctx, query, p.ID, p.AuthorID, p.Content, p.Image, p.CreatedAt); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	query := r.db.Rebind(`SELECT id, author_id, content, image, created_at FROM posts WHERE id = ?`)

	var p model.Post
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &p, nil
}

// Delete removes the post. Comments, likes and notifications go with it
// through ON DELETE CASCADE.
func (r *postRepository) Delete(ctx context.Context, q sqlx.ExtContext, id string) (bool, error) {
	result, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM posts WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// feedPostRow flattens a post and its author for scanning.
type feedPostRow struct {
	ID             string    `db:"id"`
	AuthorID       string    `db:"author_id"`
	Content        string    `db:"content"`
	Image          *string   `db:"image"`
	CreatedAt      time.Time `db:"created_at"`
	AuthorName     string    `db:"author_name"`
	AuthorUsername string    `db:"author_username"`
	AuthorImage    string    `db:"author_image"`
}

const feedPostSelect = `
	SELECT p.id, p.author_id, p.content, p.image, p.created_at,
	       u.name AS author_name, u.username AS author_username, u.image AS author_image
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

func (r *postRepository) listFeedPosts(ctx context.Context, where string, limit int, args ...any) ([]model.FeedPost, error) {
	query := feedPostSelect + where + ` ORDER BY p.created_at DESC, p.id DESC LIMIT ?`
	args = append(args, limit)

	var rows []feedPostRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]model.FeedPost, len(rows))
	for i, row := range rows {
		posts[i] = model.FeedPost{
			Post: model.Post{
				ID:        row.ID,
				AuthorID:  row.AuthorID,
				Content:   row.Content,
				Image:     row.Image,
				CreatedAt: row.CreatedAt,
			},
			Author: model.UserSummary{
				ID:       row.AuthorID,
				Name:     row.AuthorName,
				Username: row.AuthorUsername,
				Image:    row.AuthorImage,
			},
			Comments: []model.FeedComment{},
			LikedBy:  []string{},
		}
	}
	return posts, nil
}

func (r *postRepository) ListRecent(ctx context.Context, limit int) ([]model.FeedPost, error) {
	return r.listFeedPosts(ctx, "", limit)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]model.FeedPost, error) {
	return r.listFeedPosts(ctx, ` WHERE p.author_id = ?`, limit, authorID)
}

func (r *postRepository) ListLikedBy(ctx context.Context, userID string, limit int) ([]model.FeedPost, error) {
	return r.listFeedPosts(ctx,
		` WHERE EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = ?)`,
		limit, userID)
}
