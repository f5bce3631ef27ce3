package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"socialfeed/internal/database"
	"socialfeed/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment. A post removed since it was looked up is
// reported as model.ErrPostNotFound.
func (r *commentRepository) Create(ctx context.Context, q sqlx.ExtContext, c *model.Comment) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	query := q.Rebind(`
		INSERT INTO comments (id, post_id, author_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err := q.ExecContext(ctx, query, c.ID, c.PostID, c.AuthorID, c.Content, c.CreatedAt); err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrPostNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) ListByPosts(ctx context.Context, postIDs []string) ([]model.FeedComment, error) {
	if len(postIDs) == 0 {
		return []model.FeedComment{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT c.id, c.post_id, c.author_id, c.content, c.created_at,
		       u.name AS author_name, u.username AS author_username, u.image AS author_image
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id IN (?)
		ORDER BY c.created_at ASC, c.id ASC
	`, postIDs)
	if err != nil {
		return nil, fmt.Errorf("build comment query: %w", err)
	}

	type commentRow struct {
		ID             string    `db:"id"`
		PostID         string    `db:"post_id"`
		AuthorID       string    `db:"author_id"`
		Content        string    `db:"content"`
		CreatedAt      time.Time `db:"created_at"`
		AuthorName     string    `db:"author_name"`
		AuthorUsername string    `db:"author_username"`
		AuthorImage    string    `db:"author_image"`
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]model.FeedComment, len(rows))
	for i, row := range rows {
		comments[i] = model.FeedComment{
			Comment: model.Comment{
				ID:        row.ID,
				PostID:    row.PostID,
				AuthorID:  row.AuthorID,
				Content:   row.Content,
				CreatedAt: row.CreatedAt,
			},
			Author: model.UserSummary{
				ID:       row.AuthorID,
				Name:     row.AuthorName,
				Username: row.AuthorUsername,
				Image:    row.AuthorImage,
			},
		}
	}
	return comments, nil
}
