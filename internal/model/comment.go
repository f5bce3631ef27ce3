package model

import (
	"fmt"
	"time"
)

// Comment represents a comment on a post.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	PostID    string    `db:"post_id" json:"post_id"`
	AuthorID  string    `db:"author_id" json:"author_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FeedComment is a comment with its author's summary.
type FeedComment struct {
	Comment
	Author UserSummary `json:"author"`
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CommentResult is returned by comment creation. Skipped is set when there was no actor.
type CommentResult struct {
	Skipped bool     `json:"skipped,omitempty"`
	Comment *Comment `json:"comment,omitempty"`
}

// Comment errors
var (
	ErrEmptyComment = fmt.Errorf("comment content is required: %w", ErrInvalidInput)
)
