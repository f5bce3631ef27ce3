package model

import (
	"time"
)

// Notification types
const (
	NotificationTypeFollow  = "FOLLOW"
	NotificationTypeLike    = "LIKE"
	NotificationTypeComment = "COMMENT"
)

// Notification represents a single notification record in the database.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`         // Recipient
	ActorID   string    `db:"actor_id" json:"actor_id"` // Who triggered it
	Type      string    `db:"type" json:"type"`
	PostID    *string   `db:"post_id" json:"post_id,omitempty"`
	CommentID *string   `db:"comment_id" json:"comment_id,omitempty"`
	IsRead    bool      `db:"is_read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined fields for display
	Actor   *UserSummary    `json:"actor,omitempty"`
	Post    *PostPreview    `json:"post,omitempty"`
	Comment *CommentPreview `json:"comment,omitempty"`
}

// PostPreview is the slice of a post shown next to a notification.
type PostPreview struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Image   *string `json:"image,omitempty"`
}

// CommentPreview is the slice of a comment shown next to a notification.
type CommentPreview struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MarkReadRequest is the request body for marking notifications as read.
type MarkReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

// MarkReadResult reports how many notifications flipped to read.
type MarkReadResult struct {
	Skipped bool  `json:"skipped,omitempty"`
	Updated int64 `json:"updated"`
}
