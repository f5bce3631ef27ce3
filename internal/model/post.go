package model

import (
	"fmt"
	"time"
)

// Post represents a user's post.
type Post struct {
	ID        string    `db:"id" json:"id"`
	AuthorID  string    `db:"author_id" json:"author_id"`
	Content   string    `db:"content" json:"content"`
	Image     *string   `db:"image" json:"image,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FeedPost is a post enriched for display: author, comments, likers and counts.
type FeedPost struct {
	Post
	Author       UserSummary   `json:"author"`
	Comments     []FeedComment `json:"comments"`
	LikedBy      []string      `json:"liked_by"`
	CommentCount int           `json:"comment_count"`
	LikeCount    int           `json:"like_count"`
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// PostResult is returned by post writes. Skipped is set when there was no actor.
type PostResult struct {
	Skipped bool  `json:"skipped,omitempty"`
	Post    *Post `json:"post,omitempty"`
}

// DeleteResult is returned by deletes.
type DeleteResult struct {
	Skipped bool `json:"skipped,omitempty"`
	Deleted bool `json:"deleted"`
}

// Post errors
var (
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)
	ErrNotPostOwner = fmt.Errorf("not the author of this post: %w", ErrForbidden)
	ErrEmptyPost    = fmt.Errorf("post needs content or an image: %w", ErrInvalidInput)
)
