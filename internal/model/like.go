package model

import (
	"fmt"
	"time"
)

// Like is the (user, post) relation. Presence means "liked".
type Like struct {
	UserID    string    `db:"user_id" json:"user_id"`
	PostID    string    `db:"post_id" json:"post_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LikeResult reports the state after a like toggle.
type LikeResult struct {
	Skipped bool `json:"skipped,omitempty"`
	Liked   bool `json:"liked"`
}

var (
	ErrLikeConflict = fmt.Errorf("like changed concurrently: %w", ErrConflict)
)
