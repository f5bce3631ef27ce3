package model

import (
	"fmt"
	"time"
)

type Follow struct {
	FollowerID  string    `db:"follower_id" json:"follower_id"`
	FollowingID string    `db:"following_id" json:"following_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// FollowResult reports the state after a follow toggle.
type FollowResult struct {
	Skipped   bool `json:"skipped,omitempty"`
	Following bool `json:"following"`
}

var (
	ErrCannotFollowSelf = fmt.Errorf("cannot follow yourself: %w", ErrInvalidOperation)
	ErrFollowConflict   = fmt.Errorf("follow changed concurrently: %w", ErrConflict)
)
