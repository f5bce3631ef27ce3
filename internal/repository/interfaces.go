package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"socialfeed/internal/model"
)

// Write methods take a sqlx.ExtContext so the same call works on the pool
// (single statement) or inside a *sqlx.Tx (atomic unit).

type UserRepository interface {
	// CreateIfAbsent inserts the user unless any unique key already exists.
	// Returns false when nothing was inserted.
	CreateIfAbsent(ctx context.Context, user *model.User) (bool, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error)
	GetProfileByUsername(ctx context.Context, username string) (*model.Profile, error)
	// GetSuggestions returns users that are neither userID nor followed by userID.
	GetSuggestions(ctx context.Context, userID string, limit int) ([]model.SuggestedUser, error)
}

type PostRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Delete(ctx context.Context, q sqlx.ExtContext, id string) (bool, error)
	// ListRecent, ListByAuthor and ListLikedBy return posts newest first with
	// the author filled in. Comments and likes are attached by the caller.
	ListRecent(ctx context.Context, limit int) ([]model.FeedPost, error)
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]model.FeedPost, error)
	ListLikedBy(ctx context.Context, userID string, limit int) ([]model.FeedPost, error)
}

type CommentRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, comment *model.Comment) error
	// ListByPosts returns comments of the given posts, oldest first.
	ListByPosts(ctx context.Context, postIDs []string) ([]model.FeedComment, error)
}

type LikeRepository interface {
	Exists(ctx context.Context, userID, postID string) (bool, error)
	// Create returns model.ErrLikeConflict when the pair already exists.
	Create(ctx context.Context, q sqlx.ExtContext, like *model.Like) error
	Delete(ctx context.Context, q sqlx.ExtContext, userID, postID string) (bool, error)
	ListByPosts(ctx context.Context, postIDs []string) ([]model.Like, error)
}

type FollowRepository interface {
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	// Create returns model.ErrFollowConflict when the pair already exists.
	Create(ctx context.Context, q sqlx.ExtContext, follow *model.Follow) error
	Delete(ctx context.Context, q sqlx.ExtContext, followerID, followingID string) (bool, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, n *model.Notification) error
	// ListForUser returns the recipient's notifications newest first with
	// actor, post and comment projections.
	ListForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID string, ids []string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}
