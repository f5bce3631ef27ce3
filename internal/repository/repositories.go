package repository

import "github.com/jmoiron/sqlx"

// Repositories bundles every repository backed by one database handle.
type Repositories struct {
	Users         UserRepository
	Posts         PostRepository
	Comments      CommentRepository
	Likes         LikeRepository
	Follows       FollowRepository
	Notifications NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Posts:         NewPostRepository(db),
		Comments:      NewCommentRepository(db),
		Likes:         NewLikeRepository(db),
		Follows:       NewFollowRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
