package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"socialfeed/internal/logger"
	"socialfeed/internal/model"
	"socialfeed/internal/queue"
	"socialfeed/internal/repository"
)

// ToggleService flips the like and follow relations. Creating a relation
// notifies its target in the same transaction; removing one never does.
type ToggleService struct {
	db            *sqlx.DB
	users         repository.UserRepository
	posts         repository.PostRepository
	likes         repository.LikeRepository
	follows       repository.FollowRepository
	notifications repository.NotificationRepository
	activity      *ActivityEmitter
}

func NewToggleService(db *sqlx.DB, repos *repository.Repositories, activity *ActivityEmitter) *ToggleService {
	return &ToggleService{
		db:            db,
		users:         repos.Users,
		posts:         repos.Posts,
		likes:         repos.Likes,
		follows:       repos.Follows,
		notifications: repos.Notifications,
		activity:      activity,
	}
}

// ToggleLike likes the post if the actor has not liked it yet, otherwise unlikes it.
// A concurrent toggle that loses the race on the like's primary key returns
// model.ErrLikeConflict and leaves nothing behind.
func (s *ToggleService) ToggleLike(ctx context.Context, actorID, postID string) (*model.LikeResult, error) {
	if actorID == "" {
		return &model.LikeResult{Skipped: true}, nil
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, classify("get post", err)
	}

	liked, err := s.likes.Exists(ctx, actorID, postID)
	if err != nil {
		return nil, model.StoreFailure("check like", err)
	}

	if liked {
		if _, err := s.likes.Delete(ctx, s.db, actorID, postID); err != nil {
			return nil, model.StoreFailure("delete like", err)
		}
		s.activity.Emit(queue.NewLikeToggledEvent(actorID, postID, false))
		return &model.LikeResult{Liked: false}, nil
	}

	_, err = createWithConditionalNotification(ctx, s.db, s.notifications, "like post",
		func(ctx context.Context, tx *sqlx.Tx) (*model.Like, error) {
			like := &model.Like{UserID: actorID, PostID: postID}
			if err := s.likes.Create(ctx, tx, like); err != nil {
				return nil, err
			}
			return like, nil
		},
		func(*model.Like) bool { return post.AuthorID != actorID },
		func(like *model.Like) *model.Notification {
			return &model.Notification{
				Type:    model.NotificationTypeLike,
				UserID:  post.AuthorID,
				ActorID: actorID,
				PostID:  &like.PostID,
			}
		},
	)
	if err != nil {
		return nil, err
	}

	log := logger.Component("toggle")
	log.Debug().Str(logger.FieldActorID, actorID).Str("post_id", postID).Msg("post liked")

	s.activity.Emit(queue.NewLikeToggledEvent(actorID, postID, true))
	return &model.LikeResult{Liked: true}, nil
}

// ToggleFollow follows the target if the actor does not follow them yet,
// otherwise unfollows. Following oneself is rejected before any lookup.
func (s *ToggleService) ToggleFollow(ctx context.Context, actorID, targetID string) (*model.FollowResult, error) {
	if actorID == "" {
		return &model.FollowResult{Skipped: true}, nil
	}
	if actorID == targetID {
		return nil, model.ErrCannotFollowSelf
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, classify("get follow target", err)
	}

	following, err := s.follows.Exists(ctx, actorID, targetID)
	if err != nil {
		return nil, model.StoreFailure("check follow", err)
	}

	if following {
		if _, err := s.follows.Delete(ctx, s.db, actorID, targetID); err != nil {
			return nil, model.StoreFailure("delete follow", err)
		}
		s.activity.Emit(queue.NewFollowToggledEvent(actorID, targetID, false))
		return &model.FollowResult{Following: false}, nil
	}

	_, err = createWithConditionalNotification(ctx, s.db, s.notifications, "follow user",
		func(ctx context.Context, tx *sqlx.Tx) (*model.Follow, error) {
			follow := &model.Follow{FollowerID: actorID, FollowingID: targetID}
			if err := s.follows.Create(ctx, tx, follow); err != nil {
				return nil, err
			}
			return follow, nil
		},
		func(*model.Follow) bool { return true },
		func(f *model.Follow) *model.Notification {
			return &model.Notification{
				Type:    model.NotificationTypeFollow,
				UserID:  f.FollowingID,
				ActorID: f.FollowerID,
			}
		},
	)
	if err != nil {
		return nil, err
	}

	s.activity.Emit(queue.NewFollowToggledEvent(actorID, targetID, true))
	return &model.FollowResult{Following: true}, nil
}
