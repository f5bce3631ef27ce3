package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"socialfeed/internal/logger"
	"socialfeed/internal/model"
	"socialfeed/internal/queue"
	"socialfeed/internal/repository"
)

// InteractionService creates posts and comments and deletes posts.
type InteractionService struct {
	db            *sqlx.DB
	posts         repository.PostRepository
	comments      repository.CommentRepository
	notifications repository.NotificationRepository
	activity      *ActivityEmitter
}

func NewInteractionService(db *sqlx.DB, repos *repository.Repositories, activity *ActivityEmitter) *InteractionService {
	return &InteractionService{
		db:            db,
		posts:         repos.Posts,
		comments:      repos.Comments,
		notifications: repos.Notifications,
		activity:      activity,
	}
}

// CreatePost stores a post. It needs non-blank content or an image.
func (s *InteractionService) CreatePost(ctx context.Context, actorID string, req model.CreatePostRequest) (*model.PostResult, error) {
	if actorID == "" {
		return &model.PostResult{Skipped: true}, nil
	}

	hasImage := strings.TrimSpace(req.ImageURL) != ""
	if strings.TrimSpace(req.Content) == "" && !hasImage {
		return nil, model.ErrEmptyPost
	}

	// Content is stored as written; a blank image URL means no image.
	post := &model.Post{
		ID:       uuid.NewString(),
		AuthorID: actorID,
		Content:  req.Content,
	}
	if hasImage {
		imageURL := req.ImageURL
		post.Image = &imageURL
	}

	if err := s.posts.Create(ctx, s.db, post); err != nil {
		return nil, classify("create post", err)
	}

	log := logger.Component("interaction")
	log.Info().Str(logger.FieldActorID, actorID).Str("post_id", post.ID).Msg("post created")

	s.activity.Emit(queue.NewPostCreatedEvent(actorID, post.ID))
	return &model.PostResult{Post: post}, nil
}

// CreateComment stores a comment and, unless the actor wrote the post,
// notifies the post's author. The comment is returned only once both
// writes have committed.
func (s *InteractionService) CreateComment(ctx context.Context, actorID, postID, content string) (*model.CommentResult, error) {
	if actorID == "" {
		return &model.CommentResult{Skipped: true}, nil
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.ErrEmptyComment
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, classify("get post", err)
	}

	comment, err := createWithConditionalNotification(ctx, s.db, s.notifications, "create comment",
		func(ctx context.Context, tx *sqlx.Tx) (*model.Comment, error) {
			c := &model.Comment{
				ID:       uuid.NewString(),
				PostID:   postID,
				AuthorID: actorID,
				Content:  content,
			}
			if err := s.comments.Create(ctx, tx, c); err != nil {
				return nil, err
			}
			return c, nil
		},
		func(*model.Comment) bool { return post.AuthorID != actorID },
		func(c *model.Comment) *model.Notification {
			return &model.Notification{
				Type:      model.NotificationTypeComment,
				UserID:    post.AuthorID,
				ActorID:   actorID,
				PostID:    &c.PostID,
				CommentID: &c.ID,
			}
		},
	)
	if err != nil {
		return nil, err
	}

	s.activity.Emit(queue.NewCommentedEvent(actorID, postID, comment.ID))
	return &model.CommentResult{Comment: comment}, nil
}

// DeletePost removes a post owned by the actor. Comments, likes and
// notifications that reference it go with it through the schema's cascades.
func (s *InteractionService) DeletePost(ctx context.Context, actorID, postID string) (*model.DeleteResult, error) {
	if actorID == "" {
		return &model.DeleteResult{Skipped: true}, nil
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, classify("get post", err)
	}
	if post.AuthorID != actorID {
		return nil, model.ErrNotPostOwner
	}

	deleted, err := s.posts.Delete(ctx, s.db, postID)
	if err != nil {
		return nil, classify("delete post", err)
	}
	if !deleted {
		// Removed by a concurrent request between the lookup and the delete.
		return nil, model.ErrPostNotFound
	}

	log := logger.Component("interaction")
	log.Info().Str(logger.FieldActorID, actorID).Str("post_id", postID).Msg("post deleted")

	s.activity.Emit(queue.NewPostDeletedEvent(actorID, postID))
	return &model.DeleteResult{Deleted: true}, nil
}
