package service

import (
	"context"
	"strings"

	"socialfeed/internal/model"
	"socialfeed/internal/queue"
	"socialfeed/internal/repository"
)

// MaxSuggestedUsers caps the follow suggestions list.
const MaxSuggestedUsers = 3

// ProfileService serves profile pages, profile edits and follow suggestions.
type ProfileService struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	follows  repository.FollowRepository
	enricher postEnricher
	activity *ActivityEmitter
}

func NewProfileService(repos *repository.Repositories, activity *ActivityEmitter) *ProfileService {
	return &ProfileService{
		users:    repos.Users,
		posts:    repos.Posts,
		follows:  repos.Follows,
		enricher: postEnricher{comments: repos.Comments, likes: repos.Likes},
		activity: activity,
	}
}

// GetProfileByUsername returns the user with follower, following and post counts.
func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string) (*model.Profile, error) {
	profile, err := s.users.GetProfileByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, classify("get profile", err)
	}
	return profile, nil
}

// GetUserPosts returns the posts written by userID, newest first.
func (s *ProfileService) GetUserPosts(ctx context.Context, userID string, limit int) ([]model.FeedPost, error) {
	posts, err := s.posts.ListByAuthor(ctx, userID, clampLimit(limit, DefaultFeedLimit, MaxFeedLimit))
	if err != nil {
		return nil, model.StoreFailure("list user posts", err)
	}
	return s.finish(ctx, posts)
}

// GetUserLikedPosts returns the posts userID liked, newest post first.
func (s *ProfileService) GetUserLikedPosts(ctx context.Context, userID string, limit int) ([]model.FeedPost, error) {
	posts, err := s.posts.ListLikedBy(ctx, userID, clampLimit(limit, DefaultFeedLimit, MaxFeedLimit))
	if err != nil {
		return nil, model.StoreFailure("list liked posts", err)
	}
	return s.finish(ctx, posts)
}

func (s *ProfileService) finish(ctx context.Context, posts []model.FeedPost) ([]model.FeedPost, error) {
	if posts == nil {
		return []model.FeedPost{}, nil
	}
	if err := s.enricher.enrich(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateProfile replaces the actor's editable profile fields.
func (s *ProfileService) UpdateProfile(ctx context.Context, actorID string, req model.UpdateProfileRequest) (*model.ProfileResult, error) {
	if actorID == "" {
		return &model.ProfileResult{Skipped: true}, nil
	}

	req = model.UpdateProfileRequest{
		Name:     strings.TrimSpace(req.Name),
		Bio:      strings.TrimSpace(req.Bio),
		Location: strings.TrimSpace(req.Location),
		Website:  strings.TrimSpace(req.Website),
	}
	if req.Name == "" {
		return nil, model.ErrEmptyName
	}

	user, err := s.users.UpdateProfile(ctx, actorID, req)
	if err != nil {
		return nil, classify("update profile", err)
	}

	s.activity.Emit(queue.NewProfileUpdatedEvent(actorID))
	return &model.ProfileResult{User: user}, nil
}

// IsFollowing reports whether the actor follows targetID. Anonymous actors follow nobody.
func (s *ProfileService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == "" || actorID == targetID {
		return false, nil
	}

	following, err := s.follows.Exists(ctx, actorID, targetID)
	if err != nil {
		return false, model.StoreFailure("check follow", err)
	}
	return following, nil
}

// GetSuggestedUsers returns a few users the actor does not follow yet.
func (s *ProfileService) GetSuggestedUsers(ctx context.Context, actorID string) ([]model.SuggestedUser, error) {
	if actorID == "" {
		return []model.SuggestedUser{}, nil
	}

	users, err := s.users.GetSuggestions(ctx, actorID, MaxSuggestedUsers)
	if err != nil {
		return nil, model.StoreFailure("get suggestions", err)
	}
	if users == nil {
		users = []model.SuggestedUser{}
	}
	return users, nil
}
