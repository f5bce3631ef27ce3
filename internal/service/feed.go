package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"socialfeed/internal/cache"
	"socialfeed/internal/logger"
	"socialfeed/internal/model"
	"socialfeed/internal/repository"
)

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

// FeedService serves the home listing: every post, newest first.
type FeedService struct {
	posts    repository.PostRepository
	enricher postEnricher
	home     cache.HomeCache // nil when Redis is not configured

	// loads collapses concurrent database loads of the same generation and limit.
	loads singleflight.Group
}

func NewFeedService(repos *repository.Repositories, home cache.HomeCache) *FeedService {
	return &FeedService{
		posts:    repos.Posts,
		enricher: postEnricher{comments: repos.Comments, likes: repos.Likes},
		home:     home,
	}
}

// GetPosts returns the home listing, read through the home cache when one is configured.
// Cache errors only cost a database read.
func (s *FeedService) GetPosts(ctx context.Context, limit int) ([]model.FeedPost, error) {
	log := logger.Component("feed")
	limit = clampLimit(limit, DefaultFeedLimit, MaxFeedLimit)

	// -1 keys loads of callers that cannot store the result.
	version := int64(-1)
	canStore := false
	if s.home != nil {
		cached, v, found, err := s.home.Get(ctx, limit)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("home cache read failed")
		case found:
			return cached, nil
		default:
			version = v
			canStore = true
		}
	}

	// Callers that looked up different generations never share a load, so a
	// listing read before an invalidation is not stored under the newer one.
	// The shared load outlives a cancelled leader.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.loads.Do(fmt.Sprintf("%d:%d", version, limit), func() (interface{}, error) {
		return s.load(loadCtx, limit)
	})
	if err != nil {
		return nil, err
	}
	posts := v.([]model.FeedPost)

	if canStore {
		if err := s.home.Set(ctx, version, limit, posts); err != nil {
			log.Warn().Err(err).Msg("home cache write failed")
		}
	}
	return posts, nil
}

func (s *FeedService) load(ctx context.Context, limit int) ([]model.FeedPost, error) {
	posts, err := s.posts.ListRecent(ctx, limit)
	if err != nil {
		return nil, model.StoreFailure("list posts", err)
	}
	if posts == nil {
		posts = []model.FeedPost{}
	}
	if err := s.enricher.enrich(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// postEnricher attaches comments, likers and counts to listed posts.
type postEnricher struct {
	comments repository.CommentRepository
	likes    repository.LikeRepository
}

func (e postEnricher) enrich(ctx context.Context, posts []model.FeedPost) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	index := make(map[string]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = i
		posts[i].Comments = []model.FeedComment{}
		posts[i].LikedBy = []string{}
	}

	comments, err := e.comments.ListByPosts(ctx, ids)
	if err != nil {
		return model.StoreFailure("list comments", err)
	}
	for _, c := range comments {
		if i, ok := index[c.PostID]; ok {
			posts[i].Comments = append(posts[i].Comments, c)
		}
	}

	likes, err := e.likes.ListByPosts(ctx, ids)
	if err != nil {
		return model.StoreFailure("list likes", err)
	}
	for _, l := range likes {
		if i, ok := index[l.PostID]; ok {
			posts[i].LikedBy = append(posts[i].LikedBy, l.UserID)
		}
	}

	for i := range posts {
		posts[i].CommentCount = len(posts[i].Comments)
		posts[i].LikeCount = len(posts[i].LikedBy)
	}
	return nil
}
