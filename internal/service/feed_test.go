package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialfeed/internal/model"
)

func TestGetPosts_EnrichedNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")
	f.addUser(t, "u2")
	older := f.addPost(t, "u1", "older")
	time.Sleep(5 * time.Millisecond)
	newer := f.addPost(t, "u2", "newer")

	_, err := f.toggle.ToggleLike(ctx, "u2", older.ID)
	require.NoError(t, err)
	_, err = f.interaction.CreateComment(ctx, "u2", older.ID, "one")
	require.NoError(t, err)
	_, err = f.interaction.CreateComment(ctx, "u1", older.ID, "two")
	require.NoError(t, err)

	posts, err := f.feed.GetPosts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, "u2", posts[0].Author.Username)
	assert.Empty(t, posts[0].Comments)
	assert.NotNil(t, posts[0].LikedBy)

	p := posts[1]
	assert.Equal(t, older.ID, p.ID)
	assert.Equal(t, []string{"u2"}, p.LikedBy)
	assert.Equal(t, 1, p.LikeCount)
	require.Len(t, p.Comments, 2)
	assert.Equal(t, "one", p.Comments[0].Content)
	assert.Equal(t, "u2", p.Comments[0].Author.Username)
	assert.Equal(t, "two", p.Comments[1].Content)
	assert.Equal(t, 2, p.CommentCount)
}

func TestGetPosts_Empty(t *testing.T) {
	f := newFixture(t)

	posts, err := f.feed.GetPosts(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestGetPosts_HomeCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")
	f.addPost(t, "u1", "from db")

	t.Run("hit skips the database", func(t *testing.T) {
		home := &fakeHomeCache{found: true, cached: []model.FeedPost{{Post: model.Post{ID: "cached"}}}}
		posts, err := f.withHomeCache(home).GetPosts(ctx, 5)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "cached", posts[0].ID)
		assert.Zero(t, home.setCalls)
	})

	t.Run("miss stores under the looked-up generation", func(t *testing.T) {
		home := &fakeHomeCache{version: 7}
		posts, err := f.withHomeCache(home).GetPosts(ctx, 5)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "from db", posts[0].Content)
		assert.Equal(t, 1, home.setCalls)
		assert.EqualValues(t, 7, home.setVersion)
		assert.Equal(t, 5, home.setLimit)
	})

	t.Run("read error falls back without storing", func(t *testing.T) {
		home := &fakeHomeCache{getErr: errors.New("redis down")}
		posts, err := f.withHomeCache(home).GetPosts(ctx, 5)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Zero(t, home.setCalls)
	})
}

func TestGetPosts_InvalidationDuringLoad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")
	f.addPost(t, "u1", "first")

	home := newMemHomeCache()
	held := newHeldListing(f.repos.Posts)
	feed := f.feedWith(held, home)

	// The first reader misses generation 0 and holds its database read.
	early := make(chan []model.FeedPost, 1)
	go func() {
		posts, err := feed.GetPosts(ctx, 5)
		assert.NoError(t, err)
		early <- posts
	}()
	<-held.loaded

	f.addPost(t, "u1", "second")
	require.NoError(t, home.Invalidate(ctx))

	// A reader of generation 1 must load on its own instead of waiting for
	// the listing read before the invalidation.
	late := make(chan []model.FeedPost, 1)
	go func() {
		posts, err := feed.GetPosts(ctx, 5)
		assert.NoError(t, err)
		late <- posts
	}()

	select {
	case posts := <-late:
		assert.Len(t, posts, 2)
	case <-time.After(2 * time.Second):
		close(held.release)
		t.Fatal("generation 1 reader joined the generation 0 load")
	}

	close(held.release)
	assert.Len(t, <-early, 1)

	cached, version, found, err := home.Get(ctx, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
	require.True(t, found)
	assert.Len(t, cached, 2, "current generation holds the listing after the mutation")
}

func TestGetPosts_SharedLoadSurvivesCancelledLeader(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1")
	f.addPost(t, "u1", "kept")

	held := newHeldListing(f.repos.Posts)
	feed := f.feedWith(held, nil)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderDone := make(chan struct{})
	go func() {
		defer close(leaderDone)
		_, _ = feed.GetPosts(leaderCtx, 5)
	}()
	<-held.loaded

	type result struct {
		posts []model.FeedPost
		err   error
	}
	follower := make(chan result, 1)
	go func() {
		posts, err := feed.GetPosts(context.Background(), 5)
		follower <- result{posts, err}
	}()

	// Give the follower time to join the in-flight load.
	time.Sleep(20 * time.Millisecond)
	cancel()
	close(held.release)

	res := <-follower
	<-leaderDone
	require.NoError(t, res.err)
	require.Len(t, res.posts, 1)
	assert.Equal(t, "kept", res.posts[0].Content)
}
