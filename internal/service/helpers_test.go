package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"socialfeed/internal/cache"
	"socialfeed/internal/database"
	"socialfeed/internal/model"
	"socialfeed/internal/queue"
	"socialfeed/internal/repository"
)

// =============================================================================
// Fakes
// =============================================================================

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, stream string, event queue.ActivityEvent) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	if p.err != nil {
		return "", p.err
	}
	return "0-1", nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// failingNotifications fails every notification insert.
type failingNotifications struct {
	repository.NotificationRepository
}

func (failingNotifications) Create(ctx context.Context, q sqlx.ExtContext, n *model.Notification) error {
	return errors.New("notification store down")
}

type fakeHomeCache struct {
	cached  []model.FeedPost
	found   bool
	getErr  error
	version int64

	setCalls   int
	setVersion int64
	setLimit   int
}

func (c *fakeHomeCache) Get(ctx context.Context, limit int) ([]model.FeedPost, int64, bool, error) {
	if c.getErr != nil {
		return nil, 0, false, c.getErr
	}
	return c.cached, c.version, c.found, nil
}

func (c *fakeHomeCache) Set(ctx context.Context, version int64, limit int, posts []model.FeedPost) error {
	c.setCalls++
	c.setVersion = version
	c.setLimit = limit
	return nil
}

func (c *fakeHomeCache) Invalidate(ctx context.Context) error { return nil }

// memHomeCache keeps listings per generation, like the Redis cache.
type memHomeCache struct {
	mu      sync.Mutex
	version int64
	entries map[string][]model.FeedPost
}

func newMemHomeCache() *memHomeCache {
	return &memHomeCache{entries: map[string][]model.FeedPost{}}
}

func (c *memHomeCache) Get(ctx context.Context, limit int) ([]model.FeedPost, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	posts, ok := c.entries[fmt.Sprintf("%d:%d", c.version, limit)]
	return posts, c.version, ok, nil
}

func (c *memHomeCache) Set(ctx context.Context, version int64, limit int, posts []model.FeedPost) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fmt.Sprintf("%d:%d", version, limit)] = posts
	return nil
}

func (c *memHomeCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	return nil
}

// heldListing blocks the first ListRecent after it has read from the store
// until release is closed. Later calls pass straight through.
type heldListing struct {
	repository.PostRepository
	calls   atomic.Int32
	loaded  chan struct{}
	release chan struct{}
}

func newHeldListing(posts repository.PostRepository) *heldListing {
	return &heldListing{
		PostRepository: posts,
		loaded:         make(chan struct{}),
		release:        make(chan struct{}),
	}
}

func (h *heldListing) ListRecent(ctx context.Context, limit int) ([]model.FeedPost, error) {
	posts, err := h.PostRepository.ListRecent(ctx, limit)
	if h.calls.Add(1) == 1 {
		close(h.loaded)
		<-h.release
	}
	return posts, err
}

// =============================================================================
// Fixture
// =============================================================================

type fixture struct {
	db        *sqlx.DB
	repos     *repository.Repositories
	publisher *recordingPublisher
	activity  *ActivityEmitter

	identity      *IdentityService
	toggle        *ToggleService
	interaction   *InteractionService
	notifications *NotificationService
	feed          *FeedService
	profile       *ProfileService
}

type fixtureOption func(*repository.Repositories)

func withFailingNotifications() fixtureOption {
	return func(r *repository.Repositories) {
		r.Notifications = failingNotifications{r.Notifications}
	}
}

// withDeletedPostLookup makes every post lookup succeed as if the post had
// been removed right after it was read.
func withDeletedPostLookup(authorID string) fixtureOption {
	return func(r *repository.Repositories) {
		r.Posts = deletedPostLookup{PostRepository: r.Posts, authorID: authorID}
	}
}

type deletedPostLookup struct {
	repository.PostRepository
	authorID string
}

func (d deletedPostLookup) GetByID(ctx context.Context, id string) (*model.Post, error) {
	return &model.Post{ID: id, AuthorID: d.authorID}, nil
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	db, err := database.OpenSQLiteMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := repository.NewRepositories(db)
	for _, opt := range opts {
		opt(repos)
	}

	publisher := &recordingPublisher{}
	activity := NewActivityEmitter(publisher, 0)
	t.Cleanup(activity.Wait)

	return &fixture{
		db:            db,
		repos:         repos,
		publisher:     publisher,
		activity:      activity,
		identity:      NewIdentityService(repos.Users),
		toggle:        NewToggleService(db, repos, activity),
		interaction:   NewInteractionService(db, repos, activity),
		notifications: NewNotificationService(repos.Notifications),
		feed:          NewFeedService(repos, nil),
		profile:       NewProfileService(repos, activity),
	}
}

func (f *fixture) withHomeCache(home cache.HomeCache) *FeedService {
	return NewFeedService(f.repos, home)
}

// feedWith builds a FeedService whose post listings go through posts.
func (f *fixture) feedWith(posts repository.PostRepository, home cache.HomeCache) *FeedService {
	repos := *f.repos
	repos.Posts = posts
	return NewFeedService(&repos, home)
}

func (f *fixture) addUser(t *testing.T, id string) *model.User {
	t.Helper()
	u := &model.User{ID: id, ExternalAuthID: "ext-" + id, Name: "User " + id, Username: id}
	created, err := f.repos.Users.CreateIfAbsent(context.Background(), u)
	require.NoError(t, err)
	require.True(t, created)
	return u
}

func (f *fixture) addPost(t *testing.T, authorID, content string) *model.Post {
	t.Helper()
	res, err := f.interaction.CreatePost(context.Background(), authorID, model.CreatePostRequest{Content: content})
	require.NoError(t, err)
	require.NotNil(t, res.Post)
	return res.Post
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func (f *fixture) notificationsOf(t *testing.T, userID string) []model.Notification {
	t.Helper()
	list, err := f.notifications.ListNotifications(context.Background(), userID, 0)
	require.NoError(t, err)
	return list
}

