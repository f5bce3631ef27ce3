package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialfeed/internal/auth"
	"socialfeed/internal/config"
	"socialfeed/internal/database"
	"socialfeed/internal/model"
)

const testSecret = "router-test-secret"

type testClient struct {
	t      *testing.T
	router stdhttp.Handler
	tokens *auth.TokenManager
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	db, err := database.OpenSQLiteMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		DBDriver:       config.DriverSQLite,
		JWTSecret:      testSecret,
		TokenTTL:       time.Hour,
		PublishTimeout: time.Second,
	}
	app := NewApp(cfg, db, nil)
	t.Cleanup(app.Activity.Wait)
	require.Nil(t, app.Workers)

	return &testClient{t: t, router: app.Router, tokens: auth.NewTokenManager(testSecret, time.Hour)}
}

func (c *testClient) token(username string) string {
	c.t.Helper()
	tok, err := c.tokens.Issue(model.Principal{ExternalID: "auth|" + username, Username: username, DisplayName: username})
	require.NoError(c.t, err)
	return tok
}

// do sends a request as username ("" for anonymous) and decodes the JSON body into out.
func (c *testClient) do(method, path, username string, body any, out any) int {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if username != "" {
		req.Header.Set("Authorization", "Bearer "+c.token(username))
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (c *testClient) me(username string) model.User {
	c.t.Helper()
	var u model.User
	require.Equal(c.t, stdhttp.StatusOK, c.do(stdhttp.MethodGet, "/me", username, nil, &u))
	return u
}

func TestRouter_Health(t *testing.T) {
	c := newTestClient(t)
	var body map[string]string
	assert.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_LikeCommentNotifyFlow(t *testing.T) {
	c := newTestClient(t)
	alice := c.me("alice")
	c.me("bob")

	var post model.Post
	require.Equal(t, stdhttp.StatusCreated,
		c.do(stdhttp.MethodPost, "/posts", "alice", model.CreatePostRequest{Content: "first post"}, &post))
	assert.Equal(t, alice.ID, post.AuthorID)

	var like model.LikeResult
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodPost, "/posts/"+post.ID+"/like", "bob", nil, &like))
	assert.True(t, like.Liked)

	var comment model.Comment
	require.Equal(t, stdhttp.StatusCreated,
		c.do(stdhttp.MethodPost, "/posts/"+post.ID+"/comments", "bob", model.CreateCommentRequest{Content: "nice"}, &comment))

	var unread map[string]int
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodGet, "/notifications/unread-count", "alice", nil, &unread))
	assert.Equal(t, 2, unread["count"])

	var list struct {
		Notifications []model.Notification `json:"notifications"`
	}
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodGet, "/notifications", "alice", nil, &list))
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, model.NotificationTypeComment, list.Notifications[0].Type)
	require.NotNil(t, list.Notifications[0].Actor)
	assert.Equal(t, "bob", list.Notifications[0].Actor.Username)

	var marked model.MarkReadResult
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodPost, "/notifications/read", "alice",
		model.MarkReadRequest{NotificationIDs: []string{list.Notifications[0].ID}}, &marked))
	assert.EqualValues(t, 1, marked.Updated)

	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodPost, "/notifications/read-all", "alice", nil, &marked))
	assert.EqualValues(t, 1, marked.Updated)

	var feed struct {
		Posts []model.FeedPost `json:"posts"`
	}
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodGet, "/posts?limit=10", "", nil, &feed))
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, 1, feed.Posts[0].LikeCount)
	assert.Equal(t, 1, feed.Posts[0].CommentCount)
}

func TestRouter_ErrorMapping(t *testing.T) {
	c := newTestClient(t)
	alice := c.me("alice")
	c.me("bob")

	var post model.Post
	require.Equal(t, stdhttp.StatusCreated,
		c.do(stdhttp.MethodPost, "/posts", "alice", model.CreatePostRequest{Content: "mine"}, &post))

	assert.Equal(t, stdhttp.StatusForbidden, c.do(stdhttp.MethodDelete, "/posts/"+post.ID, "bob", nil, nil))
	assert.Equal(t, stdhttp.StatusNotFound, c.do(stdhttp.MethodPost, "/posts/nope/like", "bob", nil, nil))
	assert.Equal(t, stdhttp.StatusBadRequest,
		c.do(stdhttp.MethodPost, "/posts/"+post.ID+"/comments", "bob", model.CreateCommentRequest{Content: "  "}, nil))
	assert.Equal(t, stdhttp.StatusBadRequest, c.do(stdhttp.MethodPost, "/posts", "bob", model.CreatePostRequest{}, nil))
	assert.Equal(t, stdhttp.StatusUnprocessableEntity,
		c.do(stdhttp.MethodPost, "/users/"+alice.ID+"/follow", "alice", nil, nil))
	assert.Equal(t, stdhttp.StatusBadRequest, c.do(stdhttp.MethodGet, "/posts?limit=abc", "", nil, nil))
	assert.Equal(t, stdhttp.StatusNotFound, c.do(stdhttp.MethodGet, "/profiles/nobody", "", nil, nil))

	var deleted model.DeleteResult
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodDelete, "/posts/"+post.ID, "alice", nil, &deleted))
	assert.True(t, deleted.Deleted)
}

func TestRouter_AnonymousIsSkipped(t *testing.T) {
	c := newTestClient(t)
	c.me("alice")

	var skipped map[string]bool
	assert.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodGet, "/me", "", nil, &skipped))
	assert.True(t, skipped["skipped"])

	skipped = nil
	assert.Equal(t, stdhttp.StatusOK,
		c.do(stdhttp.MethodPost, "/posts", "", model.CreatePostRequest{Content: "ghost"}, &skipped))
	assert.True(t, skipped["skipped"])

	var like model.LikeResult
	assert.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodPost, "/posts/anything/like", "", nil, &like))
	assert.True(t, like.Skipped)

	req := httptest.NewRequest(stdhttp.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

func TestRouter_AnonymousMalformedBodyIsSkipped(t *testing.T) {
	c := newTestClient(t)
	c.me("alice")

	var post model.Post
	require.Equal(t, stdhttp.StatusCreated,
		c.do(stdhttp.MethodPost, "/posts", "alice", model.CreatePostRequest{Content: "hi"}, &post))

	routes := []struct {
		method string
		path   string
	}{
		{stdhttp.MethodPost, "/posts"},
		{stdhttp.MethodPost, "/posts/" + post.ID + "/comments"},
		{stdhttp.MethodPatch, "/me/profile"},
		{stdhttp.MethodPost, "/notifications/read"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			req := httptest.NewRequest(rt.method, rt.path, strings.NewReader("{not json"))
			rec := httptest.NewRecorder()
			c.router.ServeHTTP(rec, req)

			assert.Equal(t, stdhttp.StatusOK, rec.Code)
			assert.JSONEq(t, `{"skipped":true}`, rec.Body.String())

			req = httptest.NewRequest(rt.method, rt.path, strings.NewReader("{not json"))
			req.Header.Set("Authorization", "Bearer "+c.token("alice"))
			rec = httptest.NewRecorder()
			c.router.ServeHTTP(rec, req)

			assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
		})
	}
}

func TestRouter_ProfilesAndFollows(t *testing.T) {
	c := newTestClient(t)
	alice := c.me("alice")
	c.me("bob")
	c.me("carol")

	var follow model.FollowResult
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodPost, "/users/"+alice.ID+"/follow", "bob", nil, &follow))
	assert.True(t, follow.Following)

	var following map[string]bool
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodGet, "/users/"+alice.ID+"/following", "bob", nil, &following))
	assert.True(t, following["following"])

	var profile model.Profile
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodGet, "/profiles/alice", "", nil, &profile))
	assert.Equal(t, 1, profile.FollowerCount)

	var suggestions struct {
		Users []model.SuggestedUser `json:"users"`
	}
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodGet, "/users/suggestions", "bob", nil, &suggestions))
	require.Len(t, suggestions.Users, 1)
	assert.Equal(t, "carol", suggestions.Users[0].Username)

	var updated model.User
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodPatch, "/me/profile", "alice",
		model.UpdateProfileRequest{Name: "Alice A.", Bio: "hi"}, &updated))
	assert.Equal(t, "Alice A.", updated.Name)

	var post model.Post
	require.Equal(t, stdhttp.StatusCreated,
		c.do(stdhttp.MethodPost, "/posts", "alice", model.CreatePostRequest{Content: "p"}, &post))
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodPost, "/posts/"+post.ID+"/like", "bob", nil, nil))

	var posts struct {
		Posts []model.FeedPost `json:"posts"`
	}
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodGet, "/profiles/alice/posts", "", nil, &posts))
	assert.Len(t, posts.Posts, 1)
	require.Equal(t, stdhttp.StatusOK, c.do(stdhttp.MethodGet, "/profiles/bob/likes", "", nil, &posts))
	require.Len(t, posts.Posts, 1)
	assert.Equal(t, post.ID, posts.Posts[0].ID)
}
