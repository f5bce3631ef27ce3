package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialfeed/internal/model"
)

func TestListNotifications_NewestFirstWithProjections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")
	f.addUser(t, "u2")
	f.addUser(t, "u3")
	post := f.addPost(t, "u1", "hello")

	_, err := f.toggle.ToggleFollow(ctx, "u2", "u1")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = f.toggle.ToggleLike(ctx, "u2", post.ID)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = f.interaction.CreateComment(ctx, "u3", post.ID, "first!")
	require.NoError(t, err)

	list := f.notificationsOf(t, "u1")
	require.Len(t, list, 3)
	assert.Equal(t, model.NotificationTypeComment, list[0].Type)
	assert.Equal(t, model.NotificationTypeLike, list[1].Type)
	assert.Equal(t, model.NotificationTypeFollow, list[2].Type)

	require.NotNil(t, list[0].Actor)
	assert.Equal(t, "u3", list[0].Actor.Username)
	require.NotNil(t, list[1].Post)
	assert.Equal(t, post.ID, list[1].Post.ID)
	assert.Nil(t, list[2].Post)
	assert.Nil(t, list[2].Comment)

	// Nobody interacted with u2's content.
	assert.Empty(t, f.notificationsOf(t, "u2"))
	assert.Empty(t, f.notificationsOf(t, ""))
}

func TestMarkRead_ScopedToRecipient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")
	f.addUser(t, "u2")

	_, err := f.toggle.ToggleFollow(ctx, "u2", "u1")
	require.NoError(t, err)
	_, err = f.toggle.ToggleFollow(ctx, "u1", "u2")
	require.NoError(t, err)

	forU1 := f.notificationsOf(t, "u1")[0].ID
	forU2 := f.notificationsOf(t, "u2")[0].ID

	res, err := f.notifications.MarkRead(ctx, "u1", []string{forU1, forU2, forU1, "unknown"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Updated)

	assert.True(t, f.notificationsOf(t, "u1")[0].IsRead)
	assert.False(t, f.notificationsOf(t, "u2")[0].IsRead)

	// Marking again is a no-op success.
	res, err = f.notifications.MarkRead(ctx, "u1", []string{forU1})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Updated)

	res, err = f.notifications.MarkRead(ctx, "", []string{forU2})
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	res, err = f.notifications.MarkRead(ctx, "u1", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Updated)
}

func TestMarkAllReadAndUnreadCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")
	f.addUser(t, "u2")
	post := f.addPost(t, "u1", "hello")

	_, err := f.toggle.ToggleLike(ctx, "u2", post.ID)
	require.NoError(t, err)
	_, err = f.interaction.CreateComment(ctx, "u2", post.ID, "hey")
	require.NoError(t, err)

	count, err := f.notifications.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	res, err := f.notifications.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Updated)

	count, err = f.notifications.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = f.notifications.UnreadCount(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, clampLimit(0, 50, 100))
	assert.Equal(t, 50, clampLimit(-3, 50, 100))
	assert.Equal(t, 7, clampLimit(7, 50, 100))
	assert.Equal(t, 100, clampLimit(1000, 50, 100))
}
