package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Activity event types. One is published after every committed mutation.
const (
	EventPostCreated    = "post_created"
	EventPostDeleted    = "post_deleted"
	EventPostLiked      = "post_liked"
	EventPostUnliked    = "post_unliked"
	EventPostCommented  = "post_commented"
	EventUserFollowed   = "user_followed"
	EventUserUnfollowed = "user_unfollowed"
	EventProfileUpdated = "profile_updated"
)

// Stream names
const (
	StreamActivity = "stream:activity"
)

// Consumer group name for invalidation workers
const (
	ConsumerGroupInvalidation = "home_invalidators"
)

// ActivityEvent describes a committed change that makes cached views stale.
type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ActorID   string `json:"actor_id"`

	PostID    string `json:"post_id,omitempty"`
	CommentID string `json:"comment_id,omitempty"`
	TargetID  string `json:"target_id,omitempty"` // followed / unfollowed user
}

func newEvent(eventType, actorID string) ActivityEvent {
	return ActivityEvent{
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		ActorID:   actorID,
	}
}

func NewPostCreatedEvent(actorID, postID string) ActivityEvent {
	e := newEvent(EventPostCreated, actorID)
	e.PostID = postID
	return e
}

func NewPostDeletedEvent(actorID, postID string) ActivityEvent {
	e := newEvent(EventPostDeleted, actorID)
	e.PostID = postID
	return e
}

// NewLikeToggledEvent returns post_liked or post_unliked depending on the new state.
func NewLikeToggledEvent(actorID, postID string, liked bool) ActivityEvent {
	eventType := EventPostUnliked
	if liked {
		eventType = EventPostLiked
	}
	e := newEvent(eventType, actorID)
	e.PostID = postID
	return e
}

func NewCommentedEvent(actorID, postID, commentID string) ActivityEvent {
	e := newEvent(EventPostCommented, actorID)
	e.PostID = postID
	e.CommentID = commentID
	return e
}

// NewFollowToggledEvent returns user_followed or user_unfollowed depending on the new state.
func NewFollowToggledEvent(actorID, targetID string, following bool) ActivityEvent {
	eventType := EventUserUnfollowed
	if following {
		eventType = EventUserFollowed
	}
	e := newEvent(eventType, actorID)
	e.TargetID = targetID
	return e
}

func NewProfileUpdatedEvent(actorID string) ActivityEvent {
	return newEvent(EventProfileUpdated, actorID)
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e ActivityEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseActivityEvent parses an ActivityEvent from Redis stream message values.
func ParseActivityEvent(values map[string]interface{}) (ActivityEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ActivityEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ActivityEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ActivityEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
